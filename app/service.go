// Package app wires the configuration into a running dispatch service.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/agromw/missiond/api"
	"github.com/agromw/missiond/config"
	"github.com/agromw/missiond/core/clients"
	coremetrics "github.com/agromw/missiond/core/metrics"
	"github.com/agromw/missiond/core/mission"
	"github.com/agromw/missiond/core/plan"
	"github.com/agromw/missiond/core/sysconfig"
	"github.com/agromw/missiond/core/validate"
	"github.com/agromw/missiond/infra/archive"
	"github.com/agromw/missiond/infra/logger"
	"github.com/agromw/missiond/infra/metrics"
	"github.com/agromw/missiond/infra/mqtt"
	"github.com/agromw/missiond/infra/rest"
)

// Service bundles the running components of the dispatcher.
type Service struct {
	Manager *mission.Manager
	Tracker *sysconfig.Tracker

	publisher *mqtt.PahoPublisher
	apiServer *http.Server
	cfg       *config.Config
	log       logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	log := logger.New("service")

	publisher, err := mqtt.NewPahoPublisher(cfg.MQTT)
	if err != nil {
		return nil, fmt.Errorf("mqtt publisher: %w", err)
	}
	requester, err := mqtt.NewConfigRequester(publisher)
	if err != nil {
		return nil, fmt.Errorf("mqtt sysconfig: %w", err)
	}

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket))
	}
	var sink coremetrics.Sink
	switch len(sinks) {
	case 0:
		sink = coremetrics.NopSink{}
	case 1:
		sink = sinks[0]
	default:
		sink = metrics.NewMultiSink(sinks...)
	}

	archiver, err := archive.NewFileArchiver(cfg.Archive)
	if err != nil {
		return nil, err
	}
	var audit mission.AuditExporter
	if cfg.Archive.ExportCSV {
		audit = archiver
	}

	var signer mission.Signer
	if cfg.Dispatch.SignedTransport {
		s, err := mission.NewHMACSigner(cfg.Dispatch.HMACSecret)
		if err != nil {
			return nil, err
		}
		signer = s
	}

	var store clients.MissionStore
	if cfg.Clients.StoreURL != "" {
		store = rest.NewStoreClient(cfg.Clients)
	}
	var converter clients.MapConverter
	if cfg.Clients.ConverterURL != "" {
		converter = rest.NewConverterClient(cfg.Clients)
	}
	var reporter clients.ResultReporter
	if cfg.Clients.ReporterURL != "" {
		reporter = rest.NewReporterClient(cfg.Clients)
	}
	var registry clients.VehicleRegistry = unreachableRegistry{}
	if cfg.Clients.RegistryURL != "" {
		registry = rest.NewRegistryClient(cfg.Clients)
	}

	manager := mission.NewManager(mission.Deps{
		Validator:   validate.New(logger.New("validator")),
		Extractor:   plan.NewExtractor(logger.New("extractor")),
		Synthesizer: plan.NewSynthesizer(cfg.PrescriptionMap, logger.New("synthesizer")),
		Publisher:   publisher,
		Store:       store,
		Converter:   converter,
		Reporter:    reporter,
		Archiver:    archiver,
		Audit:       audit,
		Signer:      signer,
		Metrics:     sink,
		Logger:      logger.New("mission_manager"),
	})

	tracker := sysconfig.New(requester, registry,
		time.Duration(cfg.SysConfig.TimeoutSeconds)*time.Second,
		cfg.SysConfig.MaxVehicles, logger.New("sysconfig"))
	requester.SetListener(tracker)

	svc := &Service{
		Manager:   manager,
		Tracker:   tracker,
		publisher: publisher,
		cfg:       cfg,
		log:       log,
	}
	svc.apiServer = &http.Server{
		Addr:    cfg.API.Addr,
		Handler: api.New(manager, tracker, api.Config{Token: cfg.API.Token}),
	}
	return svc, nil
}

// Run starts the HTTP API and, when enabled, the metrics server. It blocks
// until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("API listening on %s", s.cfg.API.Addr)
		if err := s.apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.apiServer.Shutdown(shutdownCtx)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.publisher.Disconnect()
	return nil
}

// unreachableRegistry stands in when no registry endpoint is configured;
// the tracker then falls back to the configured vehicle count.
type unreachableRegistry struct{}

func (unreachableRegistry) CountVehicles(context.Context) (int, error) {
	return 0, fmt.Errorf("vehicle registry not configured")
}
