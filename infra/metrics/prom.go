// Package metrics implements the core metrics sinks over Prometheus and
// InfluxDB.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/agromw/missiond/core/metrics"
)

// PromSink records dispatch pipeline events in Prometheus metrics.
type PromSink struct {
	dispatches  *prometheus.CounterVec
	validations *prometheus.CounterVec
	aborts      *prometheus.CounterVec
}

// NewPromSink registers the dispatch metrics on the default Prometheus
// registerer. The metrics server is started separately.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	dispatches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mission_dispatch_events_total",
		Help: "Per-vehicle dispatch outcomes",
	}, []string{"vehicle_type", "kind", "success"})
	validations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mission_validation_results_total",
		Help: "Mission validation outcomes by code",
	}, []string{"code", "fatal"})
	aborts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mission_abort_events_total",
		Help: "Per-vehicle abort notifications",
	}, []string{"hard", "success"})

	for _, c := range []**prometheus.CounterVec{&dispatches, &validations, &aborts} {
		if err := reg.Register(*c); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				*c = are.ExistingCollector.(*prometheus.CounterVec)
			} else {
				return nil, err
			}
		}
	}

	return &PromSink{dispatches: dispatches, validations: validations, aborts: aborts}, nil
}

// RecordDispatch increments the dispatch counter.
func (s *PromSink) RecordDispatch(ev coremetrics.DispatchEvent) error {
	s.dispatches.WithLabelValues(ev.VehicleType, ev.Kind, strconv.FormatBool(ev.Success)).Inc()
	return nil
}

// RecordValidation increments the validation counter.
func (s *PromSink) RecordValidation(ev coremetrics.ValidationEvent) error {
	s.validations.WithLabelValues(strconv.Itoa(ev.Code), strconv.FormatBool(ev.Fatal)).Inc()
	return nil
}

// RecordAbort increments the abort counter.
func (s *PromSink) RecordAbort(ev coremetrics.AbortEvent) error {
	s.aborts.WithLabelValues(strconv.FormatBool(ev.Hard), strconv.FormatBool(ev.Success)).Inc()
	return nil
}
