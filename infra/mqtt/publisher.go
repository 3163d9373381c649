package mqtt

import (
	"encoding/json"
	"strings"
	"sync/atomic"

	"github.com/agromw/missiond/core/bus"
	"github.com/agromw/missiond/core/model"
	"github.com/agromw/missiond/infra/logger"
)

// abortEvent is the wire form of an abort notification. The sequence number
// is a bus-wide counter shared by all abort publishes of this process.
type abortEvent struct {
	SequenceNumber int       `json:"sequence_number"`
	VehicleID      int       `json:"vehicle_id"`
	EventTypeID    int       `json:"event_type_id"`
	ParamArray     []float64 `json:"param_array"`
}

// PahoPublisher implements bus.Publisher over a Paho MQTT connection.
type PahoPublisher struct {
	cli      pahoClient
	cfg      Config
	eventSeq atomic.Int64
	log      logger.Logger
}

// NewPahoPublisher connects to the broker and returns the publisher.
func NewPahoPublisher(cfg Config) (*PahoPublisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.New("mqtt_publisher")
	cli, err := connect(cfg, log)
	if err != nil {
		return nil, err
	}
	return &PahoPublisher{cli: cli, cfg: cfg, log: log}, nil
}

// PublishPlan sends a serialized plan on the vehicle's mission topic.
func (p *PahoPublisher) PublishPlan(v model.Vehicle, missionName string, payload []byte) error {
	topic := expandTopic(p.cfg.PlanTopic, missionName, v)
	if err := p.publish(topic, payload); err != nil {
		return err
	}
	p.log.Infof("plan for vehicle %d published on %s", v.ID, topic)
	return nil
}

// PublishAbort sends a soft abort event for the vehicle.
func (p *PahoPublisher) PublishAbort(v model.Vehicle, missionName string) error {
	return p.publishAbort(v, missionName, bus.AbortSoft)
}

// PublishAbortHard sends a hard abort event for the vehicle.
func (p *PahoPublisher) PublishAbortHard(v model.Vehicle, missionName string) error {
	return p.publishAbort(v, missionName, bus.AbortHard)
}

func (p *PahoPublisher) publishAbort(v model.Vehicle, missionName string, eventType int) error {
	payload, err := json.Marshal(abortEvent{
		SequenceNumber: int(p.eventSeq.Add(1)),
		VehicleID:      v.ID,
		EventTypeID:    eventType,
		ParamArray:     []float64{0, 0, 0},
	})
	if err != nil {
		return err
	}
	topic := expandTopic(p.cfg.AbortTopic, missionName, v)
	if err := p.publish(topic, payload); err != nil {
		return err
	}
	p.log.Infof("abort event %d for vehicle %d published on %s", eventType, v.ID, topic)
	return nil
}

func (p *PahoPublisher) publish(topic string, payload []byte) error {
	if !p.cli.IsConnected() {
		return bus.ErrNotConnected
	}
	token := p.cli.Publish(topic, p.cfg.QoS, p.cfg.Retained, payload)
	if !token.WaitTimeout(waitTimeout) {
		return bus.ErrNotConnected
	}
	return token.Error()
}

// Disconnect gracefully closes the MQTT connection.
func (p *PahoPublisher) Disconnect() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}

// expandTopic substitutes the mission and vehicle placeholders of a topic
// template. Slashes are stripped from the substituted values so a mission
// name cannot inject topic levels.
func expandTopic(template, missionName string, v model.Vehicle) string {
	r := strings.NewReplacer(
		"{mission}", sanitizeLevel(missionName),
		"{vehicle_type}", sanitizeLevel(string(v.Type)),
		"{vehicle_name}", sanitizeLevel(v.Name),
	)
	return r.Replace(template)
}

func sanitizeLevel(s string) string {
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "#", "_")
	s = strings.ReplaceAll(s, "+", "_")
	return s
}
