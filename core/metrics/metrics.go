// Package metrics defines the observability surface of the dispatch
// pipeline. Sinks are implemented in infra/metrics.
package metrics

import "time"

// DispatchEvent is one per-vehicle dispatch outcome.
type DispatchEvent struct {
	MissionID   int
	VehicleID   int
	VehicleType string
	Kind        string // "plan" or "prescription_map"
	Success     bool
	Time        time.Time
}

// ValidationEvent is the outcome of one mission validation pass.
type ValidationEvent struct {
	MissionID int
	Code      int
	Fatal     bool
	Time      time.Time
}

// AbortEvent is one per-vehicle abort notification.
type AbortEvent struct {
	MissionID int
	VehicleID int
	Hard      bool
	Success   bool
	Time      time.Time
}

// Sink records dispatch pipeline events.
type Sink interface {
	RecordDispatch(ev DispatchEvent) error
	RecordValidation(ev ValidationEvent) error
	RecordAbort(ev AbortEvent) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordDispatch(DispatchEvent) error     { return nil }
func (NopSink) RecordValidation(ValidationEvent) error { return nil }
func (NopSink) RecordAbort(AbortEvent) error           { return nil }
