package metrics

import coremetrics "github.com/agromw/missiond/core/metrics"

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordDispatch forwards the event to all sinks, returning the first error.
func (m *MultiSink) RecordDispatch(ev coremetrics.DispatchEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordDispatch(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordValidation forwards the event to all sinks.
func (m *MultiSink) RecordValidation(ev coremetrics.ValidationEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordValidation(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordAbort forwards the event to all sinks.
func (m *MultiSink) RecordAbort(ev coremetrics.AbortEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordAbort(ev); err != nil {
			return err
		}
	}
	return nil
}
