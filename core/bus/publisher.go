// Package bus defines the message-bus surface the dispatcher publishes to.
package bus

import (
	"time"

	"github.com/agromw/missiond/core/model"
)

// Abort severities carried in abort event payloads.
const (
	AbortHard = 1
	AbortSoft = 2
)

// Publisher delivers per-vehicle plans and abort events to the bus. The
// mission name is part of the topic, so callers pass it alongside the
// payload.
type Publisher interface {
	// PublishPlan sends a serialized vehicle plan on the vehicle's mission
	// topic.
	PublishPlan(vehicle model.Vehicle, missionName string, payload []byte) error

	// PublishAbort sends a soft abort event for the vehicle: finish or
	// park safely, then stop.
	PublishAbort(vehicle model.Vehicle, missionName string) error

	// PublishAbortHard sends a hard abort event for the vehicle: stop
	// immediately.
	PublishAbortHard(vehicle model.Vehicle, missionName string) error
}

// ConfigPublisher triggers a system configuration cycle: a request is
// broadcast and each vehicle answers on the response topic. Responses are
// counted against expected until all arrive or the timeout expires; the
// outcome is reported through the subscriber given at construction time.
type ConfigPublisher interface {
	PublishConfigRequest(requestID string, expected int, timeout time.Duration) error
}
