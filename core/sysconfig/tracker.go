// Package sysconfig tracks fleet configuration-request cycles. A cycle is
// started by the first status query for a request id, runs until every
// expected vehicle has answered on the bus or the timeout elapses, and is
// then queryable until a new request id supersedes it.
package sysconfig

import (
	"context"
	"sync"
	"time"

	"github.com/agromw/missiond/core/bus"
	"github.com/agromw/missiond/core/clients"
	"github.com/agromw/missiond/core/logger"
)

// Status is the result of a status query. Values follow HTTP status
// conventions so the transport layer can return them verbatim.
type Status int

const (
	StatusReady         Status = 0
	StatusCompleted     Status = 200
	StatusAccepted      Status = 201
	StatusInProgress    Status = 304
	StatusConflict      Status = 409
	StatusInternalError Status = 500
	StatusBusError      Status = 503
	StatusTimeout       Status = 504
)

// String returns a short name for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusCompleted:
		return "completed"
	case StatusAccepted:
		return "accepted"
	case StatusInProgress:
		return "in_progress"
	case StatusConflict:
		return "conflict"
	case StatusInternalError:
		return "internal_error"
	case StatusBusError:
		return "bus_error"
	case StatusTimeout:
		return "timeout"
	}
	return "unknown"
}

// Tracker is the configuration-request state machine. The status, request id
// and update timestamp form one unit guarded by a single mutex; every
// mutating method takes the lock for its whole duration.
type Tracker struct {
	mu        sync.Mutex
	status    Status
	requestID string
	updated   time.Time

	pub         bus.ConfigPublisher
	registry    clients.VehicleRegistry
	timeout     time.Duration
	maxVehicles int
	log         logger.Logger
}

// New creates a Tracker in the ready state. maxVehicles is the expected
// responder count used when the registry cannot be reached.
func New(pub bus.ConfigPublisher, registry clients.VehicleRegistry, timeout time.Duration, maxVehicles int, log logger.Logger) *Tracker {
	return &Tracker{
		status:      StatusReady,
		pub:         pub,
		registry:    registry,
		timeout:     timeout,
		maxVehicles: maxVehicles,
		log:         log,
	}
}

// RequestStatus starts or queries a configuration cycle for the given
// request id. A query for an unknown id while another request is in flight
// returns StatusConflict without touching the in-flight request. A query
// with a new id after a terminal state resets the tracker and begins a new
// cycle in the same call.
func (t *Tracker) RequestStatus(ctx context.Context, requestID string) Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.status {
	case StatusInProgress:
		if requestID == t.requestID {
			return StatusInProgress
		}
		return StatusConflict
	case StatusCompleted, StatusTimeout:
		if requestID == t.requestID {
			return t.status
		}
		t.log.Infof("request %s supersedes finished request %s", requestID, t.requestID)
		t.status = StatusReady
		t.requestID = ""
	}
	return t.begin(ctx, requestID)
}

// begin publishes a new configuration request. Caller holds the lock.
func (t *Tracker) begin(ctx context.Context, requestID string) Status {
	expected := t.maxVehicles
	if n, err := t.registry.CountVehicles(ctx); err != nil {
		t.log.Warnf("vehicle registry unavailable, assuming %d vehicles: %v", expected, err)
	} else if n > 0 {
		expected = n
	}

	if err := t.pub.PublishConfigRequest(requestID, expected, t.timeout); err != nil {
		t.log.Errorf("config request %s: publish failed: %v", requestID, err)
		return StatusBusError
	}

	t.status = StatusInProgress
	t.requestID = requestID
	t.updated = time.Now()
	t.log.Infof("config request %s started, expecting %d responses", requestID, expected)
	return StatusAccepted
}

// SetCompleted marks the in-flight request completed. Signals for a stale
// or unknown request id are dropped.
func (t *Tracker) SetCompleted(requestID string) {
	t.finish(requestID, StatusCompleted)
}

// SetTimedOut marks the in-flight request timed out.
func (t *Tracker) SetTimedOut(requestID string) {
	t.finish(requestID, StatusTimeout)
}

func (t *Tracker) finish(requestID string, terminal Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status != StatusInProgress || t.requestID != requestID {
		t.log.Warnf("dropping %s signal for request %s in state %s", terminal, requestID, t.status)
		return
	}
	t.status = terminal
	t.updated = time.Now()
	t.log.Infof("config request %s finished: %s", requestID, terminal)
}

// Current returns the stored state and its request id.
func (t *Tracker) Current() (Status, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status, t.requestID
}
