package mqtt

import (
	"encoding/json"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/agromw/missiond/core/bus"
	"github.com/agromw/missiond/infra/logger"
)

// ConfigListener receives the terminal outcome of a configuration cycle.
type ConfigListener interface {
	SetCompleted(requestID string)
	SetTimedOut(requestID string)
}

type configRequest struct {
	RequestID string `json:"request_id"`
	Expected  int    `json:"expected"`
}

type configResponse struct {
	RequestID string `json:"request_id"`
	VehicleID int    `json:"vehicle_id"`
}

type pendingRequest struct {
	remaining int
	done      chan struct{}
}

// ConfigRequester implements bus.ConfigPublisher: it broadcasts a
// configuration request and counts vehicle responses against the expected
// number, signaling the listener on completion or timeout. It shares the
// publisher's broker connection.
type ConfigRequester struct {
	cli pahoClient
	cfg Config
	log logger.Logger

	mu       sync.Mutex
	listener ConfigListener
	pending  map[string]*pendingRequest
}

// NewConfigRequester subscribes to the response topic of the publisher's
// connection. Bind the listener before the first request.
func NewConfigRequester(p *PahoPublisher) (*ConfigRequester, error) {
	r := &ConfigRequester{
		cli:     p.cli,
		cfg:     p.cfg,
		log:     logger.New("mqtt_sysconfig"),
		pending: make(map[string]*pendingRequest),
	}
	token := r.cli.Subscribe(r.cfg.ConfigResponseTopic, r.cfg.QoS, r.onResponse)
	if token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return r, nil
}

// SetListener binds the terminal-outcome receiver.
func (r *ConfigRequester) SetListener(l ConfigListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listener = l
}

// PublishConfigRequest broadcasts a request and starts the countdown for
// its responses.
func (r *ConfigRequester) PublishConfigRequest(requestID string, expected int, timeout time.Duration) error {
	payload, err := json.Marshal(configRequest{RequestID: requestID, Expected: expected})
	if err != nil {
		return err
	}

	p := &pendingRequest{remaining: expected, done: make(chan struct{})}
	r.mu.Lock()
	r.pending[requestID] = p
	r.mu.Unlock()

	token := r.cli.Publish(r.cfg.ConfigRequestTopic, r.cfg.QoS, false, payload)
	if !token.WaitTimeout(waitTimeout) || token.Error() != nil {
		r.mu.Lock()
		delete(r.pending, requestID)
		r.mu.Unlock()
		if token.Error() != nil {
			return token.Error()
		}
		return bus.ErrNotConnected
	}

	go r.await(requestID, p, timeout)
	return nil
}

// await blocks a goroutine until all responses arrived or the timeout
// elapsed, then signals the listener exactly once.
func (r *ConfigRequester) await(requestID string, p *pendingRequest, timeout time.Duration) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var completed bool
	select {
	case <-p.done:
		completed = true
	case <-timer.C:
	}

	r.mu.Lock()
	delete(r.pending, requestID)
	listener := r.listener
	r.mu.Unlock()

	if listener == nil {
		r.log.Errorf("config request %s finished with no listener bound", requestID)
		return
	}
	if completed {
		listener.SetCompleted(requestID)
	} else {
		listener.SetTimedOut(requestID)
	}
}

func (r *ConfigRequester) onResponse(_ paho.Client, msg paho.Message) {
	var resp configResponse
	if err := json.Unmarshal(msg.Payload(), &resp); err != nil {
		r.log.Errorf("malformed config response: %v", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pending[resp.RequestID]
	if !ok {
		r.log.Warnf("config response for unknown request %s from vehicle %d", resp.RequestID, resp.VehicleID)
		return
	}
	p.remaining--
	r.log.Debugf("config response from vehicle %d, %d remaining", resp.VehicleID, p.remaining)
	if p.remaining <= 0 {
		close(p.done)
		delete(r.pending, resp.RequestID)
	}
}
