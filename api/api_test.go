package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agromw/missiond/core/model"
	"github.com/agromw/missiond/core/sysconfig"
	"github.com/agromw/missiond/infra/logger"
)

// orchestratorStub records calls and returns canned results.
type orchestratorStub struct {
	mu         sync.Mutex
	dispatched chan *model.Mission
	current    *model.Mission
	abortCalls []string
	result     string
	report     model.ReportStatus
}

func newOrchestratorStub() *orchestratorStub {
	return &orchestratorStub{dispatched: make(chan *model.Mission, 1), result: "OK"}
}

func (o *orchestratorStub) Dispatch(_ int, m *model.Mission) { o.dispatched <- m }
func (o *orchestratorStub) CurrentMission() *model.Mission   { return o.current }

func (o *orchestratorStub) abort(call string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.abortCalls = append(o.abortCalls, call)
	return o.result
}

func (o *orchestratorStub) AbortVehicle(id int) string     { return o.abort("vehicle") }
func (o *orchestratorStub) AbortVehicleHard(id int) string { return o.abort("vehicle_hard") }
func (o *orchestratorStub) AbortMission(id int) string     { return o.abort("mission") }
func (o *orchestratorStub) AbortMissionHard(id int) string { return o.abort("mission_hard") }

func (o *orchestratorStub) ValidateReport(*model.MissionReport) model.ReportStatus {
	return o.report
}

type trackerPublisherStub struct{}

func (trackerPublisherStub) PublishConfigRequest(string, int, time.Duration) error { return nil }

type trackerRegistryStub struct{}

func (trackerRegistryStub) CountVehicles(context.Context) (int, error) { return 3, nil }

func newTestHandler(o *orchestratorStub, cfg Config) http.Handler {
	tracker := sysconfig.New(trackerPublisherStub{}, trackerRegistryStub{}, time.Second, 3, logger.NopLogger{})
	return New(o, tracker, cfg)
}

func TestDispatchEndpoint(t *testing.T) {
	o := newOrchestratorStub()
	srv := httptest.NewServer(newTestHandler(o, Config{}))
	defer srv.Close()

	body, _ := json.Marshal(model.Mission{ID: 42, Name: "harvest"})
	resp, err := http.Post(srv.URL+"/mission/dispatch?requestID=7", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	select {
	case m := <-o.dispatched:
		assert.Equal(t, 42, m.ID)
	case <-time.After(time.Second):
		t.Fatal("mission never reached the orchestrator")
	}
}

func TestDispatchEndpointRejectsBadInput(t *testing.T) {
	o := newOrchestratorStub()
	srv := httptest.NewServer(newTestHandler(o, Config{}))
	defer srv.Close()

	// Missing requestID.
	resp, err := http.Post(srv.URL+"/mission/dispatch", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Malformed body.
	resp, err = http.Post(srv.URL+"/mission/dispatch?requestID=1", "application/json", strings.NewReader(`{`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCurrentMissionEndpoint(t *testing.T) {
	o := newOrchestratorStub()
	srv := httptest.NewServer(newTestHandler(o, Config{}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/mission/current")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	o.current = &model.Mission{ID: 42, Name: "harvest"}
	resp, err = http.Get(srv.URL + "/mission/current")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got model.Mission
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 42, got.ID)
}

func TestAbortEndpoints(t *testing.T) {
	o := newOrchestratorStub()
	srv := httptest.NewServer(newTestHandler(o, Config{}))
	defer srv.Close()

	paths := []string{
		"/mission/abort/vehicle/7",
		"/mission/abort/vehicle/7/hard",
		"/mission/abort/42",
		"/mission/abort/42/hard",
	}
	for _, p := range paths {
		resp, err := http.Post(srv.URL+p, "application/json", nil)
		require.NoError(t, err)
		var got abortResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "OK", got.Result)
	}
	assert.Equal(t, []string{"vehicle", "vehicle_hard", "mission", "mission_hard"}, o.abortCalls)
}

func TestAbortEndpointNoActiveMission(t *testing.T) {
	o := newOrchestratorStub()
	o.result = "NOK: No active mission"
	srv := httptest.NewServer(newTestHandler(o, Config{}))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/mission/abort/vehicle/7", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	var got abortResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "NOK: No active mission", got.Result)
}

func TestValidateReportEndpoint(t *testing.T) {
	o := newOrchestratorStub()
	o.report = model.ReportUnknownVehicle
	srv := httptest.NewServer(newTestHandler(o, Config{}))
	defer srv.Close()

	body, _ := json.Marshal(model.MissionReport{MissionID: 42, VehicleID: 9})
	resp, err := http.Post(srv.URL+"/mission/report/validate", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var got reportResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, int(model.ReportUnknownVehicle), got.Status)
	assert.Equal(t, model.ReportUnknownVehicle.String(), got.Name)
}

func TestVehiclesStatusRequestEndpoint(t *testing.T) {
	o := newOrchestratorStub()
	srv := httptest.NewServer(newTestHandler(o, Config{}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/systemconfiguration/vehiclesStatusRequest?reqID=req-1", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var got statusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "req-1", got.RequestID)
	assert.Equal(t, int(sysconfig.StatusAccepted), got.Status)

	// Missing reqID is a client error.
	req, _ = http.NewRequest(http.MethodPut, srv.URL+"/systemconfiguration/vehiclesStatusRequest", nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBearerTokenAuth(t *testing.T) {
	o := newOrchestratorStub()
	srv := httptest.NewServer(newTestHandler(o, Config{Token: "secret"}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/mission/current")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/mission/current", nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
