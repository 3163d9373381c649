// Package api exposes the dispatch, abort and system-configuration
// operations over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/agromw/missiond/core/model"
	"github.com/agromw/missiond/core/sysconfig"
	"github.com/agromw/missiond/infra/logger"
)

// Orchestrator is the mission-side surface the API exposes.
type Orchestrator interface {
	Dispatch(requestID int, mission *model.Mission)
	CurrentMission() *model.Mission
	AbortVehicle(vehicleID int) string
	AbortVehicleHard(vehicleID int) string
	AbortMission(missionID int) string
	AbortMissionHard(missionID int) string
	ValidateReport(report *model.MissionReport) model.ReportStatus
}

// Config for the HTTP API handler.
type Config struct {
	// Token enables bearer-token authentication when non-empty.
	Token string
}

// Handler bundles the router's collaborators.
type Handler struct {
	mgr     Orchestrator
	tracker *sysconfig.Tracker
	token   string
	log     logger.Logger
}

// New returns the HTTP handler exposing the dispatch API.
func New(mgr Orchestrator, tracker *sysconfig.Tracker, cfg Config) http.Handler {
	h := &Handler{mgr: mgr, tracker: tracker, token: cfg.Token, log: logger.New("api")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if h.token != "" {
		r.Use(h.authenticate)
	}

	r.Route("/mission", func(r chi.Router) {
		r.Post("/dispatch", h.dispatch)
		r.Get("/current", h.currentMission)
		r.Post("/report/validate", h.validateReport)
		r.Route("/abort", func(r chi.Router) {
			r.Post("/vehicle/{vehicleID}", h.abortVehicle(false))
			r.Post("/vehicle/{vehicleID}/hard", h.abortVehicle(true))
			r.Post("/{missionID}", h.abortMission(false))
			r.Post("/{missionID}/hard", h.abortMission(true))
		})
	})
	r.Put("/systemconfiguration/vehiclesStatusRequest", h.vehiclesStatusRequest)

	return r
}

func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+h.token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// dispatch accepts a mission and hands it to the orchestrator on a detached
// goroutine. The caller gets 202 regardless of the dispatch outcome;
// progress is observable through logs and metrics only.
func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request) {
	requestID, err := strconv.Atoi(r.URL.Query().Get("requestID"))
	if err != nil {
		http.Error(w, "missing or malformed requestID", http.StatusBadRequest)
		return
	}
	var mission model.Mission
	if err := json.NewDecoder(r.Body).Decode(&mission); err != nil {
		http.Error(w, "malformed mission: "+err.Error(), http.StatusBadRequest)
		return
	}

	go h.mgr.Dispatch(requestID, &mission)

	h.log.Infof("request %d: mission %d accepted for dispatch", requestID, mission.ID)
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) currentMission(w http.ResponseWriter, _ *http.Request) {
	mission := h.mgr.CurrentMission()
	if mission == nil {
		http.Error(w, "no active mission", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, mission)
}

type abortResponse struct {
	Result string `json:"result"`
}

func (h *Handler) abortVehicle(hard bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "vehicleID"))
		if err != nil {
			http.Error(w, "malformed vehicle id", http.StatusBadRequest)
			return
		}
		var result string
		if hard {
			result = h.mgr.AbortVehicleHard(id)
		} else {
			result = h.mgr.AbortVehicle(id)
		}
		writeJSON(w, http.StatusOK, abortResponse{Result: result})
	}
}

func (h *Handler) abortMission(hard bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "missionID"))
		if err != nil {
			http.Error(w, "malformed mission id", http.StatusBadRequest)
			return
		}
		var result string
		if hard {
			result = h.mgr.AbortMissionHard(id)
		} else {
			result = h.mgr.AbortMission(id)
		}
		writeJSON(w, http.StatusOK, abortResponse{Result: result})
	}
}

type reportResponse struct {
	Status int    `json:"status"`
	Name   string `json:"name"`
}

func (h *Handler) validateReport(w http.ResponseWriter, r *http.Request) {
	var report model.MissionReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		http.Error(w, "malformed report: "+err.Error(), http.StatusBadRequest)
		return
	}
	status := h.mgr.ValidateReport(&report)
	writeJSON(w, http.StatusOK, reportResponse{Status: int(status), Name: status.String()})
}

type statusResponse struct {
	RequestID string `json:"request_id"`
	Status    int    `json:"status"`
	State     string `json:"state"`
}

// vehiclesStatusRequest starts or polls a configuration cycle. The request
// id arrives as a form or query parameter named reqID.
func (h *Handler) vehiclesStatusRequest(w http.ResponseWriter, r *http.Request) {
	reqID := r.FormValue("reqID")
	if reqID == "" {
		http.Error(w, "missing reqID", http.StatusBadRequest)
		return
	}
	status := h.tracker.RequestStatus(r.Context(), reqID)
	writeJSON(w, http.StatusOK, statusResponse{RequestID: reqID, Status: int(status), State: status.String()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
