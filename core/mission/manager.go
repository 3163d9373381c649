// Package mission contains the dispatch orchestrator: it validates inbound
// missions, decomposes them per vehicle and hands the results to the bus and
// the conversion service, and owns the single active-mission slot that the
// abort and report paths read.
package mission

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/agromw/missiond/core/bus"
	"github.com/agromw/missiond/core/clients"
	"github.com/agromw/missiond/core/logger"
	"github.com/agromw/missiond/core/metrics"
	"github.com/agromw/missiond/core/model"
	"github.com/agromw/missiond/core/plan"
	"github.com/agromw/missiond/core/validate"
)

// Abort results returned to the transport layer.
const (
	ResultOK              = "OK"
	ResultNOK             = "NOK"
	ResultNoActiveMission = "NOK: No active mission"
)

// PlaceholderName is patched into missions that arrive without a name.
const PlaceholderName = "unnamedMission"

// Archiver writes serialized plans and prescription maps to an audit trail.
type Archiver interface {
	ArchivePlan(requestID, missionID, vehicleID int, payload []byte) error
	ArchiveMap(requestID, missionID, vehicleID int, payload []byte) error
}

// Signer wraps a serialized plan into a signed envelope before publishing.
type Signer interface {
	Sign(payload []byte) ([]byte, error)
}

// AuditExporter writes a human-readable audit record per accepted mission.
type AuditExporter interface {
	ExportMissionCSV(requestID int, m *model.Mission) error
}

// Deps bundles the orchestrator's collaborators. Archiver, Signer, Reporter
// and Metrics are optional.
type Deps struct {
	Validator   *validate.Validator
	Extractor   *plan.Extractor
	Synthesizer *plan.Synthesizer
	Publisher   bus.Publisher
	Store       clients.MissionStore
	Converter   clients.MapConverter
	Reporter    clients.ResultReporter
	Archiver    Archiver
	Audit       AuditExporter
	Signer      Signer
	Metrics     metrics.Sink
	Logger      logger.Logger
}

// Manager drives the dispatch pipeline and owns the active-mission slot.
// The slot, its active flag and every read-iterate-clear sequence over it
// are guarded by one mutex.
type Manager struct {
	mu      sync.Mutex
	current *model.Mission
	active  bool

	validator *validate.Validator
	extractor *plan.Extractor
	synth     *plan.Synthesizer
	pub       bus.Publisher
	store     clients.MissionStore
	converter clients.MapConverter
	reporter  clients.ResultReporter
	archiver  Archiver
	audit     AuditExporter
	signer    Signer
	sink      metrics.Sink
	log       logger.Logger
}

// NewManager creates a Manager from its collaborators.
func NewManager(d Deps) *Manager {
	if d.Metrics == nil {
		d.Metrics = metrics.NopSink{}
	}
	return &Manager{
		validator: d.Validator,
		extractor: d.Extractor,
		synth:     d.Synthesizer,
		pub:       d.Publisher,
		store:     d.Store,
		converter: d.Converter,
		reporter:  d.Reporter,
		archiver:  d.Archiver,
		audit:     d.Audit,
		signer:    d.Signer,
		sink:      d.Metrics,
		log:       d.Logger,
	}
}

// Dispatch validates the mission and fans it out per vehicle. The call is
// fire-and-forget from the caller's perspective: nothing is returned and
// every downstream failure is logged, never surfaced. A second dispatch
// while a mission is active replaces the active mission.
func (m *Manager) Dispatch(requestID int, mission *model.Mission) {
	if mission != nil {
		plan.ScrubNaN(mission, m.log)
	}

	result := m.runValidation(mission)
	m.reportValidation(mission, result)

	if result.Severity == validate.SeverityFatal {
		m.log.Errorf("request %d: mission rejected: %s", requestID, result)
		return
	}
	if result.Severity == validate.SeverityWarning {
		m.log.Warnf("request %d: mission %d: %s", requestID, mission.ID, result)
	}

	m.mu.Lock()
	if m.current != nil {
		m.log.Warnf("request %d: mission %d replaces active mission %d", requestID, mission.ID, m.current.ID)
	}
	m.current = mission
	m.active = true
	m.mu.Unlock()

	if m.store != nil {
		go func() {
			if err := m.store.StoreMission(context.Background(), mission); err != nil {
				m.log.Errorf("mission %d: store failed: %v", mission.ID, err)
			}
		}()
	}
	if m.audit != nil {
		go func() {
			if err := m.audit.ExportMissionCSV(requestID, mission); err != nil {
				m.log.Warnf("mission %d: audit export failed: %v", mission.ID, err)
			}
		}()
	}

	for _, v := range mission.Vehicles {
		switch {
		case v.Type.IsMobile():
			m.dispatchMobile(requestID, mission, v)
		case v.Type.IsImplement():
			m.dispatchImplement(requestID, mission, v)
		default:
			m.log.Warnf("mission %d: vehicle %d has unknown type %q, skipped", mission.ID, v.ID, v.Type)
		}
	}
}

// runValidation applies the validator until it stops asking for repairs.
// Each repairable code can fire at most once, so the loop terminates.
func (m *Manager) runValidation(mission *model.Mission) validate.Result {
	for {
		result := m.validator.Validate(mission)
		if result.Severity != validate.SeverityRepairable {
			return result
		}
		switch result.Code {
		case validate.NoMissionName.Code:
			mission.Name = PlaceholderName
		case validate.NoHomeLocation.Code:
			mission.HomeLocation = []model.Position{}
		case validate.NoForbiddenArea.Code:
			mission.ForbiddenArea = []model.Region{}
		default:
			m.log.Errorf("unhandled repairable validation code %d", result.Code)
			return result
		}
		m.log.Infof("mission %d: patched after %s", mission.ID, result)
	}
}

func (m *Manager) reportValidation(mission *model.Mission, result validate.Result) {
	missionID := 0
	if mission != nil {
		missionID = mission.ID
	}
	if err := m.sink.RecordValidation(metrics.ValidationEvent{
		MissionID: missionID,
		Code:      result.Code,
		Fatal:     result.Severity == validate.SeverityFatal,
		Time:      time.Now(),
	}); err != nil {
		m.log.Warnf("validation metric: %v", err)
	}
	if m.reporter == nil {
		return
	}
	if err := m.reporter.ReportValidation(context.Background(), missionID, result); err != nil {
		m.log.Errorf("mission %d: result report failed: %v", missionID, err)
	}
}

func (m *Manager) dispatchMobile(requestID int, mission *model.Mission, v model.Vehicle) {
	vp, err := m.extractor.Extract(v, mission)
	if err != nil {
		m.log.Errorf("request %d: %v", requestID, err)
		m.recordDispatch(mission, v, "plan", false)
		return
	}

	payload, err := json.Marshal(vp)
	if err != nil {
		m.log.Errorf("request %d: vehicle %d: plan serialization failed: %v", requestID, v.ID, err)
		m.recordDispatch(mission, v, "plan", false)
		return
	}
	if m.signer != nil {
		if payload, err = m.signer.Sign(payload); err != nil {
			m.log.Errorf("request %d: vehicle %d: plan signing failed: %v", requestID, v.ID, err)
			m.recordDispatch(mission, v, "plan", false)
			return
		}
	}
	m.archivePlan(requestID, mission, v, payload)

	if err := m.pub.PublishPlan(v, mission.Name, payload); err != nil {
		m.log.Errorf("request %d: vehicle %d: publish failed: %v", requestID, v.ID, err)
		m.recordDispatch(mission, v, "plan", false)
		return
	}
	m.log.Infof("request %d: plan for vehicle %d published", requestID, v.ID)
	m.recordDispatch(mission, v, "plan", true)
}

func (m *Manager) dispatchImplement(requestID int, mission *model.Mission, v model.Vehicle) {
	pm, err := m.synth.Synthesize(v, mission)
	if err != nil {
		m.log.Errorf("request %d: %v", requestID, err)
		m.recordDispatch(mission, v, "prescription_map", false)
		return
	}

	payload, err := json.Marshal(pm)
	if err != nil {
		m.log.Errorf("request %d: vehicle %d: map serialization failed: %v", requestID, v.ID, err)
		m.recordDispatch(mission, v, "prescription_map", false)
		return
	}
	m.archiveMap(requestID, mission, v, payload)

	if m.converter == nil {
		m.log.Warnf("request %d: vehicle %d: no conversion service configured", requestID, v.ID)
		m.recordDispatch(mission, v, "prescription_map", false)
		return
	}
	missionKey := strconv.Itoa(mission.ID)
	go func() {
		if err := m.converter.SendPrescriptionMap(context.Background(), missionKey, pm); err != nil {
			m.log.Errorf("mission %d: vehicle %d: map conversion failed: %v", mission.ID, v.ID, err)
			m.recordDispatch(mission, v, "prescription_map", false)
			return
		}
		m.log.Infof("mission %d: map for vehicle %d sent for conversion", mission.ID, v.ID)
		m.recordDispatch(mission, v, "prescription_map", true)
	}()
}

func (m *Manager) archivePlan(requestID int, mission *model.Mission, v model.Vehicle, payload []byte) {
	if m.archiver == nil {
		return
	}
	if err := m.archiver.ArchivePlan(requestID, mission.ID, v.ID, payload); err != nil {
		m.log.Warnf("request %d: vehicle %d: plan archive failed: %v", requestID, v.ID, err)
	}
}

func (m *Manager) archiveMap(requestID int, mission *model.Mission, v model.Vehicle, payload []byte) {
	if m.archiver == nil {
		return
	}
	if err := m.archiver.ArchiveMap(requestID, mission.ID, v.ID, payload); err != nil {
		m.log.Warnf("request %d: vehicle %d: map archive failed: %v", requestID, v.ID, err)
	}
}

func (m *Manager) recordDispatch(mission *model.Mission, v model.Vehicle, kind string, ok bool) {
	if err := m.sink.RecordDispatch(metrics.DispatchEvent{
		MissionID:   mission.ID,
		VehicleID:   v.ID,
		VehicleType: string(v.Type),
		Kind:        kind,
		Success:     ok,
		Time:        time.Now(),
	}); err != nil {
		m.log.Warnf("dispatch metric: %v", err)
	}
}

// CurrentMission returns the active mission, or nil when idle.
func (m *Manager) CurrentMission() *model.Mission {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// AbortVehicle sends a soft abort to one vehicle of the active mission.
func (m *Manager) AbortVehicle(vehicleID int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.abortVehicle(vehicleID, false)
}

// AbortVehicleHard sends a hard abort to one vehicle of the active mission.
func (m *Manager) AbortVehicleHard(vehicleID int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.abortVehicle(vehicleID, true)
}

// abortVehicle issues one abort publish. Caller holds the lock.
func (m *Manager) abortVehicle(vehicleID int, hard bool) string {
	if m.current == nil {
		return ResultNoActiveMission
	}
	v, ok := m.current.VehicleByID(vehicleID)
	if !ok {
		m.log.Errorf("abort: vehicle %d not part of mission %d", vehicleID, m.current.ID)
		return ResultNOK
	}

	var err error
	if hard {
		err = m.pub.PublishAbortHard(v, m.current.Name)
	} else {
		err = m.pub.PublishAbort(v, m.current.Name)
	}
	m.recordAbort(m.current.ID, v.ID, hard, err == nil)
	if err != nil {
		m.log.Errorf("abort: vehicle %d: publish failed: %v", vehicleID, err)
		return ResultNOK
	}
	return ResultOK
}

// AbortMission aborts every mobile vehicle of the active mission. The
// per-vehicle abort is always hard, even for the soft mission variant;
// implements are skipped. The active mission is cleared only when every
// per-vehicle abort succeeded.
func (m *Manager) AbortMission(missionID int) string {
	return m.abortMission(missionID)
}

// AbortMissionHard behaves exactly like AbortMission; see there.
func (m *Manager) AbortMissionHard(missionID int) string {
	return m.abortMission(missionID)
}

func (m *Manager) abortMission(missionID int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return ResultNoActiveMission
	}
	if missionID != m.current.ID {
		m.log.Warnf("abort: mission %d requested while mission %d is active", missionID, m.current.ID)
	}

	allOK := true
	for _, v := range m.current.Vehicles {
		if !v.Type.IsMobile() {
			m.log.Infof("abort: mission %d: vehicle %d (%s) skipped", m.current.ID, v.ID, v.Type)
			continue
		}
		if m.abortVehicle(v.ID, true) != ResultOK {
			allOK = false
		}
	}
	if !allOK {
		return ResultNOK
	}
	m.log.Infof("mission %d aborted", m.current.ID)
	m.current = nil
	m.active = false
	return ResultOK
}

func (m *Manager) recordAbort(missionID, vehicleID int, hard, ok bool) {
	if err := m.sink.RecordAbort(metrics.AbortEvent{
		MissionID: missionID,
		VehicleID: vehicleID,
		Hard:      hard,
		Success:   ok,
		Time:      time.Now(),
	}); err != nil {
		m.log.Warnf("abort metric: %v", err)
	}
}

// ValidateReport checks a vehicle status report against the active mission.
// Pure read of current state, no side effects.
func (m *Manager) ValidateReport(report *model.MissionReport) model.ReportStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return model.ReportNoMission
	}
	if report.MissionID != m.current.ID {
		return model.ReportMissionIDMismatch
	}
	if !m.active {
		return model.ReportMissionNotActive
	}
	if _, ok := m.current.VehicleByID(report.VehicleID); !ok {
		return model.ReportUnknownVehicle
	}
	return model.ReportValid
}
