package model

// ReportStatus is the outcome of validating a mission report against the
// currently active mission.
type ReportStatus byte

const (
	ReportValid             ReportStatus = 0x00
	ReportMissionIDMismatch ReportStatus = 0x01
	ReportMissionNotActive  ReportStatus = 0x02
	ReportNoMission         ReportStatus = 0x03
	ReportUnknownVehicle    ReportStatus = 0x10
)

func (s ReportStatus) String() string {
	switch s {
	case ReportValid:
		return "valid"
	case ReportMissionIDMismatch:
		return "mission id mismatch"
	case ReportMissionNotActive:
		return "mission not active"
	case ReportNoMission:
		return "no active mission"
	case ReportUnknownVehicle:
		return "vehicle not in mission"
	}
	return "unknown"
}

// CommandStatus is the per-command progress element of a mission report.
type CommandStatus struct {
	CommandID int    `json:"command_id"`
	StatusID  int    `json:"status_id"`
	Message   string `json:"message,omitempty"`
}

// MissionReport is a progress report sent by a vehicle for the active mission.
type MissionReport struct {
	SequenceNumber     int             `json:"sequence_number"`
	MissionID          int             `json:"mission_id"`
	VehicleID          int             `json:"vehicle_id"`
	MissionStatusID    int             `json:"mission_status_id"`
	CommandReportArray []CommandStatus `json:"command_report_array"`
	LastUpdate         int64           `json:"last_update"`
}
