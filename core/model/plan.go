package model

// PlanCommand is one command of an extracted vehicle plan. Parameters are
// copied verbatim from the mission command.
type PlanCommand struct {
	CommandID     int       `json:"command_id"`
	CommandTypeID int       `json:"command_type_id"`
	ParamArray    []float64 `json:"param_array"`
}

// VehiclePlan is the ordered command subsequence extracted for one mobile
// vehicle. It is serialized and published immediately, never retained.
type VehiclePlan struct {
	SequenceNumber     int           `json:"sequence_number"`
	MissionID          int           `json:"mission_id"`
	VehicleID          int           `json:"vehicle_id"`
	MaximumLinearSpeed float64       `json:"maximum_linear_speed"`
	CommandArray       []PlanCommand `json:"command_array"`
}
