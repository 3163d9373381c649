package validate

import "fmt"

// Severity classifies a validation outcome.
type Severity int

const (
	// SeverityValid means the mission can be dispatched as-is.
	SeverityValid Severity = iota
	// SeverityWarning means dispatch proceeds but some vehicles are idle.
	SeverityWarning
	// SeverityRepairable means the caller must patch the missing field with
	// an empty default and validate again.
	SeverityRepairable
	// SeverityFatal aborts the dispatch entirely.
	SeverityFatal
)

// Result is one validation outcome with its numeric code.
type Result struct {
	Code        int
	Severity    Severity
	Description string
}

func (r Result) String() string {
	return fmt.Sprintf("%d: %s", r.Code, r.Description)
}

var (
	Valid = Result{0, SeverityValid, "The mission is valid."}

	NoMissionName   = Result{300, SeverityRepairable, "The mission does not have a mission name."}
	NoHomeLocation  = Result{301, SeverityRepairable, "The mission does not include a home location."}
	NoForbiddenArea = Result{302, SeverityRepairable, "The mission does not include a forbidden area."}

	NoCommandsWarn        = Result{303, SeverityWarning, "The mission includes some unmanned vehicles without commands."}
	NoPrescriptionMapWarn = Result{304, SeverityWarning, "The mission includes some implements without prescription maps."}
	NoCommandsPMWarn      = Result{305, SeverityWarning, "The mission includes both unmanned vehicles without commands and implements without prescription maps."}

	NoMissionID       = Result{400, SeverityFatal, "The mission does not have a mission ID."}
	NoNavigation      = Result{401, SeverityFatal, "The mission does not include a navigation area."}
	NoVehicles        = Result{402, SeverityFatal, "The mission does not include any vehicle."}
	NoTasks           = Result{403, SeverityFatal, "The mission does not include tasks."}
	NoCommands        = Result{404, SeverityFatal, "The mission includes only unmanned vehicles with no commands."}
	NoPrescriptionMap = Result{405, SeverityFatal, "The mission includes only implements with no prescription maps."}

	MissionNil = Result{500, SeverityFatal, "The mission is empty (unassigned)."}
)
