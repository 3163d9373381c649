package model

// Position is a geographic point in degrees, altitude in meters.
type Position struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Altitude  float64 `json:"altitude"`
}

// Region is a closed polygon described by its vertices.
type Region struct {
	Area []Position `json:"area"`
}

// TreatmentGrid is a rectangular grid of treatment values covering a task area.
type TreatmentGrid struct {
	NumRows        int       `json:"num_rows"`
	NumCols        int       `json:"num_cols"`
	TreatmentValue []float64 `json:"treatment_value"`
}

// Partfield carries optional field metadata attached to a task.
type Partfield struct {
	IsoID        string  `json:"iso_id,omitempty"`
	Name         string  `json:"name,omitempty"`
	BorderPoints *Region `json:"border_points,omitempty"`
}

// Task is one unit of work within a mission. AssignedVehicleID is a weak
// reference into the mission's vehicle list.
type Task struct {
	ID                int             `json:"id"`
	MissionID         int             `json:"mission_id"`
	AssignedVehicleID int             `json:"assigned_vehicle_id"`
	Area              Region          `json:"area"`
	Speed             float64         `json:"speed"`
	Altitude          float64         `json:"altitude"`
	Range             float64         `json:"range"`
	MaxSpeed          float64         `json:"max_speed"`
	StartTime         int64           `json:"start_time"`
	EndTime           int64           `json:"end_time"`
	Status            string          `json:"status,omitempty"`
	TreatmentGrids    []TreatmentGrid `json:"treatment_grids,omitempty"`
	Partfields        []Partfield     `json:"partfields,omitempty"`
}

// HasTreatmentGrid reports whether the task carries at least one grid.
func (t Task) HasTreatmentGrid() bool { return len(t.TreatmentGrids) > 0 }

// Command is one low-level vehicle instruction. The related task owns the
// weak reference to the assigned vehicle.
type Command struct {
	ID          int       `json:"id"`
	TypeID      int       `json:"type_id"`
	StartTime   int64     `json:"start_time"`
	EndTime     int64     `json:"end_time"`
	Params      []float64 `json:"params"`
	RelatedTask Task      `json:"related_task"`
}

// Mission is the inbound multi-vehicle work order. Nil slices and the nil
// navigation area mean the upstream planner omitted the field entirely.
type Mission struct {
	ID             int        `json:"mission_id"`
	Name           string     `json:"name,omitempty"`
	NavigationArea *Region    `json:"navigation_area,omitempty"`
	ForbiddenArea  []Region   `json:"forbidden_area,omitempty"`
	HomeLocation   []Position `json:"home_location,omitempty"`
	Vehicles       []Vehicle  `json:"vehicles,omitempty"`
	Tasks          []Task     `json:"tasks,omitempty"`
	Commands       []Command  `json:"commands,omitempty"`
}

// VehicleByID returns the mission vehicle with the given id.
func (m *Mission) VehicleByID(id int) (Vehicle, bool) {
	for _, v := range m.Vehicles {
		if v.ID == id {
			return v, true
		}
	}
	return Vehicle{}, false
}
