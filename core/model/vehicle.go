package model

// VehicleType identifies the category of a mission vehicle.
type VehicleType string

const (
	// Mobile unmanned categories. Plans for these vehicles are command
	// sequences published on the message bus.
	TypeAUAV VehicleType = "AUAV"
	TypeRUAV VehicleType = "RUAV"
	TypeUAV  VehicleType = "UAV"
	TypeAGV  VehicleType = "AGV"
	TypeUGV  VehicleType = "UGV"

	// Ground implement categories. Plans for these vehicles are
	// prescription maps handed to the conversion service.
	TypeRGV     VehicleType = "RGV"
	TypeTractor VehicleType = "Tractor"
)

// IsMobile reports whether the type is a mobile unmanned category.
func (t VehicleType) IsMobile() bool {
	switch t {
	case TypeAUAV, TypeRUAV, TypeUAV, TypeAGV, TypeUGV:
		return true
	}
	return false
}

// IsImplement reports whether the type is a ground implement category.
func (t VehicleType) IsImplement() bool {
	return t == TypeRGV || t == TypeTractor
}

// Vehicle is one member of a mission's fleet.
type Vehicle struct {
	ID       int         `json:"id"`
	Name     string      `json:"name"`
	Type     VehicleType `json:"type"`
	MaxSpeed float64     `json:"max_speed"`
}
