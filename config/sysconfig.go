package config

import "fmt"

// SysConfig tunes the fleet configuration-request tracker.
type SysConfig struct {
	// TimeoutSeconds bounds how long a configuration cycle waits for
	// vehicle responses.
	TimeoutSeconds int `json:"timeout_seconds"`
	// MaxVehicles is the expected responder count when the registry is
	// unreachable.
	MaxVehicles int `json:"max_vehicles"`
}

// SetDefaults applies sane defaults.
func (c *SysConfig) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
	if c.MaxVehicles <= 0 {
		c.MaxVehicles = 5
	}
}

// Validate checks mandatory fields.
func (c SysConfig) Validate() error {
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("sysconfig: timeout_seconds must be positive")
	}
	if c.MaxVehicles <= 0 {
		return fmt.Errorf("sysconfig: max_vehicles must be positive")
	}
	return nil
}
