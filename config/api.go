package config

import "fmt"

// APIConfig tunes the HTTP API server.
type APIConfig struct {
	Addr string `json:"addr"`
	// Token enables bearer-token authentication when non-empty.
	Token string `json:"token"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// Validate checks mandatory fields.
func (c APIConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("api config: addr is required")
	}
	return nil
}
