package config

import "fmt"

// DispatchConfig tunes the dispatch pipeline.
type DispatchConfig struct {
	// SignedTransport wraps published plans in an HS256 envelope.
	SignedTransport bool `json:"signed_transport"`
	// HMACSecret is the shared signing secret; required when
	// SignedTransport is on.
	HMACSecret string `json:"hmac_secret"`
}

// SetDefaults applies sane defaults.
func (c *DispatchConfig) SetDefaults() {}

// Validate checks mandatory fields.
func (c DispatchConfig) Validate() error {
	if c.SignedTransport && c.HMACSecret == "" {
		return fmt.Errorf("dispatch config: signed_transport requires hmac_secret")
	}
	return nil
}
