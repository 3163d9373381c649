// Package rest implements the outbound HTTP collaborators declared in
// core/clients.
package rest

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config holds the base URLs of the external services. Endpoints left empty
// disable the corresponding client in the application wiring.
type Config struct {
	StoreURL           string `json:"store_url"`
	ConverterURL       string `json:"converter_url"`
	RegistryURL        string `json:"registry_url"`
	ReporterURL        string `json:"reporter_url"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify"`
	TimeoutSeconds     int    `json:"timeout_seconds"`
}

// SetDefaults fills unset fields with working defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
}

// Validate checks the config for consistency.
func (c Config) Validate() error {
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("rest config: negative timeout")
	}
	return nil
}

// newHTTPClient builds the shared HTTP client. Some deployments run the
// external services with self-signed certificates, hence the opt-in
// insecure mode.
func newHTTPClient(cfg Config) *http.Client {
	client := &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
	if cfg.InsecureSkipVerify {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // #nosec G402
		}
	}
	return client
}

// postJSON sends a JSON body and fails on any non-2xx answer.
func postJSON(client *http.Client, req *http.Request, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	req.Body = io.NopCloser(bytes.NewReader(body))
	req.ContentLength = int64(len(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: unexpected status %s", req.URL.Path, resp.Status)
	}
	return nil
}
