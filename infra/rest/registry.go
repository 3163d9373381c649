package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/agromw/missiond/infra/logger"
)

// RegistryClient asks the fleet directory how many vehicles are registered.
type RegistryClient struct {
	base   string
	client *http.Client
	log    logger.Logger
}

// NewRegistryClient creates a client for the directory at the configured
// base URL.
func NewRegistryClient(cfg Config) *RegistryClient {
	cfg.SetDefaults()
	return &RegistryClient{
		base:   cfg.RegistryURL,
		client: newHTTPClient(cfg),
		log:    logger.New("registry_client"),
	}
}

// CountVehicles fetches the registered vehicle list and returns its length.
func (c *RegistryClient) CountVehicles(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/getAllVehicleTypes", nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("registry: unexpected status %s", resp.Status)
	}

	var vehicles []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&vehicles); err != nil {
		return 0, fmt.Errorf("registry: decode: %w", err)
	}
	c.log.Debugf("registry reports %d vehicles", len(vehicles))
	return len(vehicles), nil
}
