package rest

import (
	"context"
	"net/http"

	"github.com/agromw/missiond/core/model"
	"github.com/agromw/missiond/infra/logger"
)

// StoreClient forwards accepted missions to the external mission store.
type StoreClient struct {
	base   string
	client *http.Client
	log    logger.Logger
}

// NewStoreClient creates a client for the store at the configured base URL.
func NewStoreClient(cfg Config) *StoreClient {
	cfg.SetDefaults()
	return &StoreClient{
		base:   cfg.StoreURL,
		client: newHTTPClient(cfg),
		log:    logger.New("store_client"),
	}
}

// StoreMission posts the full mission document to the store.
func (c *StoreClient) StoreMission(ctx context.Context, mission *model.Mission) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/storage/rest/dq/addMission", nil)
	if err != nil {
		return err
	}
	if err := postJSON(c.client, req, mission); err != nil {
		return err
	}
	c.log.Infof("mission %d stored", mission.ID)
	return nil
}
