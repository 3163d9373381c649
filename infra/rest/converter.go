package rest

import (
	"context"
	"net/http"
	"net/url"

	"github.com/agromw/missiond/core/isobus"
	"github.com/agromw/missiond/infra/logger"
)

// ConverterClient hands prescription maps to the ISOBUS conversion service.
type ConverterClient struct {
	base   string
	client *http.Client
	log    logger.Logger
}

// NewConverterClient creates a client for the converter at the configured
// base URL.
func NewConverterClient(cfg Config) *ConverterClient {
	cfg.SetDefaults()
	return &ConverterClient{
		base:   cfg.ConverterURL,
		client: newHTTPClient(cfg),
		log:    logger.New("converter_client"),
	}
}

// SendPrescriptionMap posts the map for conversion, keyed by mission.
func (c *ConverterClient) SendPrescriptionMap(ctx context.Context, missionKey string, pm *isobus.PrescriptionMap) error {
	endpoint := c.base + "/convert?missionID=" + url.QueryEscape(missionKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return err
	}
	if err := postJSON(c.client, req, pm); err != nil {
		return err
	}
	c.log.Infof("prescription map for mission %s sent for conversion", missionKey)
	return nil
}
