package rest

import (
	"context"
	"net/http"

	"github.com/agromw/missiond/core/validate"
	"github.com/agromw/missiond/infra/logger"
)

// ReporterClient pushes validation outcomes back to the upstream planner.
type ReporterClient struct {
	base   string
	client *http.Client
	log    logger.Logger
}

// NewReporterClient creates a client for the planner callback endpoint.
func NewReporterClient(cfg Config) *ReporterClient {
	cfg.SetDefaults()
	return &ReporterClient{
		base:   cfg.ReporterURL,
		client: newHTTPClient(cfg),
		log:    logger.New("reporter_client"),
	}
}

type validationReport struct {
	MissionID   int    `json:"mission_id"`
	Code        int    `json:"code"`
	Description string `json:"description"`
}

// ReportValidation posts the outcome of one validation pass.
func (c *ReporterClient) ReportValidation(ctx context.Context, missionID int, result validate.Result) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/missionResult", nil)
	if err != nil {
		return err
	}
	report := validationReport{MissionID: missionID, Code: result.Code, Description: result.Description}
	if err := postJSON(c.client, req, report); err != nil {
		return err
	}
	c.log.Debugf("validation result %d for mission %d reported", result.Code, missionID)
	return nil
}
