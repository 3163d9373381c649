package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agromw/missiond/app"
	"github.com/agromw/missiond/config"
	"github.com/agromw/missiond/core/model"
	"github.com/agromw/missiond/infra/logger"
)

var dispatchRequestID int

var dispatchCmd = &cobra.Command{
	Use:   "dispatch <mission.json>",
	Short: "Inject a mission from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  dispatchMission,
}

func init() {
	dispatchCmd.Flags().IntVar(&dispatchRequestID, "request", 1, "request identifier")
	rootCmd.AddCommand(dispatchCmd)
}

func dispatchMission(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read mission: %w", err)
	}
	var mission model.Mission
	if err := json.Unmarshal(raw, &mission); err != nil {
		return fmt.Errorf("decode mission: %w", err)
	}

	logg := logger.New("dispatch-command")
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logg.Errorf("service close: %v", err)
		}
	}()

	svc.Manager.Dispatch(dispatchRequestID, &mission)
	if cur := svc.Manager.CurrentMission(); cur == nil {
		return fmt.Errorf("mission %d was rejected", mission.ID)
	}
	logg.Infof("mission %d dispatched", mission.ID)

	// Leave the background exporters time to flush before disconnecting.
	time.Sleep(2 * time.Second)
	return nil
}
