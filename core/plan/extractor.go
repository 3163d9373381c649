// Package plan derives per-vehicle work from a validated mission: command
// sequences for mobile vehicles and prescription maps for implements.
package plan

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/agromw/missiond/core/logger"
	"github.com/agromw/missiond/core/model"
)

// Extractor filters and orders the commands belonging to one mobile vehicle
// and packages them into a vehicle plan. Plans carry a process-wide
// monotonically increasing sequence number; it is an ordering hint for
// downstream consumers, not a uniqueness guarantee across restarts.
type Extractor struct {
	seq atomic.Int64
	log logger.Logger
}

// NewExtractor creates an Extractor.
func NewExtractor(log logger.Logger) *Extractor {
	return &Extractor{log: log}
}

// Extract builds the vehicle plan for the given vehicle. A command with an
// empty parameter list or a vehicle with no commands at all fails extraction
// for this vehicle only.
func (e *Extractor) Extract(vehicle model.Vehicle, mission *model.Mission) (*model.VehiclePlan, error) {
	if mission.Commands == nil {
		return nil, fmt.Errorf("mission %d: %w", mission.ID, ErrNoCommands)
	}

	var commands []model.Command
	for _, c := range mission.Commands {
		if c.RelatedTask.AssignedVehicleID == vehicle.ID {
			commands = append(commands, c)
		}
	}

	sortByStartTime(commands)

	vp := &model.VehiclePlan{
		SequenceNumber:     int(e.seq.Add(1)),
		MissionID:          mission.ID,
		VehicleID:          vehicle.ID,
		MaximumLinearSpeed: vehicle.MaxSpeed,
	}
	for _, c := range commands {
		if len(c.Params) == 0 {
			return nil, fmt.Errorf("mission %d: vehicle %d (%s) command %d: %w",
				mission.ID, vehicle.ID, vehicle.Type, c.ID, ErrMalformedCommand)
		}
		params := make([]float64, len(c.Params))
		copy(params, c.Params)
		vp.CommandArray = append(vp.CommandArray, model.PlanCommand{
			CommandID:     c.ID,
			CommandTypeID: c.TypeID,
			ParamArray:    params,
		})
	}

	if len(vp.CommandArray) == 0 {
		return nil, fmt.Errorf("mission %d: vehicle %d (%s): %w",
			mission.ID, vehicle.ID, vehicle.Type, ErrNoCommands)
	}

	e.log.Infof("extracted plan for vehicle %d with %d commands", vehicle.ID, len(vp.CommandArray))
	return vp, nil
}

// sortByStartTime orders commands by ascending start time. The sort is
// stable: commands with equal start times keep their input order. All
// commands must belong to the same vehicle; the filter above guarantees
// that, so a mixed slice is a programming error.
func sortByStartTime(commands []model.Command) {
	sort.SliceStable(commands, func(i, j int) bool {
		if commands[i].RelatedTask.AssignedVehicleID != commands[j].RelatedTask.AssignedVehicleID {
			panic("plan: comparing commands of different vehicles")
		}
		return commands[i].StartTime < commands[j].StartTime
	})
}
