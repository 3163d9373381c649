// Package validate implements the staged mission validation rule chain.
package validate

import (
	"github.com/agromw/missiond/core/logger"
	"github.com/agromw/missiond/core/model"
)

// Validator runs the ordered rule chain over an inbound mission. It returns
// on the first failing check, so the caller is expected to patch repairable
// fields and validate again until the result is Valid or fatal.
type Validator struct {
	log logger.Logger
}

// New creates a Validator.
func New(log logger.Logger) *Validator {
	return &Validator{log: log}
}

// Validate checks the mission and returns the first failing rule.
func (v *Validator) Validate(mission *model.Mission) Result {
	// Simple fatal errors.
	if mission == nil {
		v.log.Errorf("%s", MissionNil)
		return MissionNil
	}
	if mission.ID == 0 {
		v.log.Errorf("%s", NoMissionID)
		return NoMissionID
	}
	if mission.NavigationArea == nil {
		v.log.Errorf("%s", NoNavigation)
		return NoNavigation
	}
	if mission.Vehicles == nil {
		v.log.Errorf("%s", NoVehicles)
		return NoVehicles
	}
	if mission.Tasks == nil {
		v.log.Errorf("%s", NoTasks)
		return NoTasks
	}

	// Repairable errors. The caller fills the field and revalidates.
	if mission.Name == "" {
		v.log.Warnf("%s", NoMissionName)
		return NoMissionName
	}
	if mission.HomeLocation == nil {
		v.log.Warnf("%s", NoHomeLocation)
		return NoHomeLocation
	}
	if mission.ForbiddenArea == nil {
		v.log.Warnf("%s", NoForbiddenArea)
		return NoForbiddenArea
	}

	var hasMobile, hasImplement bool
	for _, vehicle := range mission.Vehicles {
		switch {
		case vehicle.Type.IsMobile():
			hasMobile = true
		case vehicle.Type.IsImplement():
			hasImplement = true
		}
	}

	// Complex fatal errors.
	if hasMobile && !hasImplement && mission.Commands == nil {
		v.log.Errorf("%s", NoCommands)
		return NoCommands
	}
	if !hasMobile && hasImplement && !anyTaskWithGrid(mission.Tasks) {
		v.log.Errorf("%s", NoPrescriptionMap)
		return NoPrescriptionMap
	}

	// Complex warnings. Dispatch proceeds; idle vehicles are only logged.
	var idleMobile, idleImplement bool
	for _, vehicle := range mission.Vehicles {
		switch {
		case vehicle.Type.IsMobile():
			if !anyCommandForVehicle(mission.Commands, vehicle.ID) {
				v.log.Warnf("%s Vehicle ID: %d", NoCommandsWarn, vehicle.ID)
				idleMobile = true
			}
		case vehicle.Type.IsImplement():
			if !anyGridTaskForVehicle(mission.Tasks, vehicle.ID) {
				v.log.Warnf("%s Vehicle ID: %d", NoPrescriptionMapWarn, vehicle.ID)
				idleImplement = true
			}
		}
	}

	switch {
	case idleMobile && idleImplement:
		return NoCommandsPMWarn
	case idleMobile:
		return NoCommandsWarn
	case idleImplement:
		return NoPrescriptionMapWarn
	}

	return Valid
}

func anyCommandForVehicle(commands []model.Command, vehicleID int) bool {
	for _, c := range commands {
		if c.RelatedTask.AssignedVehicleID == vehicleID {
			return true
		}
	}
	return false
}

func anyGridTaskForVehicle(tasks []model.Task, vehicleID int) bool {
	for _, t := range tasks {
		if t.AssignedVehicleID == vehicleID && t.HasTreatmentGrid() {
			return true
		}
	}
	return false
}

func anyTaskWithGrid(tasks []model.Task) bool {
	for _, t := range tasks {
		if t.HasTreatmentGrid() {
			return true
		}
	}
	return false
}
