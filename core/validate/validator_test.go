package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agromw/missiond/core/model"
	"github.com/agromw/missiond/infra/logger"
)

func validMission() *model.Mission {
	task := model.Task{ID: 1, AssignedVehicleID: 7}
	return &model.Mission{
		ID:             42,
		Name:           "spray-north-field",
		NavigationArea: &model.Region{Area: []model.Position{{Latitude: 1, Longitude: 1}}},
		HomeLocation:   []model.Position{},
		ForbiddenArea:  []model.Region{},
		Vehicles:       []model.Vehicle{{ID: 7, Name: "uav-7", Type: model.TypeUAV}},
		Tasks:          []model.Task{task},
		Commands: []model.Command{
			{ID: 1, TypeID: 3, Params: []float64{1}, RelatedTask: task},
		},
	}
}

func TestValidateFatalStages(t *testing.T) {
	v := New(logger.NopLogger{})

	assert.Equal(t, MissionNil, v.Validate(nil))

	m := validMission()
	m.ID = 0
	assert.Equal(t, NoMissionID, v.Validate(m))

	m = validMission()
	m.NavigationArea = nil
	assert.Equal(t, NoNavigation, v.Validate(m))

	m = validMission()
	m.Vehicles = nil
	assert.Equal(t, NoVehicles, v.Validate(m))

	m = validMission()
	m.Tasks = nil
	assert.Equal(t, NoTasks, v.Validate(m))
}

func TestValidateRepairableStages(t *testing.T) {
	v := New(logger.NopLogger{})

	m := validMission()
	m.Name = ""
	res := v.Validate(m)
	assert.Equal(t, NoMissionName, res)
	assert.Equal(t, SeverityRepairable, res.Severity)

	// Patch and revalidate: the same code must not come back.
	m.Name = "unnamedMission"
	assert.NotEqual(t, NoMissionName, v.Validate(m))

	m = validMission()
	m.HomeLocation = nil
	assert.Equal(t, NoHomeLocation, v.Validate(m))
	m.HomeLocation = []model.Position{}
	assert.Equal(t, Valid, v.Validate(m))

	m = validMission()
	m.ForbiddenArea = nil
	assert.Equal(t, NoForbiddenArea, v.Validate(m))
	m.ForbiddenArea = []model.Region{}
	assert.Equal(t, Valid, v.Validate(m))
}

func TestValidateMobileOnlyWithoutCommands(t *testing.T) {
	v := New(logger.NopLogger{})
	m := validMission()
	m.Commands = nil
	res := v.Validate(m)
	assert.Equal(t, NoCommands, res)
	assert.Equal(t, SeverityFatal, res.Severity)
}

func TestValidateImplementOnlyWithoutGrids(t *testing.T) {
	v := New(logger.NopLogger{})
	m := validMission()
	m.Vehicles = []model.Vehicle{{ID: 9, Type: model.TypeTractor}}
	m.Commands = nil
	m.Tasks = []model.Task{{ID: 1, AssignedVehicleID: 9}}
	assert.Equal(t, NoPrescriptionMap, v.Validate(m))

	m.Tasks[0].TreatmentGrids = []model.TreatmentGrid{{NumRows: 2, NumCols: 2}}
	m.Tasks[0].AssignedVehicleID = 9
	assert.Equal(t, Valid, v.Validate(m))
}

func TestValidateWarnings(t *testing.T) {
	v := New(logger.NopLogger{})

	// A second mobile vehicle without any command.
	m := validMission()
	m.Vehicles = append(m.Vehicles, model.Vehicle{ID: 8, Type: model.TypeAGV})
	res := v.Validate(m)
	assert.Equal(t, NoCommandsWarn, res)
	assert.Equal(t, SeverityWarning, res.Severity)

	// An implement without a treatment-grid task.
	m = validMission()
	m.Vehicles = append(m.Vehicles, model.Vehicle{ID: 9, Type: model.TypeTractor})
	assert.Equal(t, NoPrescriptionMapWarn, v.Validate(m))

	// Both conditions collapse to the combined code.
	m = validMission()
	m.Vehicles = append(m.Vehicles,
		model.Vehicle{ID: 8, Type: model.TypeAGV},
		model.Vehicle{ID: 9, Type: model.TypeTractor},
	)
	assert.Equal(t, NoCommandsPMWarn, v.Validate(m))
}

func TestValidateValid(t *testing.T) {
	v := New(logger.NopLogger{})
	assert.Equal(t, Valid, v.Validate(validMission()))
}
