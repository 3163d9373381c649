package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agromw/missiond/core/isobus"
	"github.com/agromw/missiond/core/model"
	"github.com/agromw/missiond/infra/logger"
)

func gridTask(vehicleID int) model.Task {
	return model.Task{
		ID:                1,
		MissionID:         1,
		AssignedVehicleID: vehicleID,
		Area: model.Region{Area: []model.Position{
			{Latitude: 45.0, Longitude: 4.0},
			{Latitude: 45.0, Longitude: 4.001},
			{Latitude: 45.001, Longitude: 4.001},
			{Latitude: 45.001, Longitude: 4.0},
		}},
		TreatmentGrids: []model.TreatmentGrid{
			{NumRows: 2, NumCols: 3, TreatmentValue: []float64{1, 2, 3, 4, 5, 6}},
		},
	}
}

func TestSynthesizeBuildsMap(t *testing.T) {
	s := NewSynthesizer(MapConfig{}, logger.NopLogger{})
	mission := &model.Mission{ID: 1, Name: "spray", Tasks: []model.Task{gridTask(9)}}

	pm, err := s.Synthesize(model.Vehicle{ID: 9, Type: model.TypeTractor}, mission)
	require.NoError(t, err)

	require.Len(t, pm.Task, 1)
	task := pm.Task[0]
	assert.Equal(t, "TSK1", task.TaskID)
	assert.Equal(t, 1, task.DefaultTreatmentZoneCode)
	assert.Equal(t, 1, task.TaskStatus)
	assert.Equal(t, 2, task.PositionLostTreatmentZoneCode)
	assert.Equal(t, 3, task.OutOfFieldTreatmentZoneCode)

	require.Len(t, task.TreatmentZone, 1)
	tz := task.TreatmentZone[0]
	assert.Equal(t, 0, tz.TreatmentZoneCode)
	assert.Equal(t, "SiteSpecific", tz.TreatmentZoneDesignator)
	require.Len(t, tz.ProcessDataVariable, 1)
	assert.Equal(t, "mm3/m2", tz.ProcessDataVariable[0].UoM)
	assert.Equal(t, "PDT1", tz.ProcessDataVariable[0].ProductID)

	g := task.Grid
	assert.Equal(t, 2, g.GridMaximumRow)
	assert.Equal(t, 3, g.GridMaximumColumn)
	assert.Equal(t, 2, g.GridType)
	assert.InDelta(t, 45.0, g.GridMinimumNorthPosition, 1e-9)
	assert.InDelta(t, 4.0, g.GridMinimumEastPosition, 1e-9)
	assert.InDelta(t, 0.001/2, g.GridCellNorthSize, 1e-12)
	assert.InDelta(t, 0.001/3, g.GridCellEastSize, 1e-12)
	require.Len(t, g.GridCell, 6)
	for _, v := range g.GridCell {
		assert.Zero(t, v)
	}
}

func TestSynthesizeDefaultsIdentifiers(t *testing.T) {
	s := NewSynthesizer(MapConfig{}, logger.NopLogger{})
	mission := &model.Mission{ID: 1, Name: "spray", Tasks: []model.Task{gridTask(9)}}

	pm, err := s.Synthesize(model.Vehicle{ID: 9, Type: model.TypeTractor}, mission)
	require.NoError(t, err)

	assert.Equal(t, "CTR1", pm.Customer.CustomerID)
	assert.Equal(t, "FRM1", pm.Farm.FarmID)
	assert.Equal(t, "PFD1", pm.Partfield.PartfieldID)
	require.Len(t, pm.Product, 1)
	assert.Equal(t, "PDT1", pm.Product[0].ProductID)
	assert.Equal(t, "Wasser", pm.Product[0].ProductDesignator)
	require.Len(t, pm.CulturalPractice, 1)
	assert.Equal(t, "OTQ7", pm.CulturalPractice[0].OperationTechniqueReference[0].OperationTechniqueIDRef)
	assert.Equal(t, "TOFERTILIZE", pm.OperationTechnique[0].OperationTechniqueDesignator)
	assert.Equal(t, "WKR1", pm.Worker.WorkerID)
}

func TestSynthesizePartfieldPerimeterWins(t *testing.T) {
	s := NewSynthesizer(MapConfig{}, logger.NopLogger{})
	task := gridTask(9)
	task.Partfields = []model.Partfield{{
		IsoID: "PF77",
		Name:  "north field",
		BorderPoints: &model.Region{Area: []model.Position{
			{Latitude: 46.0, Longitude: 5.0},
			{Latitude: 46.0, Longitude: 5.002},
			{Latitude: 46.002, Longitude: 5.002},
			{Latitude: 46.002, Longitude: 5.0},
		}},
	}}
	mission := &model.Mission{ID: 1, Name: "spray", Tasks: []model.Task{task}}

	pm, err := s.Synthesize(model.Vehicle{ID: 9, Type: model.TypeTractor}, mission)
	require.NoError(t, err)

	assert.Equal(t, "PF77", pm.Partfield.PartfieldID)
	assert.Equal(t, "north field", pm.Partfield.PartfieldDesignator)
	// The bounding box follows the partfield border, not the task area.
	assert.InDelta(t, 46.0, pm.Task[0].Grid.GridMinimumNorthPosition, 1e-9)
	assert.InDelta(t, 5.0, pm.Task[0].Grid.GridMinimumEastPosition, 1e-9)
	assert.Positive(t, pm.Partfield.PartfieldArea)
}

func TestSynthesizePerimeterRing(t *testing.T) {
	s := NewSynthesizer(MapConfig{}, logger.NopLogger{})
	mission := &model.Mission{ID: 1, Name: "spray", Tasks: []model.Task{gridTask(9)}}

	pm, err := s.Synthesize(model.Vehicle{ID: 9, Type: model.TypeTractor}, mission)
	require.NoError(t, err)

	ring := pm.Partfield.Polygon.LineString
	assert.Equal(t, isobus.LineStringPolygonExterior, ring.LineStringType)
	require.Len(t, ring.Point, 4)
	for _, p := range ring.Point {
		assert.Equal(t, isobus.PointOther, p.PointType)
	}
	assert.InDelta(t, 45.0, ring.Point[0].PointNorth, 1e-9)
	assert.InDelta(t, 4.0, ring.Point[0].PointEast, 1e-9)
}

func TestSynthesizeNoGridTasks(t *testing.T) {
	s := NewSynthesizer(MapConfig{}, logger.NopLogger{})

	task := gridTask(9)
	task.TreatmentGrids = nil
	mission := &model.Mission{ID: 1, Name: "spray", Tasks: []model.Task{task}}
	_, err := s.Synthesize(model.Vehicle{ID: 9, Type: model.TypeTractor}, mission)
	assert.ErrorIs(t, err, ErrNoTasks)

	// Tasks for other vehicles do not count either.
	mission = &model.Mission{ID: 1, Name: "spray", Tasks: []model.Task{gridTask(4)}}
	_, err = s.Synthesize(model.Vehicle{ID: 9, Type: model.TypeTractor}, mission)
	assert.ErrorIs(t, err, ErrNoTasks)
}

func TestSynthesizeUsesFirstGridTask(t *testing.T) {
	s := NewSynthesizer(MapConfig{}, logger.NopLogger{})
	second := gridTask(9)
	second.ID = 2
	second.TreatmentGrids[0].NumRows = 9
	mission := &model.Mission{ID: 1, Name: "spray", Tasks: []model.Task{gridTask(9), second}}

	pm, err := s.Synthesize(model.Vehicle{ID: 9, Type: model.TypeTractor}, mission)
	require.NoError(t, err)
	assert.Equal(t, 2, pm.Task[0].Grid.GridMaximumRow)
}
