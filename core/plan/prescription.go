package plan

import (
	"fmt"

	"github.com/agromw/missiond/core/geo"
	"github.com/agromw/missiond/core/isobus"
	"github.com/agromw/missiond/core/logger"
	"github.com/agromw/missiond/core/model"
)

// MapConfig holds the descriptive identifiers written into every synthesized
// prescription map. The current scope is single-customer and single-farm, so
// these are constants per deployment rather than per-mission data.
type MapConfig struct {
	CustomerID                   string `json:"customer_id"`
	CustomerDesignator           string `json:"customer_designator"`
	FarmID                       string `json:"farm_id"`
	FarmDesignator               string `json:"farm_designator"`
	PartfieldID                  string `json:"partfield_id"`
	PartfieldDesignator          string `json:"partfield_designator"`
	ProductID                    string `json:"product_id"`
	ProductDesignator            string `json:"product_designator"`
	CropTypeID                   string `json:"crop_type_id"`
	CropTypeDesignator           string `json:"crop_type_designator"`
	CulturalPracticeID           string `json:"cultural_practice_id"`
	CulturalPracticeDesignator   string `json:"cultural_practice_designator"`
	OperationTechniqueID         string `json:"operation_technique_id"`
	OperationTechniqueDesignator string `json:"operation_technique_designator"`
	WorkerID                     string `json:"worker_id"`
	WorkerDesignator             string `json:"worker_designator"`
	Unit                         string `json:"unit"`
}

// SetDefaults fills unset identifiers with the converter's expected values.
func (c *MapConfig) SetDefaults() {
	def := func(field *string, value string) {
		if *field == "" {
			*field = value
		}
	}
	def(&c.CustomerID, "CTR1")
	def(&c.CustomerDesignator, "Customer Designator #1")
	def(&c.FarmID, "FRM1")
	def(&c.FarmDesignator, "Farm Designator #1")
	def(&c.PartfieldID, "PFD1")
	def(&c.PartfieldDesignator, "Partfield Designator #1")
	def(&c.ProductID, "PDT1")
	def(&c.ProductDesignator, "Wasser")
	def(&c.CropTypeID, "CTP1")
	def(&c.CropTypeDesignator, "Crop Type Designator #1")
	def(&c.CulturalPracticeID, "CPC1")
	def(&c.CulturalPracticeDesignator, "Cultural Practice Designator #1")
	def(&c.OperationTechniqueID, "OTQ7")
	def(&c.OperationTechniqueDesignator, "TOFERTILIZE")
	def(&c.WorkerID, "WKR1")
	def(&c.WorkerDesignator, "Worker Designator #1")
	def(&c.Unit, "mm3/m2")
}

// Synthesizer derives a prescription map from one implement vehicle's
// treatment-grid task.
type Synthesizer struct {
	cfg MapConfig
	log logger.Logger
}

// NewSynthesizer creates a Synthesizer with the given reference identifiers.
func NewSynthesizer(cfg MapConfig, log logger.Logger) *Synthesizer {
	cfg.SetDefaults()
	return &Synthesizer{cfg: cfg, log: log}
}

// Synthesize builds the prescription map for the given vehicle. The vehicle
// must have at least one task carrying a treatment grid; more than one is
// accepted but only the first is used.
func (s *Synthesizer) Synthesize(vehicle model.Vehicle, mission *model.Mission) (*isobus.PrescriptionMap, error) {
	var tasks []model.Task
	for _, t := range mission.Tasks {
		if t.AssignedVehicleID == vehicle.ID && t.HasTreatmentGrid() {
			tasks = append(tasks, t)
		}
	}

	if len(tasks) == 0 {
		return nil, fmt.Errorf("mission %d: vehicle %d (%s): %w",
			mission.ID, vehicle.ID, vehicle.Type, ErrNoTasks)
	}
	if len(tasks) > 1 {
		s.log.Warnf("vehicle %d has %d treatment-grid tasks, expected one; using the first",
			vehicle.ID, len(tasks))
	}
	source := tasks[0]

	pm := &isobus.PrescriptionMap{
		VersionMajor:                   2,
		VersionMinor:                   3,
		ManagementSoftwareManufacturer: "agromw",
		ManagementSoftwareVersion:      "1.0",
		Customer: isobus.Customer{
			CustomerID:         s.cfg.CustomerID,
			CustomerDesignator: s.cfg.CustomerDesignator,
		},
		Farm: isobus.Farm{
			FarmID:         s.cfg.FarmID,
			FarmDesignator: s.cfg.FarmDesignator,
			CustomerIDRef:  s.cfg.CustomerID,
		},
		OperationTechnique: []isobus.OperationTechnique{{
			OperationTechniqueID:         s.cfg.OperationTechniqueID,
			OperationTechniqueDesignator: s.cfg.OperationTechniqueDesignator,
		}},
		Product: []isobus.Product{{
			ProductID:         s.cfg.ProductID,
			ProductDesignator: s.cfg.ProductDesignator,
		}},
		CropType: []isobus.CropType{{
			CropTypeID:         s.cfg.CropTypeID,
			CropTypeDesignator: s.cfg.CropTypeDesignator,
		}},
		CulturalPractice: []isobus.CulturalPractice{{
			CulturalPracticeID:         s.cfg.CulturalPracticeID,
			CulturalPracticeDesignator: s.cfg.CulturalPracticeDesignator,
			OperationTechniqueReference: []isobus.OperationTechniqueReference{{
				OperationTechniqueIDRef: s.cfg.OperationTechniqueID,
			}},
		}},
		Worker: isobus.Worker{
			WorkerID:         s.cfg.WorkerID,
			WorkerDesignator: s.cfg.WorkerDesignator,
		},
	}

	partfield := isobus.Partfield{
		PartfieldID:         s.cfg.PartfieldID,
		PartfieldDesignator: s.cfg.PartfieldDesignator,
		FarmIDRef:           s.cfg.FarmID,
		CropTypeIDRef:       s.cfg.CropTypeID,
	}

	// Prefer an explicit partfield border over the task's own area.
	perimeter := source.Area
	if len(source.Partfields) > 0 {
		pf := source.Partfields[0]
		if pf.IsoID != "" {
			partfield.PartfieldID = pf.IsoID
		}
		if pf.Name != "" {
			partfield.PartfieldDesignator = pf.Name
		}
		if pf.BorderPoints != nil {
			perimeter = *pf.BorderPoints
		}
	}

	partfield.PartfieldArea = geo.RegionArea(perimeter)

	// The bounding box assumes an axis-aligned rectangular field; for any
	// other perimeter it is exactly that, a bounding box.
	ring := isobus.LineString{LineStringType: isobus.LineStringPolygonExterior}
	minLat, maxLat := maxFloat, -maxFloat
	minLon, maxLon := maxFloat, -maxFloat
	for _, p := range perimeter.Area {
		ring.Point = append(ring.Point, isobus.Point{
			PointType:  isobus.PointOther,
			PointNorth: p.Latitude,
			PointEast:  p.Longitude,
		})
		minLat = min(minLat, p.Latitude)
		maxLat = max(maxLat, p.Latitude)
		minLon = min(minLon, p.Longitude)
		maxLon = max(maxLon, p.Longitude)
	}
	partfield.Polygon = isobus.Polygon{PolygonType: 1, LineString: ring}
	pm.Partfield = partfield

	grid := source.TreatmentGrids[0]
	task := isobus.Task{
		TaskID:                        "TSK1",
		TaskDesignator:                "Task Designator #1",
		CustomerIDRef:                 s.cfg.CustomerID,
		FarmIDRef:                     s.cfg.FarmID,
		PartfieldIDRef:                partfield.PartfieldID,
		ResponsibleWorkerIDRef:        s.cfg.WorkerID,
		DefaultTreatmentZoneCode:      1,
		TaskStatus:                    1,
		PositionLostTreatmentZoneCode: 2,
		OutOfFieldTreatmentZoneCode:   3,
		TreatmentZone: []isobus.TreatmentZone{{
			TreatmentZoneCode:       0,
			TreatmentZoneDesignator: "SiteSpecific",
			ProcessDataVariable: []isobus.ProcessDataVariable{{
				DataValue: 0,
				UoM:       s.cfg.Unit,
				ProductID: s.cfg.ProductID,
			}},
		}},
		OperTechPractice: isobus.OperTechPractice{
			CulturalPracticeIDRef: s.cfg.CulturalPracticeID,
		},
		Grid: isobus.Grid{
			GridMinimumNorthPosition: minLat,
			GridMinimumEastPosition:  minLon,
			GridCellNorthSize:        (maxLat - minLat) / float64(grid.NumRows),
			GridCellEastSize:         (maxLon - minLon) / float64(grid.NumCols),
			GridMaximumColumn:        grid.NumCols,
			GridMaximumRow:           grid.NumRows,
			GridType:                 2,
			TreatmentZoneCode:        0,
		},
	}
	// Every cell maps to the site-specific zone; per-cell differentiation
	// is out of scope.
	task.Grid.GridCell = make([]int, len(grid.TreatmentValue))
	pm.Task = []isobus.Task{task}

	return pm, nil
}
