// Package isobus defines the prescription map document handed to the
// format-conversion service. Field names follow the converter's JSON
// contract, which uses UpperCamelCase keys.
package isobus

// LineString types.
const (
	LineStringPolygonExterior = 1
	LineStringPolygonInterior = 2
)

// Point types.
const (
	PointFlag  = 1
	PointOther = 2
)

// Point is a single position of a line string.
type Point struct {
	PointType  int     `json:"PointType"`
	PointNorth float64 `json:"PointNorth"`
	PointEast  float64 `json:"PointEast"`
}

// LineString is an ordered list of points with a type discriminator.
type LineString struct {
	LineStringType int     `json:"LineStringType"`
	Point          []Point `json:"Point"`
}

// Polygon wraps the partfield perimeter line string.
type Polygon struct {
	PolygonType int        `json:"PolygonType"`
	LineString  LineString `json:"LineString"`
}

// Customer identifies the land owner.
type Customer struct {
	CustomerID         string `json:"CustomerId"`
	CustomerDesignator string `json:"CustomerDesignator"`
}

// Farm identifies the farm a partfield belongs to.
type Farm struct {
	FarmID         string `json:"FarmId"`
	FarmDesignator string `json:"FarmDesignator"`
	CustomerIDRef  string `json:"CustomerIdRef,omitempty"`
}

// Partfield is the treated field: perimeter polygon plus computed area in
// square meters.
type Partfield struct {
	PartfieldID         string  `json:"PartfieldId"`
	PartfieldDesignator string  `json:"PartfieldDesignator"`
	PartfieldArea       int64   `json:"PartfieldArea"`
	FarmIDRef           string  `json:"FarmIdRef,omitempty"`
	CustomerIDRef       string  `json:"CustomerIdRef,omitempty"`
	CropTypeIDRef       string  `json:"CropTypeIdRef"`
	Polygon             Polygon `json:"Polygon"`
}

// OperationTechnique names a treatment operation.
type OperationTechnique struct {
	OperationTechniqueID         string `json:"OperationTechniqueId"`
	OperationTechniqueDesignator string `json:"OperationTechniqueDesignator"`
}

// OperationTechniqueReference refers to an operation technique by id.
type OperationTechniqueReference struct {
	OperationTechniqueIDRef string `json:"OperationTechniqueIdRef"`
}

// Product is the substance applied on the field.
type Product struct {
	ProductID         string `json:"ProductId"`
	ProductDesignator string `json:"ProductDesignator"`
}

// CropType describes the cultivated crop.
type CropType struct {
	CropTypeID         string `json:"CropTypeId"`
	CropTypeDesignator string `json:"CropTypeDesignator"`
}

// CulturalPractice groups operation techniques under one practice.
type CulturalPractice struct {
	CulturalPracticeID          string                        `json:"CulturalPracticeId"`
	CulturalPracticeDesignator  string                        `json:"CulturalPracticeDesignator"`
	OperationTechniqueReference []OperationTechniqueReference `json:"OperationTechniqueReference"`
}

// Worker is the person responsible for the task.
type Worker struct {
	WorkerID         string `json:"WorkerId"`
	WorkerDesignator string `json:"WorkerDesignator"`
}

// ProcessDataVariable carries one measured or prescribed quantity.
type ProcessDataVariable struct {
	DataValue float64 `json:"DataValue"`
	UoM       string  `json:"UoM"`
	ProductID string  `json:"ProductId"`
}

// TreatmentZone maps a zone code to its process data.
type TreatmentZone struct {
	TreatmentZoneCode       int                   `json:"TreatmentZoneCode"`
	TreatmentZoneDesignator string                `json:"TreatmentZoneDesignator,omitempty"`
	ProcessDataVariable     []ProcessDataVariable `json:"ProcessDataVariable"`
}

// OperTechPractice links a task to a cultural practice.
type OperTechPractice struct {
	CulturalPracticeIDRef string `json:"CulturalPracticeIdRef"`
}

// Grid is the treatment grid: origin at the minimum north/east corner, cell
// sizes in degrees, and a flattened row-major cell-to-zone array.
type Grid struct {
	GridMinimumNorthPosition float64 `json:"GridMinimumNorthPosition"`
	GridMinimumEastPosition  float64 `json:"GridMinimumEastPosition"`
	GridCellNorthSize        float64 `json:"GridCellNorthSize"`
	GridCellEastSize         float64 `json:"GridCellEastSize"`
	GridMaximumColumn        int     `json:"GridMaximumColumn"`
	GridMaximumRow           int     `json:"GridMaximumRow"`
	GridType                 int     `json:"GridType"`
	TreatmentZoneCode        int     `json:"TreatmentZoneCode"`
	GridCell                 []int   `json:"GridCell"`
}

// Task is one prescription task with its treatment grid.
type Task struct {
	TaskID                        string           `json:"TaskId"`
	TaskDesignator                string           `json:"TaskDesignator,omitempty"`
	CustomerIDRef                 string           `json:"CustomerIdRef,omitempty"`
	FarmIDRef                     string           `json:"FarmIdRef,omitempty"`
	PartfieldIDRef                string           `json:"PartfieldIdRef,omitempty"`
	ResponsibleWorkerIDRef        string           `json:"ResponsibleWorkerIdRef,omitempty"`
	DefaultTreatmentZoneCode      int              `json:"DefaultTreatmentZoneCode"`
	TaskStatus                    int              `json:"TaskStatus"`
	PositionLostTreatmentZoneCode int              `json:"PositionLostTreatmentZoneCode"`
	OutOfFieldTreatmentZoneCode   int              `json:"OutOfFieldTreatmentZoneCode"`
	TreatmentZone                 []TreatmentZone  `json:"TreatmentZone"`
	OperTechPractice              OperTechPractice `json:"OperTechPractice"`
	Grid                          Grid             `json:"Grid"`
}

// PrescriptionMap is the complete document synthesized for one implement
// vehicle. One partfield and one task per map in the current scope.
type PrescriptionMap struct {
	VersionMajor                   int                  `json:"VersionMajor"`
	VersionMinor                   int                  `json:"VersionMinor"`
	ManagementSoftwareManufacturer string               `json:"ManagementSoftwareManufacturer"`
	ManagementSoftwareVersion      string               `json:"ManagementSoftwareVersion"`
	Customer                       Customer             `json:"Customer"`
	Farm                           Farm                 `json:"Farm"`
	OperationTechnique             []OperationTechnique `json:"OperationTechnique"`
	Partfield                      Partfield            `json:"Partfield"`
	Product                        []Product            `json:"Product"`
	CropType                       []CropType           `json:"CropType"`
	CulturalPractice               []CulturalPractice   `json:"CulturalPractice"`
	Worker                         Worker               `json:"Worker"`
	Task                           []Task               `json:"Task"`
}
