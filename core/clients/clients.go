// Package clients defines the outbound collaborators of the dispatcher:
// mission storage, prescription map conversion, the vehicle registry and
// validation-result reporting. Implementations live in infra/rest.
package clients

import (
	"context"

	"github.com/agromw/missiond/core/isobus"
	"github.com/agromw/missiond/core/model"
	"github.com/agromw/missiond/core/validate"
)

// MissionStore persists accepted missions. Storage failures never block
// dispatch; callers invoke it asynchronously.
type MissionStore interface {
	StoreMission(ctx context.Context, mission *model.Mission) error
}

// MapConverter hands a synthesized prescription map to the format
// conversion service. The mission key identifies the conversion job.
type MapConverter interface {
	SendPrescriptionMap(ctx context.Context, missionKey string, pm *isobus.PrescriptionMap) error
}

// VehicleRegistry answers how many vehicles are currently registered with
// the fleet directory.
type VehicleRegistry interface {
	CountVehicles(ctx context.Context) (int, error)
}

// ResultReporter pushes mission validation outcomes to the upstream
// planner.
type ResultReporter interface {
	ReportValidation(ctx context.Context, missionID int, result validate.Result) error
}
