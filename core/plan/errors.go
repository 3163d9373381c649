package plan

import "errors"

// Extraction and synthesis failures are isolated to one vehicle: the
// orchestrator logs them and continues with the remaining fleet.
var (
	// ErrNoCommands means no command in the mission references the vehicle.
	ErrNoCommands = errors.New("vehicle has no commands assigned")
	// ErrMalformedCommand means a command carries an empty parameter list.
	ErrMalformedCommand = errors.New("command has no params assigned")
	// ErrNoTasks means the vehicle has no treatment-grid task to derive a
	// prescription map from.
	ErrNoTasks = errors.New("vehicle has no treatment-grid tasks assigned")
)
