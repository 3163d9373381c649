package bus

import "errors"

// ErrNotConnected is returned when a publish is attempted while the bus
// connection is down.
var ErrNotConnected = errors.New("bus client not connected")
