package record

import "errors"

// ErrUnknownTrajectory is returned when a trajectory name has no registered
// generator.
var ErrUnknownTrajectory = errors.New("record: unknown trajectory")
