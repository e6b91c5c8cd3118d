package sim

import "errors"

// Domain errors for trajectory replay.
var (
	// ErrEmptyLog indicates a log with no entries, which cannot seed a replay.
	ErrEmptyLog = errors.New("sim: log has no entries")
)
