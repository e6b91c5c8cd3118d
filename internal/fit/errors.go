package fit

import "errors"

// Domain errors for calibration runs.
var (
	// ErrNoLogs indicates an empty log collection: the aggregate objective
	// is an average and undefined without logs.
	ErrNoLogs = errors.New("fit: no logs to fit against")

	// ErrNothingToOptimize indicates a model with no searchable parameters.
	ErrNothingToOptimize = errors.New("fit: model has no searchable parameters")
)
