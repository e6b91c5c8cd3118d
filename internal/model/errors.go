package model

import "errors"

// Domain errors for variant construction and parameter files.
var (
	// ErrUnknownModel indicates a variant name with no registered configuration.
	ErrUnknownModel = errors.New("model: unknown model variant")

	// ErrMissingModelName indicates a parameter file without a model entry.
	ErrMissingModelName = errors.New("model: parameter file missing model name")
)
