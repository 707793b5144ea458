package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrUnknownOutcome = errors.New("unknown outcome")
)
