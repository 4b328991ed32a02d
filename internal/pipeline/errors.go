package pipeline

import "errors"

var (
	// ErrInvalidFrame is returned when Detect receives a nil frame or one
	// with no pixels.
	ErrInvalidFrame = errors.New("invalid frame")
)
