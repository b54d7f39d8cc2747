package model

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the adapters and the domain layer.
var (
	ErrInvalidThreshold       = errors.New("invalid threshold")
	ErrInvalidPhotonEnergy    = errors.New("invalid photon energy")
	ErrInvalidOutputMode      = errors.New("invalid output mode")
	ErrMalformedRow           = errors.New("malformed row")
	ErrInconsistentSweepCount = errors.New("inconsistent sweep count")
	ErrEmptyFileSet           = errors.New("empty file set")
)

// RowError locates a failure at a specific line of a scan file.
type RowError struct {
	Filename   string
	LineNumber int
	Err        error
	Detail     string
}

func (e *RowError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s:%d: %v", e.Filename, e.LineNumber, e.Err)
	}

	return fmt.Sprintf("%s:%d: %v: %s", e.Filename, e.LineNumber, e.Err, e.Detail)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
