package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrDataFormat = errors.New("malformed player data")

	// Analysis errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrDegenerateInput  = errors.New("degenerate input for correlation")
)

// NewRecordFormatError reports a malformed record at a given position
func NewRecordFormatError(index int, reason string) error {
	return fmt.Errorf("%w: record %d: %s", ErrDataFormat, index, reason)
}

// NewInsufficientDataError reports how many records survived filtering
func NewInsufficientDataError(have, need int) error {
	return fmt.Errorf("%w: %d records after filtering, need at least %d", ErrInsufficientData, have, need)
}

// NewDegenerateInputError reports why a correlation could not be computed
func NewDegenerateInputError(reason string) error {
	return fmt.Errorf("%w: %s", ErrDegenerateInput, reason)
}

// Error checking helpers
func IsDataFormatError(err error) bool {
	return errors.Is(err, ErrDataFormat)
}

func IsInsufficientDataError(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func IsDegenerateInputError(err error) bool {
	return errors.Is(err, ErrDegenerateInput)
}
