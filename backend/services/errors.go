// ABOUTME: Error taxonomy for the decompression planner
// ABOUTME: Sentinel errors with typed wrappers matched via errors.Is and errors.As

package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration reports an unrecognized gas, policy, or strategy selector.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidParameter reports an out-of-range numeric input.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrExcessiveDecompressionTime reports a stop whose ceiling never cleared within the cap.
	ErrExcessiveDecompressionTime = errors.New("excessive decompression time")
)

// ValidationError names the field that failed validation
type ValidationError struct {
	Kind    error // ErrInvalidConfiguration or ErrInvalidParameter
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", e.Kind, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func invalidParameter(field, format string, args ...any) error {
	return &ValidationError{Kind: ErrInvalidParameter, Field: field, Message: fmt.Sprintf(format, args...)}
}

func invalidConfiguration(field, value string) error {
	return &ValidationError{Kind: ErrInvalidConfiguration, Field: field, Message: fmt.Sprintf("has unrecognized value %q", sanitizeForLog(value))}
}

// ExcessiveDecompressionError reports the stop that hit the per-stop minute cap
type ExcessiveDecompressionError struct {
	Depth   int
	Minutes int
}

func (e *ExcessiveDecompressionError) Error() string {
	return fmt.Sprintf("%s: ceiling did not clear at %dm after %d minutes", ErrExcessiveDecompressionTime, e.Depth, e.Minutes)
}

func (e *ExcessiveDecompressionError) Unwrap() error {
	return ErrExcessiveDecompressionTime
}
