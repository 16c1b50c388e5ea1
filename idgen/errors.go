package idgen

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("idgen: invalid generator configuration")
	ErrClockMovedBackwards = errors.New("idgen: clock moved backwards, refusing to generate id")
	ErrTimestampOutOfRange = errors.New("idgen: timestamp out of range for layout")
)

// ValidationError is returned by NewIDGen when a parameter is out of range.
// It matches ErrValidation.
type ValidationError struct {
	Field  string
	Value  int64
	Reason string
}

func newValidationError(field string, value int64, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("idgen: invalid %v %v: %v", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ClockMovedBackwardsError reports a clock reading older than the last
// issued timestamp. It matches ErrClockMovedBackwards.
type ClockMovedBackwardsError struct {
	Last int64
	Now  int64
}

func (e *ClockMovedBackwardsError) Error() string {
	return fmt.Sprintf("%v (last: %v ms, now: %v ms)", ErrClockMovedBackwards, e.Last, e.Now)
}

func (e *ClockMovedBackwardsError) Is(target error) bool {
	return target == ErrClockMovedBackwards
}
