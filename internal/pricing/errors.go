package pricing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput matches any *InvalidInputError via errors.Is.
	ErrInvalidInput = errors.New("invalid pricing input")
	// ErrDegenerateRange matches any *DegenerateRangeError via errors.Is.
	ErrDegenerateRange = errors.New("degenerate candidate price range")
	// ErrSimulationFailed matches any *SimulationFailedError via errors.Is.
	ErrSimulationFailed = errors.New("price simulation failed")
)

// InvalidInputError identifies the input field that violated its constraint.
type InvalidInputError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// DegenerateRangeError is returned when the lowest candidate price is not
// below the highest one.
type DegenerateRangeError struct {
	Lower float64
	Upper float64
}

func (e *DegenerateRangeError) Error() string {
	return fmt.Sprintf("candidate price range is empty: lower bound %.4f is not below upper bound %.4f", e.Lower, e.Upper)
}

func (e *DegenerateRangeError) Is(target error) bool {
	return target == ErrDegenerateRange
}

// SimulationFailedError is returned when no candidate produced a finite profit.
type SimulationFailedError struct {
	Candidates int
}

func (e *SimulationFailedError) Error() string {
	return fmt.Sprintf("all %d candidate prices produced a non-finite profit", e.Candidates)
}

func (e *SimulationFailedError) Is(target error) bool {
	return target == ErrSimulationFailed
}
