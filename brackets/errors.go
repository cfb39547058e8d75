package brackets

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDefinition = errors.New("invalid bracket definition")
	ErrInvalidEntry      = errors.New("invalid bracket entry")
	ErrInsufficientData  = errors.New("not enough entries to compute brackets")
	ErrUnsatisfiable     = errors.New("no full/one-bye bracket combination matches the entries")

	// ErrCapacityViolation is returned when a player cannot be placed in an
	// instance. Allocation treats it as "try the next instance".
	ErrCapacityViolation = errors.New("bracket capacity violation")
	ErrInstanceFull      = fmt.Errorf("%w: bracket is full", ErrCapacityViolation)
	ErrDuplicatePlayer   = fmt.Errorf("%w: player already in bracket", ErrCapacityViolation)

	ErrEmptyPlayerID = errors.New("player id is required")
	ErrMatchSize     = errors.New("wrong number of players for a match")

	ErrInvariantViolation = errors.New("bracket invariant violation")
)

// InvariantError describes which structural rule a bracket collection broke.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvariantViolation, e.Reason)
}

func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariantViolation
}

func invariantf(format string, args ...interface{}) error {
	return &InvariantError{Reason: fmt.Sprintf(format, args...)}
}
