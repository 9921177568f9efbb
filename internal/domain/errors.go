package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAction marks an operation that is well-formed but not allowed right now
	// (wrong turn, wrong phase, unaffordable, occupied location).
	ErrInvalidAction = errors.New("invalid action")
	// ErrInvalidState marks a structural precondition failure, such as acting before a phase exists.
	ErrInvalidState = errors.New("invalid state")
)

func invalidAction(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidAction, fmt.Sprintf(format, args...))
}

func invalidState(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}
