package interp

import (
	"errors"
	"fmt"
)

// ErrUnresolved matches every token resolution failure.
var ErrUnresolved = errors.New("unresolved token")

// UnresolvedVariableError reports a path segment that is
// absent or cannot be reached.
type UnresolvedVariableError struct {
	// Segment is the first segment that failed.
	Segment string

	// Tag is the full token text, delimiters included.
	Tag string
}

func (e *UnresolvedVariableError) Error() string {
	return fmt.Sprintf(
		"unresolved variable: %q missing in %s",
		e.Segment, e.Tag,
	)
}

// Is makes errors.Is(err, ErrUnresolved) hold.
func (e *UnresolvedVariableError) Is(target error) bool {
	return target == ErrUnresolved
}

// MissingFunctionError reports a function-mode token whose
// name has no callable in the data context.
type MissingFunctionError struct {
	Name string
	Tag  string
}

func (e *MissingFunctionError) Error() string {
	return fmt.Sprintf(
		"missing function: %q in %s",
		e.Name, e.Tag,
	)
}

// Is makes errors.Is(err, ErrUnresolved) hold.
func (e *MissingFunctionError) Is(target error) bool {
	return target == ErrUnresolved
}
