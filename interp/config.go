package interp

import (
	"log/slog"
)

// Delimiter and path defaults.
const (
	DefaultVariableStart = "${"
	DefaultFunctionStart = "#{"
	DefaultEnd           = "}"

	// DefaultVariablePath allows dots for path segments.
	DefaultVariablePath = `[a-z0-9_$][\.a-z0-9_]*`

	// DefaultFunctionPath allows a colon, commas and
	// spaces for argument lists.
	DefaultFunctionPath = `[a-z0-9_$][\.a-z0-9_:, ]*`
)

// Config holds the settings of an Engine. Every field is
// optional; empty fields are defaulted by New.
type Config struct {
	// Start is the literal opening delimiter.
	Start string

	// End is the literal closing delimiter.
	End string

	// PathPattern is a regexp fragment (usually a
	// character class) matching a token body.
	PathPattern string

	// Lenient leaves unresolved tokens in place instead
	// of failing the render.
	Lenient bool

	// Functions switches the engine to function mode.
	Functions bool

	// Logger receives pass-through diagnostics. Nil
	// means slog.Default().
	Logger *slog.Logger
}

// Warn reports whether unresolved tokens fail the render.
func (cf Config) Warn() bool {
	return !cf.Lenient
}

// withDefaults fills empty fields. Functions is already
// final here, so it decides the delimiter defaults.
func (cf Config) withDefaults() Config {
	if cf.Start == "" {
		cf.Start = DefaultVariableStart
		if cf.Functions {
			cf.Start = DefaultFunctionStart
		}
	}

	if cf.End == "" {
		cf.End = DefaultEnd
	}

	if cf.PathPattern == "" {
		cf.PathPattern = DefaultVariablePath
		if cf.Functions {
			cf.PathPattern = DefaultFunctionPath
		}
	}

	if cf.Logger == nil {
		cf.Logger = slog.Default()
	}

	return cf
}
