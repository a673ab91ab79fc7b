package scope

import (
	"fmt"
	"strings"
)

// ParseAssignment splits "NAME=VALUE" on the first "=".
func ParseAssignment(s string) (string, string, error) {
	name, val, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return "", "", fmt.Errorf(
			"variable must be VAR=value, got %s", s,
		)
	}

	return name, val, nil
}

// ApplyVariables processes NAME=VALUE assignments. Each
// value is first expanded against stamps with single-brace
// tags, then stored as both NAME and variables.NAME.
func ApplyVariables(
	data map[string]any,
	vars []string,
	stamps map[string]any,
) error {
	const errCtx = "applying variables"

	for _, vr := range vars {
		name, raw, err := ParseAssignment(vr)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		val := ExpandStamps(raw, stamps)

		if err := Set(data, name, val); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		if err := Set(
			data, "variables."+name, val,
		); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	return nil
}
