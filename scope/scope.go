package scope

import (
	"fmt"
	"strings"
)

// Set stores value at the dotted path in data, creating
// intermediate maps as needed. It fails when an
// intermediate entry exists but is not a map.
func Set(
	data map[string]any,
	path string,
	value any,
) error {
	const errCtx = "setting value"

	segs := strings.Split(path, ".")
	cur := data

	for i, seg := range segs[:len(segs)-1] {
		next, found := cur[seg]
		if !found || next == nil {
			child := make(map[string]any)
			cur[seg] = child
			cur = child

			continue
		}

		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf(
				"%s: %s is not a map",
				errCtx, strings.Join(segs[:i+1], "."),
			)
		}

		cur = child
	}

	cur[segs[len(segs)-1]] = value

	return nil
}

// Merge copies src into dst. Nested maps present on both
// sides are merged recursively; otherwise src wins.
func Merge(dst, src map[string]any) {
	for key, sv := range src {
		sm, srcIsMap := sv.(map[string]any)
		dm, dstIsMap := dst[key].(map[string]any)

		if srcIsMap && dstIsMap {
			Merge(dm, sm)
			continue
		}

		if srcIsMap {
			cp := make(map[string]any, len(sm))
			Merge(cp, sm)
			sv = cp
		}

		dst[key] = sv
	}
}
