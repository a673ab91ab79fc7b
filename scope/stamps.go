package scope

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/valyala/fasttemplate"
)

// LoadStamps reads workspace status files and merges them
// into a single flat map. Later files override earlier
// ones.
func LoadStamps(
	infoFiles []string,
) (map[string]any, error) {
	const errCtx = "loading stamps"

	stamps := make(map[string]any)

	for _, sf := range infoFiles {
		content, err := os.ReadFile(sf) //nolint:gosec // paths from CLI flags
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		ParseStamps(string(content), stamps)
	}

	return stamps, nil
}

// ParseStamps adds every "KEY VALUE" line of content to
// into, splitting on the first space. Lines without a
// space are skipped.
func ParseStamps(content string, into map[string]any) {
	for _, line := range strings.Split(content, "\n") {
		key, val, ok := strings.Cut(
			strings.TrimSuffix(line, "\r"), " ",
		)
		if ok {
			into[key] = val
		}
	}
}

// ExpandStamps substitutes {KEY} tags in s with stamp
// values. Unknown tags are preserved.
func ExpandStamps(s string, stamps map[string]any) string {
	if len(stamps) == 0 || !strings.Contains(s, "{") {
		return s
	}

	return fasttemplate.ExecuteFuncString(
		s, "{", "}",
		func(w io.Writer, tag string) (int, error) {
			val, found := stamps[tag]
			if !found {
				return io.WriteString(w, "{"+tag+"}")
			}

			return fmt.Fprint(w, val)
		},
	)
}
