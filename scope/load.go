package scope

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// LoadFiles loads every data file in order and merges
// them; later files override earlier ones.
func LoadFiles(paths []string) (map[string]any, error) {
	const errCtx = "loading data files"

	data := make(map[string]any)

	for _, pa := range paths {
		doc, err := LoadFile(pa)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		Merge(data, doc)
	}

	return data, nil
}

// LoadFile decodes a YAML (.yaml, .yml) or JSON (.json)
// data file whose top level is a mapping.
func LoadFile(path string) (map[string]any, error) {
	const errCtx = "loading data file"

	raw, err := os.ReadFile(path) //nolint:gosec // paths from CLI flags
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	var doc map[string]any

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		doc, err = DecodeYAML(raw)
	case ".json":
		doc, err = DecodeJSON(raw)
	default:
		return nil, fmt.Errorf(
			"%s: %s: unsupported extension %q",
			errCtx, path, ext,
		)
	}

	if err != nil {
		return nil, fmt.Errorf(
			"%s: %s: %w", errCtx, path, err,
		)
	}

	return doc, nil
}

// DecodeYAML decodes a YAML mapping. An empty document
// yields an empty map.
func DecodeYAML(raw []byte) (map[string]any, error) {
	const errCtx = "decoding yaml"

	var doc map[string]any

	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return normalize(doc), nil
}

// DecodeJSON decodes a JSON object.
func DecodeJSON(raw []byte) (map[string]any, error) {
	const errCtx = "decoding json"

	var doc map[string]any

	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return normalize(doc), nil
}

// normalize turns nested non-string-keyed maps into
// map[string]any so Merge and Set can descend into them.
func normalize(doc map[string]any) map[string]any {
	if doc == nil {
		return make(map[string]any)
	}

	for key, val := range doc {
		doc[key] = normalizeValue(val)
	}

	return doc
}

func normalizeValue(val any) any {
	switch tv := val.(type) {
	case map[string]any:
		return normalize(tv)
	case map[any]any:
		out := make(map[string]any, len(tv))
		for key, sub := range tv {
			out[fmt.Sprint(key)] = normalizeValue(sub)
		}

		return out
	case []any:
		for i, sub := range tv {
			tv[i] = normalizeValue(sub)
		}

		return tv
	default:
		return val
	}
}
