package manifest

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/parser"
)

// Renderer renders one string value.
type Renderer interface {
	Render(tpl string) (string, error)
}

// Render reads multi-document YAML from in, renders every
// string scalar with rd, and writes the documents to out.
// Empty documents are dropped.
func Render(
	in io.Reader,
	out io.Writer,
	rd Renderer,
) error {
	const errCtx = "rendering manifest"

	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("%s: reading input: %w", errCtx, err)
	}

	docs, err := DecodeAllDocs(raw)
	if err != nil {
		return fmt.Errorf(
			"%s: decoding yaml: %w",
			errCtx, err,
		)
	}

	for idx, obj := range docs {
		obj, err = renderValue(obj, rd)
		if err != nil {
			return fmt.Errorf(
				"%s: document %d: %w",
				errCtx, idx, err,
			)
		}

		buf, err := yaml.Marshal(obj)
		if err != nil {
			return fmt.Errorf(
				"%s: marshaling object: %w",
				errCtx, err,
			)
		}

		if idx > 0 {
			if _, err := out.Write(
				[]byte("---\n"),
			); err != nil {
				return fmt.Errorf(
					"%s: writing separator: %w",
					errCtx, err,
				)
			}
		}

		if _, err := out.Write(buf); err != nil {
			return fmt.Errorf(
				"%s: writing output: %w",
				errCtx, err,
			)
		}
	}

	return nil
}

// DecodeAllDocs decodes all YAML documents from raw bytes,
// skipping empty and comment-only ones.
func DecodeAllDocs(
	raw []byte,
) ([]interface{}, error) {
	const errCtx = "decoding all docs"

	// The streaming decoder stops at the first empty document,
	// so the whole stream is parsed up front.
	file, err := parser.ParseBytes(raw, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	var docs []interface{}

	for idx, node := range file.Docs {
		if node == nil || node.Body == nil {
			continue
		}

		var doc interface{}
		if err := yaml.NodeToValue(node.Body, &doc); err != nil {
			return nil, fmt.Errorf(
				"%s: document %d: %w",
				errCtx, idx, err,
			)
		}

		if doc == nil {
			continue
		}

		docs = append(docs, doc)
	}

	return docs, nil
}

// renderValue walks val and renders every string in
// place. Maps and slices are updated and returned.
func renderValue(
	val interface{},
	rd Renderer,
) (interface{}, error) {
	switch typedVal := val.(type) {
	case string:
		return rd.Render(typedVal)
	case map[string]interface{}:
		for key, sub := range typedVal {
			res, err := renderValue(sub, rd)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}

			typedVal[key] = res
		}

		return typedVal, nil
	case map[interface{}]interface{}:
		for key, sub := range typedVal {
			res, err := renderValue(sub, rd)
			if err != nil {
				return nil, fmt.Errorf("%v: %w", key, err)
			}

			typedVal[key] = res
		}

		return typedVal, nil
	case []interface{}:
		for idx, sub := range typedVal {
			res, err := renderValue(sub, rd)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", idx, err)
			}

			typedVal[idx] = res
		}

		return typedVal, nil
	default:
		return val, nil
	}
}
