package templating

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/yuin/goldmark"

	"github.com/byte4ever/nanotpl/interp"
	"github.com/byte4ever/nanotpl/pipeline"
	"github.com/byte4ever/nanotpl/scope"
)

// Engine expands templates using stamp info files, data
// files and explicit variables.
type Engine struct {
	// StartTag and EndTag are the variable delimiters of
	// the default pipeline ("${" and "}" when empty).
	StartTag string
	EndTag   string

	// PathPattern overrides the variable token pattern of
	// the default pipeline.
	PathPattern string

	// Lenient keeps unresolved tokens instead of failing.
	Lenient bool

	// PipelineFile is an optional YAML pipeline
	// definition replacing the default pipeline.
	PipelineFile string

	StampInfoFiles []string
	DataFiles      []string

	// Markdown converts the rendered output to HTML.
	Markdown bool
}

// Expand reads a template, renders it, and writes the
// result. If tplPath is empty it reads stdin; if outPath
// is empty it writes to stdout. If executable is true the
// output file receives mode 0777 instead of 0666.
//
// Processing order:
//  1. Load stamp files as the base context.
//  2. Merge data files over it.
//  3. For each variable NAME=VALUE, expand VALUE against
//     stamps using single-brace tags, then store it as
//     both NAME and variables.NAME.
//  4. For each import NAME=filename, render the file
//     through the pipeline, expand stamps in the result,
//     and store it as imports.NAME.
//  5. Render the template through the pipeline.
func (en *Engine) Expand(
	tplPath string,
	outPath string,
	vars []string,
	imports []string,
	executable bool,
) error {
	const errCtx = "expanding template"

	ctx, err := en.buildContext(vars, imports)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	tplContent, err := en.readTemplate(tplPath)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	pl, err := en.buildPipeline(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	result, err := pl.Render(string(tplContent))
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if en.Markdown {
		result, err = markdownToHTML(result)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	out, closer, err := en.openOutput(outPath, executable)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if closer != nil {
		defer closer()
	}

	if _, err := io.WriteString(out, result); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// buildContext assembles stamps, data files, variables
// and imports into one data context.
func (en *Engine) buildContext(
	vars []string,
	imports []string,
) (map[string]any, error) {
	const errCtx = "building context"

	stamps, err := scope.LoadStamps(en.StampInfoFiles)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	fileData, err := scope.LoadFiles(en.DataFiles)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	// Stamps form the base context; data files,
	// variables and imports override them.
	ctx := make(map[string]any)
	scope.Merge(ctx, stamps)
	scope.Merge(ctx, fileData)

	if err := scope.ApplyVariables(
		ctx, vars, stamps,
	); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := en.resolveImports(
		imports, stamps, ctx,
	); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return ctx, nil
}

// buildPipeline builds the configured pipeline over ctx.
func (en *Engine) buildPipeline(
	ctx map[string]any,
) (*pipeline.Pipeline, error) {
	if en.PipelineFile != "" {
		return pipeline.Load(en.PipelineFile, ctx)
	}

	return pipeline.Default(ctx, interp.Config{
		Start:       en.StartTag,
		End:         en.EndTag,
		PathPattern: en.PathPattern,
		Lenient:     en.Lenient,
	})
}

// resolveImports processes --imports flags. Each import
// file is rendered through the pipeline over ctx, then
// expanded against stamps with single-brace tags, and
// stored as imports.NAME.
func (en *Engine) resolveImports(
	imports []string,
	stamps map[string]any,
	ctx map[string]any,
) error {
	const errCtx = "resolving imports"

	if len(imports) == 0 {
		return nil
	}

	pl, err := en.buildPipeline(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	for _, im := range imports {
		name, file, err := parseImport(im)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		content, err := os.ReadFile(file) //nolint:gosec // paths from CLI flags
		if err != nil {
			return fmt.Errorf(
				"%s: reading %s: %w",
				errCtx, file, err,
			)
		}

		val, err := pl.Render(string(content))
		if err != nil {
			return fmt.Errorf(
				"%s: rendering %s: %w",
				errCtx, file, err,
			)
		}

		if err := scope.Set(
			ctx, "imports."+name,
			scope.ExpandStamps(val, stamps),
		); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	return nil
}

func parseImport(im string) (string, string, error) {
	name, file, err := scope.ParseAssignment(im)
	if err != nil {
		return "", "", fmt.Errorf(
			"import must be NAME=filename, got %s", im,
		)
	}

	return name, file, nil
}

// markdownToHTML converts rendered Markdown to HTML.
func markdownToHTML(src string) (string, error) {
	const errCtx = "converting markdown"

	var buf bytes.Buffer

	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return buf.String(), nil
}

// readTemplate reads the template from a file path. If
// tplPath is empty it reads from stdin.
func (en *Engine) readTemplate(
	tplPath string,
) ([]byte, error) {
	const errCtx = "reading template"

	if tplPath != "" {
		content, err := os.ReadFile(tplPath) //nolint:gosec // paths from CLI flags
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return content, nil
	}

	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: reading stdin: %w", errCtx, err,
		)
	}

	return content, nil
}

// openOutput returns a writer for the result. When
// outPath is empty it returns stdout. The returned
// closer function must be called to finalize the file
// (may be nil for stdout).
func (en *Engine) openOutput(
	outPath string,
	executable bool,
) (io.Writer, func(), error) {
	const errCtx = "opening output"

	if outPath == "" {
		return os.Stdout, nil, nil
	}

	var perm os.FileMode = 0o666
	if executable {
		perm = 0o777
	}

	fi, err := os.OpenFile( //nolint:gosec // paths from CLI flags
		outPath,
		os.O_RDWR|os.O_CREATE|os.O_TRUNC,
		perm,
	)
	if err != nil {
		return nil, nil, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	return fi, func() {
		_ = fi.Close() //nolint:errcheck // best-effort close
	}, nil
}
