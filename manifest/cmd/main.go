// Package main provides the manifest CLI that reads
// multi-document YAML, renders every string value through
// an interpolation pipeline, and writes the result.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/byte4ever/nanotpl/interp"
	"github.com/byte4ever/nanotpl/manifest"
	"github.com/byte4ever/nanotpl/pipeline"
	"github.com/byte4ever/nanotpl/scope"
)

type arrayFlags []string

func (af *arrayFlags) String() string {
	return fmt.Sprintf("%v", *af)
}

func (af *arrayFlags) Set(value string) error {
	*af = append(*af, value)
	return nil
}

func run() error {
	const errCtx = "manifest"

	var (
		inFile       string
		outFile      string
		pipelineFile string
		lenient      bool
		dataFiles    arrayFlags
		vars         arrayFlags
	)

	flag.StringVar(
		&inFile, "infile", "",
		"input YAML file path",
	)

	flag.StringVar(
		&outFile, "outfile", "",
		"output YAML file path",
	)

	flag.StringVar(
		&pipelineFile, "pipeline", "",
		"YAML pipeline definition (default: variables then functions)",
	)

	flag.BoolVar(
		&lenient, "lenient", false,
		"keep unresolved tokens instead of failing",
	)

	flag.Var(
		&dataFiles, "data",
		"YAML or JSON data file (repeatable)",
	)

	flag.Var(
		&vars, "var",
		"NAME=VALUE variable (repeatable)",
	)

	flag.Parse()

	data, err := scope.LoadFiles(dataFiles)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := scope.ApplyVariables(data, vars, nil); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	var pl *pipeline.Pipeline

	if pipelineFile != "" {
		pl, err = pipeline.Load(pipelineFile, data)
	} else {
		pl, err = pipeline.Default(
			data, interp.Config{Lenient: lenient},
		)
	}

	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	inReader := os.Stdin

	if inFile != "" {
		fi, err := os.Open(inFile) //nolint:gosec // path from CLI flag
		if err != nil {
			return fmt.Errorf(
				"%s: opening input: %w",
				errCtx, err,
			)
		}

		defer fi.Close() //nolint:errcheck // best-effort close

		inReader = fi
	}

	outWriter := os.Stdout

	if outFile != "" {
		fo, err := os.Create(outFile) //nolint:gosec // path from CLI flag
		if err != nil {
			return fmt.Errorf(
				"%s: creating output: %w",
				errCtx, err,
			)
		}

		defer fo.Close() //nolint:errcheck // best-effort close

		outWriter = fo
	}

	if err := manifest.Render(
		inReader, outWriter, pl,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
