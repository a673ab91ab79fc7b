// Binary nanotpl expands templates through an
// interpolation pipeline fed by stamp info files, data
// files and explicit variable substitutions.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/byte4ever/nanotpl/templating"
)

type arrayFlags []string

func (af *arrayFlags) String() string {
	return ""
}

func (af *arrayFlags) Set(value string) error {
	*af = append(*af, value)
	return nil
}

func run() error {
	var (
		stampInfoFile arrayFlags
		dataFile      arrayFlags
		variable      arrayFlags
		imports       arrayFlags
		output        string
		tpl           string
		pipelineFile  string
		pathPattern   string
		executable    bool
		lenient       bool
		markdown      bool
		watch         bool
		verbose       bool
		startTag      string
		endTag        string
	)

	flag.Var(
		&stampInfoFile,
		"stamp_info_file",
		"Stamp info file path (repeatable)",
	)

	flag.Var(
		&dataFile,
		"data",
		"YAML or JSON data file (repeatable)",
	)

	flag.Var(
		&variable,
		"variable",
		"Variable in NAME=VALUE format (repeatable)",
	)

	flag.Var(
		&imports,
		"imports",
		"Import in NAME=filename format (repeatable)",
	)

	flag.StringVar(
		&output, "output", "",
		"Output file path (stdout if empty)",
	)

	flag.StringVar(
		&tpl, "template", "",
		"Input template file path (stdin if empty)",
	)

	flag.StringVar(
		&pipelineFile, "pipeline", "",
		"YAML pipeline definition replacing the default pipeline",
	)

	flag.StringVar(
		&pathPattern, "path_pattern", "",
		"Token body pattern for variable tokens",
	)

	flag.BoolVar(
		&executable, "executable", false,
		"Set executable bit on output file",
	)

	flag.BoolVar(
		&lenient, "lenient", false,
		"Keep unresolved tokens instead of failing",
	)

	flag.BoolVar(
		&markdown, "markdown", false,
		"Convert the rendered Markdown output to HTML",
	)

	flag.BoolVar(
		&watch, "watch", false,
		"Re-expand whenever an input file changes",
	)

	flag.BoolVar(
		&verbose, "verbose", false,
		"Enable debug logging",
	)

	flag.StringVar(
		&startTag, "start_tag", "${",
		"Start tag for variable placeholders",
	)

	flag.StringVar(
		&endTag, "end_tag", "}",
		"End tag for variable placeholders",
	)

	flag.Parse()

	if verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	en := templating.Engine{
		StartTag:       startTag,
		EndTag:         endTag,
		PathPattern:    pathPattern,
		Lenient:        lenient,
		PipelineFile:   pipelineFile,
		StampInfoFiles: stampInfoFile,
		DataFiles:      dataFile,
		Markdown:       markdown,
	}

	if !watch {
		return en.Expand(
			tpl, output, variable, imports, executable,
		)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt,
	)
	defer stop()

	return en.Watch(
		ctx, tpl, output, variable, imports, executable,
	)
}

func main() {
	if err := run(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
