package pipeline

import (
	"fmt"

	"github.com/byte4ever/nanotpl/interp"
)

// Stage is one pass of a pipeline.
type Stage struct {
	// Name identifies the stage in errors and logs.
	Name string

	// Engine renders this stage's delimiter set.
	Engine *interp.Engine

	// Data is the context the stage renders against.
	Data map[string]any
}

// Pipeline renders a template through its stages in
// order. It is immutable and safe for concurrent use as
// long as no stage's Data is mutated concurrently.
type Pipeline struct {
	stages []Stage
}

// New returns a pipeline running stages in the given
// order.
func New(stages ...Stage) *Pipeline {
	return &Pipeline{
		stages: append([]Stage(nil), stages...),
	}
}

// Len returns the number of stages.
func (pl *Pipeline) Len() int {
	return len(pl.stages)
}

// Render feeds tpl through every stage. The first failing
// stage aborts the render.
func (pl *Pipeline) Render(tpl string) (string, error) {
	const errCtx = "rendering pipeline"

	out := tpl

	for i, st := range pl.stages {
		res, err := st.Engine.Render(out, st.Data)
		if err != nil {
			return "", fmt.Errorf(
				"%s: stage %d (%s): %w",
				errCtx, i, st.Name, err,
			)
		}

		st.Engine.Config().Logger.Debug(
			"stage rendered",
			"stage", st.Name,
			"changed", res != out,
		)

		out = res
	}

	return out, nil
}

// Default builds the standard two-pass pipeline: a
// variable stage configured by cfg over data, then a
// function stage with the default "#{" "}" delimiters over
// Builtins. Both stages share cfg's strictness.
func Default(
	data map[string]any,
	cfg interp.Config,
) (*Pipeline, error) {
	const errCtx = "building default pipeline"

	cfg.Functions = false

	vars, err := interp.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	fns, err := interp.New(interp.Config{
		Functions: true,
		Lenient:   cfg.Lenient,
		Logger:    cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return New(
		Stage{Name: "variables", Engine: vars, Data: data},
		Stage{Name: "functions", Engine: fns, Data: Builtins()},
	), nil
}
