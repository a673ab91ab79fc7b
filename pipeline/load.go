package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/byte4ever/nanotpl/interp"
	"github.com/byte4ever/nanotpl/scope"
)

// Definition is the YAML form of a pipeline.
type Definition struct {
	Stages []StageDefinition `yaml:"stages"`
}

// StageDefinition is the YAML form of one stage. Warn
// defaults to true when omitted.
type StageDefinition struct {
	Name      string   `yaml:"name"`
	Start     string   `yaml:"start"`
	End       string   `yaml:"end"`
	Path      string   `yaml:"path"`
	Warn      *bool    `yaml:"warn"`
	Functions bool     `yaml:"functions"`
	Data      []string `yaml:"data"`
}

// Load reads a pipeline definition file. Variable stages
// render against data merged with the stage's own data
// files, which are relative to the definition file.
// Function stages render against Builtins.
func Load(
	path string,
	data map[string]any,
) (*Pipeline, error) {
	const errCtx = "loading pipeline"

	def, err := readDefinition(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	pl, err := def.Build(filepath.Dir(path), data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return pl, nil
}

// DataFiles lists the stage data files named by the
// definition file at path, resolved against its directory.
func DataFiles(path string) ([]string, error) {
	const errCtx = "listing pipeline data files"

	def, err := readDefinition(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return def.DataFiles(filepath.Dir(path)), nil
}

func readDefinition(path string) (Definition, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // path from CLI flag
	if err != nil {
		return Definition{}, err
	}

	var def Definition

	if err := yaml.Unmarshal(raw, &def); err != nil {
		return Definition{}, fmt.Errorf(
			"decoding %s: %w", path, err,
		)
	}

	return def, nil
}

// DataFiles lists the data files of every variable stage,
// relative ones resolved against baseDir.
func (def Definition) DataFiles(baseDir string) []string {
	var files []string

	for _, sd := range def.Stages {
		if sd.Functions {
			continue
		}

		files = append(files, sd.dataFiles(baseDir)...)
	}

	return files
}

// Build compiles the definition. Relative stage data
// files are resolved against baseDir.
func (def Definition) Build(
	baseDir string,
	data map[string]any,
) (*Pipeline, error) {
	const errCtx = "building pipeline"

	if len(def.Stages) == 0 {
		return nil, fmt.Errorf("%s: no stages", errCtx)
	}

	stages := make([]Stage, 0, len(def.Stages))

	for i, sd := range def.Stages {
		st, err := sd.build(baseDir, data)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: stage %d: %w", errCtx, i, err,
			)
		}

		if st.Name == "" {
			st.Name = fmt.Sprintf("stage-%d", i)
		}

		stages = append(stages, st)
	}

	return New(stages...), nil
}

func (sd StageDefinition) build(
	baseDir string,
	data map[string]any,
) (Stage, error) {
	cfg := interp.Config{
		Start:       sd.Start,
		End:         sd.End,
		PathPattern: sd.Path,
		Functions:   sd.Functions,
		Lenient:     sd.Warn != nil && !*sd.Warn,
	}

	en, err := interp.New(cfg)
	if err != nil {
		return Stage{}, err
	}

	st := Stage{Name: sd.Name, Engine: en}

	if sd.Functions {
		st.Data = Builtins()

		return st, nil
	}

	if len(sd.Data) == 0 {
		st.Data = data

		return st, nil
	}

	own, err := scope.LoadFiles(sd.dataFiles(baseDir))
	if err != nil {
		return Stage{}, err
	}

	st.Data = make(map[string]any, len(data)+len(own))
	scope.Merge(st.Data, data)
	scope.Merge(st.Data, own)

	return st, nil
}

func (sd StageDefinition) dataFiles(baseDir string) []string {
	files := make([]string, 0, len(sd.Data))

	for _, df := range sd.Data {
		if !filepath.IsAbs(df) {
			df = filepath.Join(baseDir, df)
		}

		files = append(files, df)
	}

	return files
}
