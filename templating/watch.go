package templating

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/byte4ever/nanotpl/pipeline"
)

// Watch expands the template once and then again every
// time one of its input files is written or re-created,
// until ctx is done. Expansion failures after the first
// one are logged and do not stop the loop.
func (en *Engine) Watch(
	ctx context.Context,
	tplPath string,
	outPath string,
	vars []string,
	imports []string,
	executable bool,
) (retErr error) {
	const errCtx = "watching template"

	if tplPath == "" {
		return fmt.Errorf("%s: a template file is required", errCtx)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("%s: %w", errCtx, closeErr)
		}
	}()

	inputs, err := en.inputs(tplPath, imports)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	// Directories are watched so that files replaced by
	// rename still report events.
	dirs := make(map[string]bool)

	for in := range inputs {
		dir := filepath.Dir(in)
		if dirs[dir] {
			continue
		}

		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		dirs[dir] = true
	}

	if err := en.Expand(
		tplPath, outPath, vars, imports, executable,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !inputs[filepath.Clean(event.Name)] ||
				event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			slog.Info("input changed", "file", event.Name)

			if err := en.Expand(
				tplPath, outPath, vars, imports, executable,
			); err != nil {
				slog.Error(
					"re-expanding template",
					"file", event.Name,
					"error", err,
				)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			slog.Warn("watcher error", "error", err)
		}
	}
}

// inputs returns the cleaned absolute paths of every file
// an expansion reads, pipeline stage data files included.
func (en *Engine) inputs(
	tplPath string,
	imports []string,
) (map[string]bool, error) {
	const errCtx = "collecting inputs"

	var paths []string

	if tplPath != "" {
		paths = append(paths, tplPath)
	}

	if en.PipelineFile != "" {
		stageFiles, err := pipeline.DataFiles(en.PipelineFile)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		paths = append(paths, en.PipelineFile)
		paths = append(paths, stageFiles...)
	}

	paths = append(paths, en.StampInfoFiles...)
	paths = append(paths, en.DataFiles...)

	for _, im := range imports {
		_, file, err := parseImport(im)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		paths = append(paths, file)
	}

	inputs := make(map[string]bool, len(paths))

	for _, pa := range paths {
		abs, err := filepath.Abs(pa)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		inputs[abs] = true
	}

	return inputs, nil
}
