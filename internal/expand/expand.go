// Package expand flattens a user selection of files and directories into the
// ordered list of files a run will process.
package expand

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/slok/unblock/internal/log"
	"github.com/slok/unblock/internal/model"
)

// ExpanderConfig is the configuration for the expander.
type ExpanderConfig struct {
	// Exclude are glob patterns matched against directory base names, matching
	// directories found while walking are skipped. Selected directories are always walked.
	Exclude []string
	Logger  log.Logger
}

func (c *ExpanderConfig) defaults() error {
	for _, pattern := range c.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", pattern, model.ErrNotValid)
		}
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "expand.Expander"})
	return nil
}

// Expander expands selections into work item lists.
type Expander struct {
	exclude []string
	logger  log.Logger
}

// NewExpander returns a new expander.
func NewExpander(cfg ExpanderConfig) (*Expander, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Expander{
		exclude: cfg.Exclude,
		logger:  cfg.Logger,
	}, nil
}

// Options are optional knobs for an expansion.
type Options struct {
	// Cancelled is checked before expanding each selected path, if it returns
	// true the expansion stops with context.Canceled.
	Cancelled func() bool
}

// Expand returns the files of the selected paths.
//
// Files are returned as they are, directories are walked recursively in lexical order.
// Missing or inaccessible paths are skipped. Returns model.ErrEmptySelection when there
// is nothing selected and model.ErrNoFiles when the selection doesn't have any file.
func (e *Expander) Expand(ctx context.Context, paths []string, opts Options) (model.WorkItemList, error) {
	if len(paths) == 0 {
		return nil, model.ErrEmptySelection
	}

	logger := e.logger.WithCtxValues(ctx)
	items := model.WorkItemList{}
	seen := map[string]struct{}{}
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		items = append(items, path)
	}

	for _, path := range paths {
		if opts.Cancelled != nil && opts.Cancelled() {
			return nil, context.Canceled
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path = filepath.Clean(path)
		info, err := os.Stat(path)
		if err != nil {
			logger.Debugf("Skipping %q: %s", path, err)
			continue
		}

		switch {
		case info.Mode().IsRegular():
			add(path)
		case info.IsDir():
			if err := e.walk(ctx, path, add); err != nil {
				return nil, err
			}
		default:
			logger.Debugf("Skipping %q: not a regular file or directory", path)
		}
	}

	if len(items) == 0 {
		return nil, model.ErrNoFiles
	}

	return items, nil
}

func (e *Expander) walk(ctx context.Context, root string, add func(string)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			e.logger.Debugf("Skipping %q: %s", path, err)
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && e.excluded(d.Name()) {
				e.logger.Debugf("Skipping excluded directory %q", path)
				return filepath.SkipDir
			}
			return nil
		}

		if e.isFile(path, d) {
			add(path)
		}
		return nil
	})
}

func (e *Expander) isFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}

	// Symlinks to regular files are unblocked, symlinked directories are not walked.
	if d.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				e.logger.Debugf("Skipping symlink %q: %s", path, err)
			}
			return false
		}
		return info.Mode().IsRegular()
	}

	return false
}

func (e *Expander) excluded(name string) bool {
	for _, pattern := range e.exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
