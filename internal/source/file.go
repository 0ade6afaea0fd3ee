package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/y-kohei/mdpipe/internal/item"
)

// FileSourceStage reads every file matching a glob pattern into the
// collection as one item per file. The item payload is the file contents;
// the item ID is the file's base name.
//
// Unreadable files either fail the stage (the default) or, with
// ContinueOnError, produce an item with empty payload and an ErrorStatus
// so downstream filter or termination stages can decide what to do.
type FileSourceStage struct {
	// StageID is the stage identifier.
	StageID string

	// Glob selects the files to read, in filepath.Glob syntax.
	Glob string

	// ContinueOnError marks unreadable files with an ErrorStatus instead
	// of failing the stage.
	ContinueOnError bool
}

// ID implements pipeline.Stage.
func (s *FileSourceStage) ID() string { return s.StageID }

// Execute implements pipeline.Stage. Matched files are read in sorted
// path order so runs are deterministic.
func (s *FileSourceStage) Execute(ctx context.Context, items []*item.Item[string]) ([]*item.Item[string], error) {
	if s.Glob == "" {
		return nil, fmt.Errorf("glob pattern not set")
	}
	paths, err := filepath.Glob(s.Glob)
	if err != nil {
		return nil, fmt.Errorf("bad glob pattern %q: %w", s.Glob, err)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if !s.ContinueOnError {
				return nil, fmt.Errorf("reading %s: %w", path, err)
			}
			it := item.New("")
			it.Metadata().Add(item.ID(filepath.Base(path)))
			it.Metadata().Add(item.NewErrorStatus(s.StageID, fmt.Sprintf("reading %s: %v", path, err)))
			items = append(items, it)
			continue
		}
		it := item.New(string(data))
		it.Metadata().Add(item.ID(filepath.Base(path)))
		items = append(items, it)
	}
	return items, nil
}
