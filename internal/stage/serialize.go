package stage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/y-kohei/mdpipe/internal/item"
)

// SerializeStage writes each item's payload to a file in OutputDir, named
// after the item's identifier. It operates on string-payload items, the
// collection type produced by the config-driven pipelines.
//
// Items without an ID metadata value are rejected rather than written
// under an invented name: serialization is the end of the pipeline, and an
// unidentified item there means an earlier stage was misconfigured.
type SerializeStage struct {
	// StageID is the stage identifier.
	StageID string

	// OutputDir is the directory to write into. Created if missing.
	OutputDir string

	// Extension is appended to each file name, e.g. ".xml". Optional.
	Extension string
}

// ID implements pipeline.Stage.
func (s *SerializeStage) ID() string { return s.StageID }

// Execute implements pipeline.Stage. The collection passes through
// unchanged; the side effect is one file per item.
func (s *SerializeStage) Execute(_ context.Context, items []*item.Item[string]) ([]*item.Item[string], error) {
	if s.OutputDir == "" {
		return nil, fmt.Errorf("output directory not set")
	}
	if err := os.MkdirAll(s.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	for _, it := range items {
		id, ok := item.First[item.ID](it.Metadata())
		if !ok {
			return nil, fmt.Errorf("item without an ID cannot be serialized")
		}
		name := sanitizeFileName(id.String()) + s.Extension
		path := filepath.Join(s.OutputDir, name)
		if err := os.WriteFile(path, []byte(it.Unwrap()), 0o644); err != nil {
			return nil, fmt.Errorf("writing item %s: %w", id, err)
		}
	}
	return items, nil
}

// sanitizeFileName maps an item identifier to a safe file name. Path
// separators and a few other hostile characters become underscores.
func sanitizeFileName(id string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		string(filepath.Separator), "_",
		"..", "_",
		":", "_",
		"\x00", "_",
	)
	return replacer.Replace(id)
}
