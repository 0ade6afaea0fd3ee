package stage

import (
	"context"
	"strconv"

	"github.com/y-kohei/mdpipe/internal/item"
	"github.com/y-kohei/mdpipe/internal/pipeline"
)

// defaultMarkerPrefix is the label prefix used when a SequenceMarkerStage
// is not configured with one.
const defaultMarkerPrefix = "foo"

// AnnotateSequence attaches a sequentially labelled marker to every item's
// metadata, in iteration order. The i-th item receives a marker labelled
// "<prefix> <i>" with i counting from 0 in plain decimal. The counter is
// local to the call: invoking AnnotateSequence again over the same items
// appends a fresh "<prefix> 0".."<prefix> L-1" run without touching the
// markers from earlier calls.
//
// An empty collection is a no-op. A nil item is a misuse of the API and
// panics immediately rather than being skipped.
func AnnotateSequence[T any](items []*item.Item[T], prefix string) {
	for i, it := range items {
		it.Metadata().Add(item.NewMarker(prefix + " " + strconv.Itoa(i)))
	}
}

// SequenceMarkerStage attaches a sequentially labelled marker to each item
// in the collection. With the default prefix the labels are exactly
// "foo 0" through "foo L-1" for a collection of length L.
type SequenceMarkerStage[T any] struct {
	// StageID is the stage identifier. Must be non-empty.
	StageID string

	// Prefix is the label prefix. Empty means "foo".
	Prefix string
}

// ID implements pipeline.Stage.
func (s *SequenceMarkerStage[T]) ID() string { return s.StageID }

// Execute implements pipeline.Stage. The collection shape is left
// untouched; exactly one marker is added per item.
func (s *SequenceMarkerStage[T]) Execute(_ context.Context, items []*item.Item[T]) ([]*item.Item[T], error) {
	prefix := s.Prefix
	if prefix == "" {
		prefix = defaultMarkerPrefix
	}
	AnnotateSequence(items, prefix)
	return items, nil
}

var _ pipeline.Stage[string] = (*SequenceMarkerStage[string])(nil)
