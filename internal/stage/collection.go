package stage

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/y-kohei/mdpipe/internal/item"
)

// StaticSourceStage appends copies of a fixed source collection to the
// items flowing through the pipeline. Each execution hands out fresh
// copies, so metadata accumulated in one run never leaks into the next.
type StaticSourceStage[T any] struct {
	// StageID is the stage identifier.
	StageID string

	// Source is the collection to inject.
	Source []*item.Item[T]
}

// ID implements pipeline.Stage.
func (s *StaticSourceStage[T]) ID() string { return s.StageID }

// Execute implements pipeline.Stage.
func (s *StaticSourceStage[T]) Execute(_ context.Context, items []*item.Item[T]) ([]*item.Item[T], error) {
	for _, src := range s.Source {
		items = append(items, src.Copy())
	}
	return items, nil
}

// PopulateIDStage assigns an item.ID to items. By default it only touches
// items that do not already carry one, and generates random UUIDs.
type PopulateIDStage[T any] struct {
	// StageID is the stage identifier.
	StageID string

	// Generate produces the identifier for an item. Nil means a random
	// UUID per item.
	Generate func(it *item.Item[T]) string

	// Overwrite adds an ID even to items that already carry one.
	Overwrite bool
}

// ID implements pipeline.Stage.
func (s *PopulateIDStage[T]) ID() string { return s.StageID }

// Execute implements pipeline.Stage.
func (s *PopulateIDStage[T]) Execute(_ context.Context, items []*item.Item[T]) ([]*item.Item[T], error) {
	gen := s.Generate
	if gen == nil {
		gen = func(*item.Item[T]) string { return uuid.NewString() }
	}
	for _, it := range items {
		if !s.Overwrite && item.Has[item.ID](it.Metadata()) {
			continue
		}
		it.Metadata().Add(item.ID(gen(it)))
	}
	return items, nil
}

// AddMetadataStage adds a fixed set of metadata values to every item.
type AddMetadataStage[T any] struct {
	// StageID is the stage identifier.
	StageID string

	// Values are added to each item, in order.
	Values []any
}

// ID implements pipeline.Stage.
func (s *AddMetadataStage[T]) ID() string { return s.StageID }

// Execute implements pipeline.Stage.
func (s *AddMetadataStage[T]) Execute(_ context.Context, items []*item.Item[T]) ([]*item.Item[T], error) {
	for _, it := range items {
		it.Metadata().AddAll(s.Values...)
	}
	return items, nil
}

// FilterStage drops items matching a predicate. Items for which Drop
// returns true do not reach later stages.
type FilterStage[T any] struct {
	// StageID is the stage identifier.
	StageID string

	// Drop decides whether an item is removed from the collection.
	Drop func(it *item.Item[T]) bool
}

// ID implements pipeline.Stage.
func (s *FilterStage[T]) ID() string { return s.StageID }

// Execute implements pipeline.Stage.
func (s *FilterStage[T]) Execute(_ context.Context, items []*item.Item[T]) ([]*item.Item[T], error) {
	kept := make([]*item.Item[T], 0, len(items))
	for _, it := range items {
		if !s.Drop(it) {
			kept = append(kept, it)
		}
	}
	return kept, nil
}

// DropErrorItems is a FilterStage predicate removing items marked with an
// ErrorStatus.
func DropErrorItems[T any](it *item.Item[T]) bool {
	return item.Has[item.ErrorStatus](it.Metadata())
}

// OrderStage reorders the collection with an ordering strategy. A nil
// strategy leaves the order untouched.
type OrderStage[T any] struct {
	// StageID is the stage identifier.
	StageID string

	// Order returns the items in their new order. It must not add or
	// drop items.
	Order func(items []*item.Item[T]) []*item.Item[T]
}

// ID implements pipeline.Stage.
func (s *OrderStage[T]) ID() string { return s.StageID }

// Execute implements pipeline.Stage.
func (s *OrderStage[T]) Execute(_ context.Context, items []*item.Item[T]) ([]*item.Item[T], error) {
	if s.Order == nil {
		return items, nil
	}
	return s.Order(items), nil
}

// OrderByID is an OrderStage strategy sorting items by their identifier.
// Items without an ID sort after identified ones, keeping their relative
// order.
func OrderByID[T any](items []*item.Item[T]) []*item.Item[T] {
	ordered := append([]*item.Item[T](nil), items...)
	sort.SliceStable(ordered, func(a, b int) bool {
		idA, okA := item.First[item.ID](ordered[a].Metadata())
		idB, okB := item.First[item.ID](ordered[b].Metadata())
		if okA != okB {
			return okA
		}
		return idA < idB
	})
	return ordered
}
