package stage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/y-kohei/mdpipe/internal/item"
	"github.com/y-kohei/mdpipe/internal/pipeline"
)

// LogStatusStage reports the status metadata accumulated on each item at
// the matching zap level: InfoStatus at info, WarningStatus at warn,
// ErrorStatus at error. Items without status metadata produce no output.
type LogStatusStage[T any] struct {
	// StageID is the stage identifier.
	StageID string

	// Log is the logger to report through. Nil means the global logger.
	Log *zap.SugaredLogger
}

// ID implements pipeline.Stage.
func (s *LogStatusStage[T]) ID() string { return s.StageID }

// Execute implements pipeline.Stage.
func (s *LogStatusStage[T]) Execute(_ context.Context, items []*item.Item[T]) ([]*item.Item[T], error) {
	log := s.Log
	if log == nil {
		log = zap.S()
	}
	for _, it := range items {
		id := item.Identify(it)
		for _, st := range item.Of[item.InfoStatus](it.Metadata()) {
			log.Infow("item status", "item", id, "component", st.StatusComponent(), "message", st.StatusMessage())
		}
		for _, st := range item.Of[item.WarningStatus](it.Metadata()) {
			log.Warnw("item status", "item", id, "component", st.StatusComponent(), "message", st.StatusMessage())
		}
		for _, st := range item.Of[item.ErrorStatus](it.Metadata()) {
			log.Errorw("item status", "item", id, "component", st.StatusComponent(), "message", st.StatusMessage())
		}
	}
	return items, nil
}

// TerminateStage aborts the pipeline run with a TerminationError when any
// item matches the selector. The default selector matches items marked
// with an ErrorStatus.
type TerminateStage[T any] struct {
	// StageID is the stage identifier.
	StageID string

	// Select decides whether an item triggers termination. Nil means
	// "carries an ErrorStatus".
	Select func(it *item.Item[T]) bool
}

// ID implements pipeline.Stage.
func (s *TerminateStage[T]) ID() string { return s.StageID }

// Execute implements pipeline.Stage.
func (s *TerminateStage[T]) Execute(_ context.Context, items []*item.Item[T]) ([]*item.Item[T], error) {
	match := s.Select
	if match == nil {
		match = func(it *item.Item[T]) bool {
			return item.Has[item.ErrorStatus](it.Metadata())
		}
	}
	for _, it := range items {
		if match(it) {
			return nil, &pipeline.TerminationError{
				Reason: fmt.Sprintf("item %s matched the termination selector", item.Identify(it)),
			}
		}
	}
	return items, nil
}

// CompositeStage runs a fixed sequence of sub-stages as a single stage.
// On success every surviving item is stamped with a ComponentInfo for the
// composite, in addition to whatever the sub-stages recorded.
type CompositeStage[T any] struct {
	// StageID is the stage identifier.
	StageID string

	// Stages are executed in order.
	Stages []pipeline.Stage[T]
}

// ID implements pipeline.Stage.
func (s *CompositeStage[T]) ID() string { return s.StageID }

// Execute implements pipeline.Stage.
func (s *CompositeStage[T]) Execute(ctx context.Context, items []*item.Item[T]) ([]*item.Item[T], error) {
	start := time.Now()
	current := items
	for _, sub := range s.Stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := sub.Execute(ctx, current)
		if err != nil {
			return nil, &pipeline.StageError{StageID: sub.ID(), Err: err}
		}
		current = next
	}
	info := pipeline.ComponentInfo{ComponentID: s.StageID, Start: start, Complete: time.Now()}
	for _, it := range current {
		it.Metadata().Add(info)
	}
	return current, nil
}
