package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/y-kohei/mdpipe/internal/item"
	"github.com/y-kohei/mdpipe/internal/metrics"
)

// Stage is a single processing step over an item collection.
//
// Execute receives the current collection and returns the collection to
// hand to the next stage. Stages that only annotate items return the input
// slice unchanged; stages that filter, reorder or inject items return a new
// slice. A non-nil error aborts the pipeline run.
type Stage[T any] interface {
	// ID returns the stage's identifier, used in errors, logs and metrics.
	ID() string

	// Execute processes the item collection.
	Execute(ctx context.Context, items []*item.Item[T]) ([]*item.Item[T], error)
}

// StageFunc adapts a function to the Stage interface.
type StageFunc[T any] struct {
	// StageID is the identifier reported by ID.
	StageID string

	// Fn is invoked by Execute.
	Fn func(ctx context.Context, items []*item.Item[T]) ([]*item.Item[T], error)
}

// ID implements Stage.
func (s StageFunc[T]) ID() string { return s.StageID }

// Execute implements Stage.
func (s StageFunc[T]) Execute(ctx context.Context, items []*item.Item[T]) ([]*item.Item[T], error) {
	return s.Fn(ctx, items)
}

// ComponentInfo is a metadata value recording that a pipeline processed an
// item, with the wall-clock bounds of the run.
type ComponentInfo struct {
	// ComponentID is the ID of the pipeline (or composite stage) that ran.
	ComponentID string

	// Start is when the run began.
	Start time.Time

	// Complete is when the run finished.
	Complete time.Time
}

// Pipeline is an identified, ordered list of stages executed sequentially
// over an item collection.
type Pipeline[T any] struct {
	id     string
	stages []Stage[T]
	log    *zap.SugaredLogger
}

// New creates a pipeline with the given ID and stages. The ID must be
// non-empty; it names the pipeline in logs, metrics and ComponentInfo
// metadata.
func New[T any](id string, stages ...Stage[T]) (*Pipeline[T], error) {
	if id == "" {
		return nil, fmt.Errorf("pipeline ID must not be empty")
	}
	for i, s := range stages {
		if s == nil {
			return nil, fmt.Errorf("pipeline %q: stage %d is nil", id, i)
		}
		if s.ID() == "" {
			return nil, fmt.Errorf("pipeline %q: stage %d has an empty ID", id, i)
		}
	}
	return &Pipeline[T]{
		id:     id,
		stages: append([]Stage[T](nil), stages...),
		log:    zap.S().Named(id),
	}, nil
}

// ID returns the pipeline's identifier.
func (p *Pipeline[T]) ID() string { return p.id }

// Stages returns the pipeline's stages in execution order. The returned
// slice is a copy.
func (p *Pipeline[T]) Stages() []Stage[T] {
	return append([]Stage[T](nil), p.stages...)
}

// SetLogger replaces the pipeline's logger. Intended for tests and for
// hosts that manage their own zap configuration.
func (p *Pipeline[T]) SetLogger(log *zap.SugaredLogger) {
	p.log = log
}

// Execute runs every stage in order over items and returns the resulting
// collection. Context cancellation is observed between stages. On success
// each surviving item gains a ComponentInfo metadata value for this run.
//
// The input slice is not mutated; callers keep ownership of it. Items
// themselves are shared with the returned collection, so metadata added by
// stages is visible through both.
func (p *Pipeline[T]) Execute(ctx context.Context, items []*item.Item[T]) ([]*item.Item[T], error) {
	start := time.Now()
	current := append([]*item.Item[T](nil), items...)

	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			metrics.PipelineRuns.WithLabelValues(p.id, "error").Inc()
			return nil, fmt.Errorf("pipeline %q: %w", p.id, err)
		}

		p.log.Debugw("executing stage", "stage", stage.ID(), "items", len(current))
		stageStart := time.Now()
		next, err := stage.Execute(ctx, current)
		metrics.StageDuration.WithLabelValues(p.id, stage.ID()).Observe(time.Since(stageStart).Seconds())
		if err != nil {
			outcome := "error"
			if IsTermination(err) {
				outcome = "terminated"
			}
			metrics.PipelineRuns.WithLabelValues(p.id, outcome).Inc()
			return nil, &StageError{StageID: stage.ID(), Err: err}
		}
		current = next
	}

	info := ComponentInfo{ComponentID: p.id, Start: start, Complete: time.Now()}
	for _, it := range current {
		it.Metadata().Add(info)
	}

	metrics.PipelineRuns.WithLabelValues(p.id, "ok").Inc()
	metrics.ItemsProcessed.WithLabelValues(p.id).Add(float64(len(current)))
	p.log.Infow("pipeline run complete",
		"stages", len(p.stages),
		"items", len(current),
		"duration", time.Since(start),
	)
	return current, nil
}
