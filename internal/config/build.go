package config

import (
	"fmt"
	"sort"
	"time"

	"github.com/y-kohei/mdpipe/internal/pipeline"
	"github.com/y-kohei/mdpipe/internal/source"
	"github.com/y-kohei/mdpipe/internal/stage"
)

// builder turns a validated stage entry into an executable stage. The
// index is the entry's position in the pipeline, used for generated IDs.
type builder func(sd *StageDef, index int) (pipeline.Stage[string], error)

// builders is the stage type registry. Validation in config.go rejects
// any type not present here, so builder code can assume well-formed
// entries apart from type-specific option checks.
var builders = map[string]builder{
	"source.files": func(sd *StageDef, i int) (pipeline.Stage[string], error) {
		if sd.Glob == "" {
			return nil, fmt.Errorf("source.files requires a glob")
		}
		return &source.FileSourceStage{
			StageID:         sd.StageID(i),
			Glob:            sd.Glob,
			ContinueOnError: sd.ContinueOnError,
		}, nil
	},
	"source.http": func(sd *StageDef, i int) (pipeline.Stage[string], error) {
		if len(sd.URLs) == 0 {
			return nil, fmt.Errorf("source.http requires at least one url")
		}
		var timeout time.Duration
		if sd.Timeout != "" {
			// Already validated; ParseDuration cannot fail here.
			timeout, _ = time.ParseDuration(sd.Timeout)
		}
		return &source.HTTPSourceStage{
			StageID:         sd.StageID(i),
			URLs:            sd.URLs,
			Timeout:         timeout,
			ContinueOnError: sd.ContinueOnError,
		}, nil
	},
	"mark.sequence": func(sd *StageDef, i int) (pipeline.Stage[string], error) {
		return &stage.SequenceMarkerStage[string]{
			StageID: sd.StageID(i),
			Prefix:  sd.Prefix,
		}, nil
	},
	"populate.id": func(sd *StageDef, i int) (pipeline.Stage[string], error) {
		return &stage.PopulateIDStage[string]{
			StageID:   sd.StageID(i),
			Overwrite: sd.Overwrite,
		}, nil
	},
	"filter.errors": func(sd *StageDef, i int) (pipeline.Stage[string], error) {
		return &stage.FilterStage[string]{
			StageID: sd.StageID(i),
			Drop:    stage.DropErrorItems[string],
		}, nil
	},
	"order.by-id": func(sd *StageDef, i int) (pipeline.Stage[string], error) {
		return &stage.OrderStage[string]{
			StageID: sd.StageID(i),
			Order:   stage.OrderByID[string],
		}, nil
	},
	"log.status": func(sd *StageDef, i int) (pipeline.Stage[string], error) {
		return &stage.LogStatusStage[string]{StageID: sd.StageID(i)}, nil
	},
	"terminate.errors": func(sd *StageDef, i int) (pipeline.Stage[string], error) {
		return &stage.TerminateStage[string]{StageID: sd.StageID(i)}, nil
	},
	"serialize": func(sd *StageDef, i int) (pipeline.Stage[string], error) {
		if sd.OutputDir == "" {
			return nil, fmt.Errorf("serialize requires an output_dir")
		}
		return &stage.SerializeStage{
			StageID:   sd.StageID(i),
			OutputDir: sd.OutputDir,
			Extension: sd.Extension,
		}, nil
	},
}

// KnownTypes returns the registered stage type names, sorted.
func KnownTypes() []string {
	types := make([]string, 0, len(builders))
	for t := range builders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Build assembles the definition into an executable pipeline over
// string-payload items.
func (d *Definition) Build() (*pipeline.Pipeline[string], error) {
	stages := make([]pipeline.Stage[string], 0, len(d.Stages))
	for i := range d.Stages {
		sd := &d.Stages[i]
		b, ok := builders[sd.Type]
		if !ok {
			return nil, fmt.Errorf("stage %d: unknown stage type %q", i, sd.Type)
		}
		s, err := b(sd, i)
		if err != nil {
			return nil, fmt.Errorf("stage %d (%s): %w", i, sd.Type, err)
		}
		stages = append(stages, s)
	}
	return pipeline.New(d.ID, stages...)
}
