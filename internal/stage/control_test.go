package stage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/y-kohei/mdpipe/internal/item"
	"github.com/y-kohei/mdpipe/internal/pipeline"
)

// TestLogStatusStage verifies one log entry per status value at the
// matching level, and silence for unmarked items.
func TestLogStatusStage(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(core).Sugar()

	marked := item.New("marked")
	marked.Metadata().Add(item.ID("doc-1"))
	marked.Metadata().Add(item.NewInfoStatus("parse", "parsed fine"))
	marked.Metadata().Add(item.NewWarningStatus("verify", "missing field"))
	marked.Metadata().Add(item.NewErrorStatus("verify", "bad signature"))
	silent := item.New("silent")

	s := &LogStatusStage[string]{StageID: "log-status", Log: log}
	out, err := s.Execute(context.Background(), []*item.Item[string]{marked, silent})
	require.NoError(t, err)
	assert.Len(t, out, 2)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, zap.ErrorLevel, entries[2].Level)

	ctx := entries[2].ContextMap()
	assert.Equal(t, "doc-1", ctx["item"])
	assert.Equal(t, "verify", ctx["component"])
	assert.Equal(t, "bad signature", ctx["message"])
}

// TestTerminateStage_DefaultSelector verifies termination on ErrorStatus
// and pass-through for clean collections.
func TestTerminateStage_DefaultSelector(t *testing.T) {
	s := &TerminateStage[string]{StageID: "gate"}

	clean := []*item.Item[string]{item.New("a")}
	out, err := s.Execute(context.Background(), clean)
	require.NoError(t, err)
	assert.Equal(t, clean, out)

	broken := item.New("b")
	broken.Metadata().Add(item.ID("doc-9"))
	broken.Metadata().Add(item.NewErrorStatus("check", "invalid"))

	_, err = s.Execute(context.Background(), []*item.Item[string]{broken})
	require.Error(t, err)
	assert.True(t, pipeline.IsTermination(err))
	assert.Contains(t, err.Error(), "doc-9")
}

// TestTerminateStage_CustomSelector verifies selector injection.
func TestTerminateStage_CustomSelector(t *testing.T) {
	s := &TerminateStage[string]{
		StageID: "gate",
		Select: func(it *item.Item[string]) bool {
			return item.Has[item.WarningStatus](it.Metadata())
		},
	}
	warned := item.New("w")
	warned.Metadata().Add(item.NewWarningStatus("check", "odd"))

	_, err := s.Execute(context.Background(), []*item.Item[string]{warned})
	assert.True(t, pipeline.IsTermination(err))
}

// TestCompositeStage verifies sub-stages run in order, items carry the
// composite's ComponentInfo, and sub-stage failures are attributed.
func TestCompositeStage(t *testing.T) {
	comp := &CompositeStage[string]{
		StageID: "group",
		Stages: []pipeline.Stage[string]{
			&SequenceMarkerStage[string]{StageID: "mark"},
			&PopulateIDStage[string]{StageID: "ids"},
		},
	}

	items := []*item.Item[string]{item.New("a")}
	out, err := comp.Execute(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.True(t, item.Has[item.Marker](out[0].Metadata()))
	assert.True(t, item.Has[item.ID](out[0].Metadata()))
	infos := item.Of[pipeline.ComponentInfo](out[0].Metadata())
	require.Len(t, infos, 1)
	assert.Equal(t, "group", infos[0].ComponentID)
}

// TestCompositeStage_SubStageFailure verifies the failing sub-stage is
// named in the wrapped error.
func TestCompositeStage_SubStageFailure(t *testing.T) {
	comp := &CompositeStage[string]{
		StageID: "group",
		Stages: []pipeline.Stage[string]{
			&SerializeStage{StageID: "write"}, // no output dir set
		},
	}

	_, err := comp.Execute(context.Background(), []*item.Item[string]{item.New("a")})
	require.Error(t, err)

	var se *pipeline.StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "write", se.StageID)
}
