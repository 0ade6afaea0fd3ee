package serve

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/y-kohei/mdpipe/internal/item"
	"github.com/y-kohei/mdpipe/internal/pipeline"
)

// staticPipeline builds a pipeline that emits fixed id/payload pairs.
func staticPipeline(t *testing.T, entities map[string]string) *pipeline.Pipeline[string] {
	t.Helper()
	src := pipeline.StageFunc[string]{
		StageID: "static",
		Fn: func(_ context.Context, items []*item.Item[string]) ([]*item.Item[string], error) {
			for id, payload := range entities {
				it := item.New(payload)
				it.Metadata().Add(item.ID(id))
				items = append(items, it)
			}
			return items, nil
		},
	}
	p, err := pipeline.New("query-test", src)
	require.NoError(t, err)
	p.SetLogger(zap.NewNop().Sugar())
	return p
}

// failingPipeline builds a pipeline whose single stage always errors.
func failingPipeline(t *testing.T) *pipeline.Pipeline[string] {
	t.Helper()
	failing := pipeline.StageFunc[string]{
		StageID: "broken",
		Fn: func(context.Context, []*item.Item[string]) ([]*item.Item[string], error) {
			return nil, errors.New("source unavailable")
		},
	}
	p, err := pipeline.New("query-test", failing)
	require.NoError(t, err)
	p.SetLogger(zap.NewNop().Sugar())
	return p
}

func newTestServer(t *testing.T, p *pipeline.Pipeline[string]) *Server {
	t.Helper()
	return New(p, DefaultRefreshInterval, zap.NewNop())
}

// get performs a GET against the server's router and returns the recorder.
func get(s *Server, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Router().ServeHTTP(w, req)
	return w
}

// TestServer_HealthBeforeFirstRefresh verifies 503 until a snapshot
// exists.
func TestServer_HealthBeforeFirstRefresh(t *testing.T) {
	s := newTestServer(t, staticPipeline(t, map[string]string{"a": "1"}))

	assert.Equal(t, http.StatusServiceUnavailable, get(s, "/healthz").Code)

	require.NoError(t, s.Refresh(context.Background()))
	assert.Equal(t, http.StatusOK, get(s, "/healthz").Code)
}

// TestServer_EntityLookup covers hit, miss and the ID listing.
func TestServer_EntityLookup(t *testing.T) {
	s := newTestServer(t, staticPipeline(t, map[string]string{
		"beta":  "<beta/>",
		"alpha": "<alpha/>",
	}))
	require.NoError(t, s.Refresh(context.Background()))

	w := get(s, "/entities/alpha")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<alpha/>", w.Body.String())

	assert.Equal(t, http.StatusNotFound, get(s, "/entities/missing").Code)

	list := get(s, "/entities")
	assert.Equal(t, http.StatusOK, list.Code)
	body := list.Body.String()
	// IDs are listed sorted.
	assert.Contains(t, body, `"entities":["alpha","beta"]`)
	assert.Contains(t, body, `"pipeline":"query-test"`)
}

// TestServer_FailedRefreshKeepsSnapshot verifies readers still see the
// last good snapshot after a refresh failure.
func TestServer_FailedRefreshKeepsSnapshot(t *testing.T) {
	good := staticPipeline(t, map[string]string{"alpha": "<alpha/>"})
	s := newTestServer(t, good)
	require.NoError(t, s.Refresh(context.Background()))

	// Swap in a failing pipeline and refresh again.
	s.pipe = failingPipeline(t)
	err := s.Refresh(context.Background())
	require.Error(t, err)

	assert.Equal(t, http.StatusOK, get(s, "/healthz").Code)
	assert.Equal(t, http.StatusOK, get(s, "/entities/alpha").Code)
}

// TestServer_UnidentifiedItemsSkipped verifies items without an ID are
// left out of the index instead of being served under an invented name.
func TestServer_UnidentifiedItemsSkipped(t *testing.T) {
	src := pipeline.StageFunc[string]{
		StageID: "static",
		Fn: func(_ context.Context, items []*item.Item[string]) ([]*item.Item[string], error) {
			identified := item.New("seen")
			identified.Metadata().Add(item.ID("doc"))
			return append(items, identified, item.New("invisible")), nil
		},
	}
	p, err := pipeline.New("query-test", src)
	require.NoError(t, err)
	p.SetLogger(zap.NewNop().Sugar())

	s := newTestServer(t, p)
	require.NoError(t, s.Refresh(context.Background()))

	list := get(s, "/entities")
	assert.Contains(t, list.Body.String(), `"entities":["doc"]`)
}

// TestServer_MetricsEndpoint verifies the Prometheus endpoint is wired.
func TestServer_MetricsEndpoint(t *testing.T) {
	s := newTestServer(t, staticPipeline(t, map[string]string{"a": "1"}))
	require.NoError(t, s.Refresh(context.Background()))

	w := get(s, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mdpipe_pipeline_runs_total")
}
