package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/y-kohei/mdpipe/internal/item"
)

// TestHTTPSourceStage_FetchesURLs verifies one item per URL with the body
// as payload and the URL as ID.
func TestHTTPSourceStage_FetchesURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/one":
			_, _ = w.Write([]byte("first document"))
		case "/two":
			_, _ = w.Write([]byte("second document"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	s := &HTTPSourceStage{
		StageID: "http",
		URLs:    []string{srv.URL + "/one", srv.URL + "/two"},
	}

	out, err := s.Execute(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "first document", out[0].Unwrap())
	assert.Equal(t, srv.URL+"/one", item.Identify(out[0]))
	assert.Equal(t, "second document", out[1].Unwrap())
	assert.Equal(t, srv.URL+"/two", item.Identify(out[1]))
}

// TestHTTPSourceStage_NonOKStatus covers strict and lenient handling of a
// 404 response.
func TestHTTPSourceStage_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	strict := &HTTPSourceStage{StageID: "http", URLs: []string{srv.URL}}
	_, err := strict.Execute(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	lenient := &HTTPSourceStage{StageID: "http", URLs: []string{srv.URL}, ContinueOnError: true}
	out, err := lenient.Execute(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, item.Has[item.ErrorStatus](out[0].Metadata()))
	assert.Empty(t, out[0].Unwrap())
}

// TestHTTPSourceStage_NoURLs verifies the misconfiguration is caught.
func TestHTTPSourceStage_NoURLs(t *testing.T) {
	s := &HTTPSourceStage{StageID: "http"}
	_, err := s.Execute(context.Background(), nil)
	assert.Error(t, err)
}
