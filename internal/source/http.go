package source

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/y-kohei/mdpipe/internal/item"
)

const (
	// defaultHTTPTimeout bounds each fetch when no timeout is configured.
	defaultHTTPTimeout = 30 * time.Second

	// defaultRetryCount is the number of retries per URL.
	defaultRetryCount = 2
)

// HTTPSourceStage fetches documents over HTTP and appends one item per
// URL. The payload is the response body; the item ID is the URL.
//
// Failed fetches either fail the stage (the default) or, with
// ContinueOnError, produce an item with empty payload and an ErrorStatus.
type HTTPSourceStage struct {
	// StageID is the stage identifier.
	StageID string

	// URLs are fetched in order.
	URLs []string

	// Timeout bounds each fetch. Zero means 30 seconds.
	Timeout time.Duration

	// ContinueOnError marks failed fetches with an ErrorStatus instead
	// of failing the stage.
	ContinueOnError bool

	// client is lazily constructed; tests inject their own.
	client *resty.Client
}

// ID implements pipeline.Stage.
func (s *HTTPSourceStage) ID() string { return s.StageID }

// SetClient replaces the HTTP client. Intended for tests.
func (s *HTTPSourceStage) SetClient(c *resty.Client) { s.client = c }

func (s *HTTPSourceStage) httpClient() *resty.Client {
	if s.client == nil {
		timeout := s.Timeout
		if timeout == 0 {
			timeout = defaultHTTPTimeout
		}
		s.client = resty.New().
			SetTimeout(timeout).
			SetRetryCount(defaultRetryCount)
	}
	return s.client
}

// Execute implements pipeline.Stage.
func (s *HTTPSourceStage) Execute(ctx context.Context, items []*item.Item[string]) ([]*item.Item[string], error) {
	if len(s.URLs) == 0 {
		return nil, fmt.Errorf("no URLs configured")
	}
	client := s.httpClient()

	for _, url := range s.URLs {
		resp, err := client.R().SetContext(ctx).Get(url)
		switch {
		case err != nil:
			if !s.ContinueOnError {
				return nil, fmt.Errorf("fetching %s: %w", url, err)
			}
			items = append(items, s.errorItem(url, err.Error()))
		case resp.StatusCode() != 200:
			if !s.ContinueOnError {
				return nil, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode())
			}
			items = append(items, s.errorItem(url, fmt.Sprintf("unexpected status %d", resp.StatusCode())))
		default:
			it := item.New(string(resp.Body()))
			it.Metadata().Add(item.ID(url))
			items = append(items, it)
		}
	}
	return items, nil
}

// errorItem builds the placeholder item recorded for a failed fetch.
func (s *HTTPSourceStage) errorItem(url, reason string) *item.Item[string] {
	it := item.New("")
	it.Metadata().Add(item.ID(url))
	it.Metadata().Add(item.NewErrorStatus(s.StageID, fmt.Sprintf("fetching %s: %s", url, reason)))
	return it
}
