// Package serve implements the mdpipe query service: it runs a configured
// pipeline on an interval and serves the resulting items by identifier
// over HTTP.
//
// The service keeps the last successful result set indexed in memory. A
// failed refresh is logged and counted but leaves the previous snapshot in
// place, so readers never observe a partially built index.
package serve

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/y-kohei/mdpipe/internal/item"
	"github.com/y-kohei/mdpipe/internal/metrics"
	"github.com/y-kohei/mdpipe/internal/pipeline"
)

// DefaultRefreshInterval is used when the caller does not configure one.
const DefaultRefreshInterval = 5 * time.Minute

// Server runs a pipeline periodically and serves the resulting items.
type Server struct {
	pipe     *pipeline.Pipeline[string]
	interval time.Duration
	log      *zap.Logger

	mu          sync.RWMutex
	index       map[string]string
	ids         []string
	lastRefresh time.Time
	ready       bool
}

// New creates a Server around the given pipeline. A zero interval selects
// DefaultRefreshInterval; a nil logger selects the global one.
func New(pipe *pipeline.Pipeline[string], interval time.Duration, log *zap.Logger) *Server {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	if log == nil {
		log = zap.L()
	}
	return &Server{
		pipe:     pipe,
		interval: interval,
		log:      log,
		index:    map[string]string{},
	}
}

// Refresh executes the pipeline once and atomically replaces the snapshot
// on success. On failure the previous snapshot is kept and the error is
// returned.
func (s *Server) Refresh(ctx context.Context) error {
	items, err := s.pipe.Execute(ctx, nil)
	if err != nil {
		metrics.RefreshFailures.WithLabelValues(s.pipe.ID()).Inc()
		s.log.Error("pipeline refresh failed; keeping previous snapshot",
			zap.String("pipeline", s.pipe.ID()), zap.Error(err))
		return err
	}

	index := make(map[string]string, len(items))
	skipped := 0
	for _, it := range items {
		id, ok := item.First[item.ID](it.Metadata())
		if !ok {
			skipped++
			continue
		}
		index[id.String()] = it.Unwrap()
	}
	ids := make([]string, 0, len(index))
	for id := range index {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	s.mu.Lock()
	s.index = index
	s.ids = ids
	s.lastRefresh = time.Now()
	s.ready = true
	s.mu.Unlock()

	s.log.Info("snapshot refreshed",
		zap.String("pipeline", s.pipe.ID()),
		zap.Int("entities", len(ids)),
		zap.Int("unidentified", skipped),
	)
	return nil
}

// Run refreshes the snapshot on every interval tick until ctx is
// cancelled. Callers wanting to refuse startup with a broken pipeline
// should call Refresh once before Run; failures inside the loop only
// keep the previous snapshot.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_ = s.Refresh(ctx) // failure keeps the old snapshot
		}
	}
}

// Router builds the gin engine serving the query API:
//
//	GET /entities       list of entity IDs in the current snapshot
//	GET /entities/:id   the entity's payload, 404 if unknown
//	GET /healthz        200 once a snapshot exists, 503 before
//	GET /metrics        Prometheus metrics
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(ginzap.Ginzap(s.log, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(s.log, true))

	r.GET("/entities", s.listEntities)
	r.GET("/entities/:id", s.getEntity)
	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

func (s *Server) listEntities(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c.JSON(http.StatusOK, gin.H{
		"pipeline":  s.pipe.ID(),
		"refreshed": s.lastRefresh,
		"entities":  append([]string{}, s.ids...),
	})
}

func (s *Server) getEntity(c *gin.Context) {
	id := c.Param("id")
	s.mu.RLock()
	payload, ok := s.index[id]
	s.mu.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown entity", "id": id})
		return
	}
	c.String(http.StatusOK, payload)
}

func (s *Server) health(c *gin.Context) {
	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()
	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "no snapshot yet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
