// Package campaigns assembles dashboard views from the Wildberries
// advertising and analytics APIs. A Service lives for one request and one
// API key; it holds no state between calls.
package campaigns

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/AngelCh415/wb-ads-dashboard/internal/models"
	"github.com/AngelCh415/wb-ads-dashboard/internal/observability"
	"github.com/AngelCh415/wb-ads-dashboard/internal/wbapi"
)

// Upstream is the subset of *wbapi.Client the service needs.
type Upstream interface {
	Get(ctx context.Context, api wbapi.API, path string, query url.Values) (any, error)
	Post(ctx context.Context, api wbapi.API, path string, query url.Values, body any) (any, error)
}

type Service struct {
	c                Upstream
	log              *zap.Logger
	metrics          observability.MetricsRegistry
	chunkConcurrency int
}

func NewService(c Upstream, log *zap.Logger, metrics observability.MetricsRegistry, chunkConcurrency int) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if metrics == nil {
		metrics = observability.NewNoOpRegistry()
	}
	if chunkConcurrency <= 0 {
		chunkConcurrency = 1
	}
	return &Service{c: c, log: log, metrics: metrics, chunkConcurrency: chunkConcurrency}
}

// Balance returns the advertising account balance. It doubles as an API key
// check.
func (s *Service) Balance(ctx context.Context) (models.Balance, error) {
	raw, err := s.c.Get(ctx, wbapi.Advert, wbapi.PathBalance, nil)
	if err != nil {
		return models.Balance{}, fmt.Errorf("get balance: %w", err)
	}
	rec, _ := wbapi.AsRecord(raw)
	b := models.Balance{
		Net:   rec.Float(0, "net"),
		Bonus: rec.Float(0, "bonus"),
	}
	b.Total = b.Net + b.Bonus
	return b, nil
}

// SearchReport forwards body to the analytics search report and returns the
// upstream answer untouched.
func (s *Service) SearchReport(ctx context.Context, body json.RawMessage) (any, error) {
	out, err := s.c.Post(ctx, wbapi.Analytics, wbapi.PathSearchReport, nil, body)
	if err != nil {
		return nil, fmt.Errorf("search report: %w", err)
	}
	return out, nil
}

// degraded logs and counts an optional lookup that came back absent.
func degraded[T any](s *Service, source string, o Optional[T]) {
	if _, ok := o.Get(); ok {
		return
	}
	s.metrics.IncrementEnrichmentDegraded(source)
	s.log.Warn("optional lookup failed, continuing without it",
		zap.String("source", source),
		zap.Error(o.Reason()),
	)
}

// recordList accepts either a bare JSON array or an object wrapping the
// array under one of names.
func recordList(raw any, names ...string) []wbapi.Record {
	switch t := raw.(type) {
	case []any:
		return wbapi.AsRecords(t)
	case map[string]any:
		return wbapi.Record(t).Records(names...)
	}
	return nil
}

func idQuery(id int64) url.Values {
	return url.Values{"id": {strconv.FormatInt(id, 10)}}
}
