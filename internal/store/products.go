// Package store holds per-request accumulators. Nothing here outlives the
// request that built it.
package store

import (
	"github.com/AngelCh415/wb-ads-dashboard/internal/metrics"
	"github.com/AngelCh415/wb-ads-dashboard/internal/models"
)

// ProductDay is one product's figures inside one day/app record.
type ProductDay struct {
	NmID        int64
	Name        string
	Views       int64
	Clicks      int64
	Sum         float64
	ATBs        int64
	Orders      int64
	SumPrice    float64
	AvgPosition *float64
}

// ProductStore sums ProductDay figures per product id, remembering the order
// in which ids were first seen.
type ProductStore struct {
	agg   map[int64]*models.NmStats
	order []int64
}

func NewProductStore() *ProductStore {
	return &ProductStore{agg: make(map[int64]*models.NmStats)}
}

// Upsert adds p into the accumulator for p.NmID. The display name is taken
// from the first record seen, the average position from the first record
// that carries one.
func (s *ProductStore) Upsert(p ProductDay) {
	agg, ok := s.agg[p.NmID]
	if !ok {
		agg = &models.NmStats{NmID: p.NmID, Name: p.Name}
		s.agg[p.NmID] = agg
		s.order = append(s.order, p.NmID)
	}
	if agg.AvgPosition == nil && p.AvgPosition != nil {
		v := *p.AvgPosition
		agg.AvgPosition = &v
	}
	agg.Views += p.Views
	agg.Clicks += p.Clicks
	agg.Sum += p.Sum
	agg.ATBs += p.ATBs
	agg.Orders += p.Orders
	agg.SumPrice += p.SumPrice
}

func (s *ProductStore) Len() int { return len(s.order) }

// All returns the accumulated products in first-seen order with ratios
// derived from the summed counters.
func (s *ProductStore) All() []models.NmStats {
	out := make([]models.NmStats, 0, len(s.order))
	for _, id := range s.order {
		nm := *s.agg[id]
		r := metrics.Derive(metrics.Counters{Views: nm.Views, Clicks: nm.Clicks, Orders: nm.Orders, Sum: nm.Sum})
		nm.CTR, nm.CPC, nm.CPM, nm.CR = r.CTR, r.CPC, r.CPM, r.CR
		out = append(out, nm)
	}
	return out
}
