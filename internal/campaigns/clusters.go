package campaigns

import (
	"context"
	"fmt"
	"sync"

	"github.com/AngelCh415/wb-ads-dashboard/internal/models"
	"github.com/AngelCh415/wb-ads-dashboard/internal/wbapi"
)

// Clusters returns the search-cluster statistics of one product in one
// campaign, annotated with the current bid and minus-phrase flag of each
// normalized query. Stats are mandatory; bids and minus-phrases are
// best-effort and never fail the call.
func (s *Service) Clusters(ctx context.Context, advertID, nmID int64, from, to string) ([]models.ClusterStats, error) {
	req := models.ClusterRequest{
		From:  from,
		To:    to,
		Items: []models.ClusterItem{{AdvertID: advertID, NmID: nmID}},
	}

	octx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg    sync.WaitGroup
		bids  Optional[map[string]float64]
		minus Optional[map[string]struct{}]
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		bids = s.clusterBids(octx, req)
	}()
	go func() {
		defer wg.Done()
		minus = s.clusterMinus(octx, req)
	}()

	raw, err := s.c.Post(ctx, wbapi.Advert, wbapi.PathClusterStats, nil, req)
	if err != nil {
		cancel()
		wg.Wait()
		return nil, fmt.Errorf("cluster stats: %w", err)
	}
	wg.Wait()

	degraded(s, "bids", bids)
	degraded(s, "minus", minus)
	return Enrich(decodeClusters(raw), bids, minus), nil
}

// Enrich annotates every cluster with its bid (0 when unknown) and minus flag.
// Absent lookups behave as empty ones. The result has the same length and
// order as clusters.
func Enrich(clusters []models.ClusterStats, bids Optional[map[string]float64], minus Optional[map[string]struct{}]) []models.ClusterStats {
	bidMap := bids.OrElse(nil)
	minusSet := minus.OrElse(nil)

	out := make([]models.ClusterStats, len(clusters))
	for i, c := range clusters {
		c.Bid = bidMap[c.NormQuery]
		_, c.Minus = minusSet[c.NormQuery]
		out[i] = c
	}
	return out
}

func (s *Service) clusterBids(ctx context.Context, req models.ClusterRequest) Optional[map[string]float64] {
	raw, err := s.c.Post(ctx, wbapi.Advert, wbapi.PathClusterBids, nil, req)
	if err != nil {
		return Absent[map[string]float64](err)
	}
	bids := make(map[string]float64)
	for _, w := range flattenWords(raw) {
		if q := normQuery(w); q != "" {
			bids[q] = w.Float(0, "bid")
		}
	}
	return Value(bids)
}

func (s *Service) clusterMinus(ctx context.Context, req models.ClusterRequest) Optional[map[string]struct{}] {
	raw, err := s.c.Post(ctx, wbapi.Advert, wbapi.PathClusterMinus, nil, req)
	if err != nil {
		return Absent[map[string]struct{}](err)
	}
	set := make(map[string]struct{})
	for _, w := range flattenWords(raw) {
		if q := normQuery(w); q != "" && w.Bool(false, "minus") {
			set[q] = struct{}{}
		}
	}
	return Value(set)
}

// flattenWords collects the word records of a normquery answer, which is a
// list of groups or a single group, each holding words[].
func flattenWords(raw any) []wbapi.Record {
	var words []wbapi.Record
	switch t := raw.(type) {
	case []any:
		for _, group := range wbapi.AsRecords(t) {
			words = append(words, group.Records("words")...)
		}
	case map[string]any:
		words = wbapi.Record(t).Records("words")
	}
	return words
}

func normQuery(w wbapi.Record) string {
	return w.String("", "normquery", "keyword")
}

func decodeClusters(raw any) []models.ClusterStats {
	words := flattenWords(raw)
	out := make([]models.ClusterStats, 0, len(words))
	for _, w := range words {
		out = append(out, models.ClusterStats{
			NormQuery: normQuery(w),
			AvgPos:    w.Float(0, "avgPosition", "avg_pos"),
			Views:     w.Int(0, "views"),
			Clicks:    w.Int(0, "clicks"),
			CTR:       w.Float(0, "ctr"),
			CPC:       w.Float(0, "cpc"),
			CPM:       w.Float(0, "cpm"),
			Sum:       w.Float(0, "sum"),
			Orders:    w.Int(0, "orders"),
			ATBs:      w.Int(0, "atbs"),
		})
	}
	return out
}
