package campaigns

import (
	"context"
	"fmt"
	"sync"

	"github.com/AngelCh415/wb-ads-dashboard/internal/models"
	"github.com/AngelCh415/wb-ads-dashboard/internal/wbapi"
)

// ManualKeywords returns keyword statistics of a manual campaign.
func (s *Service) ManualKeywords(ctx context.Context, id int64) ([]models.ManualKeyword, error) {
	raw, err := s.c.Get(ctx, wbapi.Advert, wbapi.PathStatWords, idQuery(id))
	if err != nil {
		return nil, fmt.Errorf("manual keywords: %w", err)
	}
	recs := recordList(raw, "stat")
	out := make([]models.ManualKeyword, 0, len(recs))
	for _, r := range recs {
		out = append(out, models.ManualKeyword{
			Keyword: r.String("", "keyword", "word"),
			Views:   r.Int(0, "views"),
			Clicks:  r.Int(0, "clicks"),
			CTR:     r.Float(0, "ctr"),
			CPC:     r.Float(0, "cpc"),
			Orders:  r.Int(0, "orders"),
			Sum:     r.Float(0, "sum"),
			Minus:   r.Bool(false, "minus"),
		})
	}
	return out, nil
}

// AutoStats returns the keyword clusters of an automatic campaign together
// with the products that can still be added to it. The product lookup is
// best-effort.
func (s *Service) AutoStats(ctx context.Context, id int64) (models.AutoStats, error) {
	octx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg    sync.WaitGroup
		avail Optional[[]models.AvailableNm]
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		avail = s.availableNms(octx, id)
	}()

	raw, err := s.c.Get(ctx, wbapi.Advert, wbapi.PathAutoStatWords, idQuery(id))
	if err != nil {
		cancel()
		wg.Wait()
		return models.AutoStats{}, fmt.Errorf("auto stats: %w", err)
	}
	wg.Wait()
	degraded(s, "available_nms", avail)

	recs := recordList(raw, "clusters")
	clusters := make([]models.AutoCampaignCluster, 0, len(recs))
	for _, r := range recs {
		clusters = append(clusters, models.AutoCampaignCluster{
			Cluster:        r.String("", "cluster"),
			Count:          r.Int(0, "count"),
			Keywords:       r.Strings("keywords"),
			IsMinusCluster: r.Bool(false, "is_minus_cluster"),
		})
	}
	return models.AutoStats{
		Clusters:     clusters,
		AvailableNms: avail.OrElse([]models.AvailableNm{}),
	}, nil
}

func (s *Service) availableNms(ctx context.Context, id int64) Optional[[]models.AvailableNm] {
	raw, err := s.c.Get(ctx, wbapi.Advert, wbapi.PathAutoNmToAdd, idQuery(id))
	if err != nil {
		return Absent[[]models.AvailableNm](err)
	}
	list, _ := raw.([]any)
	out := make([]models.AvailableNm, 0, len(list))
	for _, v := range list {
		if r, ok := wbapi.AsRecord(v); ok {
			if nm := r.Int(0, "nm_id", "nmId"); nm != 0 {
				out = append(out, models.AvailableNm{NmID: nm, Name: r.String("", "name")})
			}
			continue
		}
		if nm, ok := wbapi.AsInt(v); ok && nm != 0 {
			out = append(out, models.AvailableNm{NmID: nm})
		}
	}
	return Value(out)
}
