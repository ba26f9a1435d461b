package campaigns

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/AngelCh415/wb-ads-dashboard/internal/models"
	"github.com/AngelCh415/wb-ads-dashboard/internal/wbapi"
)

// advertsQuery asks for every status and type, newest first.
func advertsQuery() url.Values {
	return url.Values{
		"status":    {"-1"},
		"order":     {"create"},
		"direction": {"desc"},
	}
}

// ListCampaigns returns every campaign of the account. Ids are fetched first,
// then details in chunks of wbapi.MaxAdvertsPerCall. The result follows the
// id order; any failed chunk fails the whole call.
func (s *Service) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	raw, err := s.c.Get(ctx, wbapi.Advert, wbapi.PathPromotionCount, nil)
	if err != nil {
		return nil, fmt.Errorf("list campaign ids: %w", err)
	}
	ids := campaignIDs(raw)
	if len(ids) == 0 {
		return []models.Campaign{}, nil
	}

	chunks := Chunk(ids, wbapi.MaxAdvertsPerCall)
	results := make([][]models.Campaign, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.chunkConcurrency)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			out, err := s.c.Post(gctx, wbapi.Advert, wbapi.PathAdverts, advertsQuery(), chunk)
			if err != nil {
				return err
			}
			results[i] = decodeCampaigns(out)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch campaign details: %w", err)
	}

	seen := make(map[int64]struct{}, len(ids))
	campaigns := make([]models.Campaign, 0, len(ids))
	for _, part := range results {
		for _, c := range part {
			if _, dup := seen[c.AdvertID]; dup {
				continue
			}
			seen[c.AdvertID] = struct{}{}
			campaigns = append(campaigns, c)
		}
	}
	s.log.Debug("campaigns assembled",
		zap.Int("ids", len(ids)),
		zap.Int("chunks", len(chunks)),
		zap.Int("campaigns", len(campaigns)),
	)
	return campaigns, nil
}

// ListCampaignsWithStats attaches a stats summary for [begin, end] to every
// campaign. Campaigns without upstream statistics get zeroed stats.
func (s *Service) ListCampaignsWithStats(ctx context.Context, begin, end string) ([]models.CampaignWithStats, error) {
	campaigns, err := s.ListCampaigns(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.CampaignWithStats, 0, len(campaigns))
	if len(campaigns) == 0 {
		return out, nil
	}

	ids := make([]int64, 0, len(campaigns))
	for _, c := range campaigns {
		ids = append(ids, c.AdvertID)
	}
	records, err := s.FetchFullStats(ctx, ids, begin, end)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]wbapi.Record, len(records))
	for _, r := range records {
		id := r.Int(0, "advertId", "advert_id")
		if _, ok := byID[id]; !ok {
			byID[id] = r
		}
	}

	for _, c := range campaigns {
		var summary models.StatsSummary
		if r, ok := byID[c.AdvertID]; ok {
			summary = ParseCampaignStats(r).Summary()
		}
		out = append(out, models.CampaignWithStats{Campaign: c, Stats: summary})
	}
	return out, nil
}

// Chunk splits ids into consecutive slices of at most size elements.
func Chunk(ids []int64, size int) [][]int64 {
	if size <= 0 {
		size = len(ids)
	}
	var chunks [][]int64
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// campaignIDs reads the promotion/count answer: either a bare id list or the
// grouped {adverts:[{advert_list:[{advertId}]}]} form. Duplicates are dropped.
func campaignIDs(raw any) []int64 {
	var ids []int64
	seen := map[int64]struct{}{}
	add := func(id int64) {
		if id == 0 {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	switch t := raw.(type) {
	case []any:
		for _, v := range t {
			if rec, ok := wbapi.AsRecord(v); ok {
				add(rec.Int(0, "advertId", "advert_id", "id"))
				continue
			}
			if id, ok := wbapi.AsInt(v); ok {
				add(id)
			}
		}
	case map[string]any:
		for _, group := range wbapi.Record(t).Records("adverts") {
			for _, a := range group.Records("advert_list") {
				add(a.Int(0, "advertId", "advert_id"))
			}
		}
	}
	return ids
}

func decodeCampaigns(raw any) []models.Campaign {
	recs := recordList(raw, "adverts")
	out := make([]models.Campaign, 0, len(recs))
	for _, r := range recs {
		c := decodeCampaign(r)
		if c.AdvertID == 0 {
			continue
		}
		out = append(out, c)
	}
	return out
}

func decodeCampaign(r wbapi.Record) models.Campaign {
	status := models.CampaignStatus(r.Int(0, "status"))
	typ := models.CampaignType(r.Int(0, "type"))
	return models.Campaign{
		AdvertID:         r.Int(0, "advertId", "advert_id", "id"),
		Name:             r.String("", "name"),
		Status:           status,
		StatusName:       status.String(),
		Type:             typ,
		Channel:          typ.String(),
		CreateTime:       r.String("", "createTime"),
		ChangeTime:       r.String("", "changeTime"),
		StartTime:        r.String("", "startTime"),
		EndTime:          r.String("", "endTime"),
		DailyBudget:      r.Float(0, "dailyBudget"),
		SearchPluseState: r.Bool(false, "searchPluseState"),
	}
}
