package campaigns

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/AngelCh415/wb-ads-dashboard/internal/metrics"
	"github.com/AngelCh415/wb-ads-dashboard/internal/models"
	"github.com/AngelCh415/wb-ads-dashboard/internal/store"
	"github.com/AngelCh415/wb-ads-dashboard/internal/wbapi"
)

// FetchFullStats returns the raw per-campaign fullstats records for ids over
// the inclusive date range.
func (s *Service) FetchFullStats(ctx context.Context, ids []int64, begin, end string) ([]wbapi.Record, error) {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	q := url.Values{
		"ids":       {strings.Join(parts, ",")},
		"beginDate": {begin},
		"endDate":   {end},
	}
	raw, err := s.c.Get(ctx, wbapi.Advert, wbapi.PathFullStats, q)
	if err != nil {
		return nil, fmt.Errorf("fetch fullstats: %w", err)
	}
	return recordList(raw, "adverts", "stats"), nil
}

// CampaignStats returns the parsed statistics of one campaign. A range with
// no upstream data yields zeroed stats.
func (s *Service) CampaignStats(ctx context.Context, id int64, begin, end string) (models.CampaignStats, error) {
	records, err := s.FetchFullStats(ctx, []int64{id}, begin, end)
	if err != nil {
		return models.CampaignStats{}, err
	}
	if len(records) == 0 {
		return models.EmptyCampaignStats(), nil
	}
	rec := records[0]
	for _, r := range records {
		if r.Int(0, "advertId", "advert_id") == id {
			rec = r
			break
		}
	}
	return ParseCampaignStats(rec), nil
}

// ParseCampaignStats flattens one campaign's day → app → product tree into a
// daily series, per-product aggregates and campaign totals. Ratios are derived
// from summed counters only.
func ParseCampaignStats(rec wbapi.Record) models.CampaignStats {
	stats := models.EmptyCampaignStats()
	products := store.NewProductStore()

	for _, d := range rec.Records("days") {
		day := decodeDay(d)
		stats.Days = append(stats.Days, day)

		stats.Views += day.Views
		stats.Clicks += day.Clicks
		stats.Sum += day.Sum
		stats.ATBs += day.ATBs
		stats.Orders += day.Orders
		stats.SumPrice += day.SumPrice

		for _, app := range day.Apps {
			for _, nm := range app.Records("nms") {
				id := nm.Int(0, "nmId", "nm_id")
				if id == 0 {
					continue
				}
				products.Upsert(store.ProductDay{
					NmID:        id,
					Name:        nm.String("", "name"),
					Views:       nm.Int(0, "views"),
					Clicks:      nm.Int(0, "clicks"),
					Sum:         nm.Float(0, "sum"),
					ATBs:        nm.Int(0, "atbs"),
					Orders:      nm.Int(0, "orders"),
					SumPrice:    nm.Float(0, "sum_price"),
					AvgPosition: nm.OptFloat("avgPosition", "avg_position"),
				})
			}
		}
	}

	r := metrics.Derive(metrics.Counters{Views: stats.Views, Clicks: stats.Clicks, Orders: stats.Orders, Sum: stats.Sum})
	stats.CTR, stats.CPC, stats.CPM, stats.CR = r.CTR, r.CPC, r.CPM, r.CR
	stats.Nms = products.All()
	return stats
}

func decodeDay(d wbapi.Record) models.DayStats {
	apps := d.Records("apps")
	if apps == nil {
		apps = []wbapi.Record{}
	}
	return models.DayStats{
		Date:     d.String("", "date"),
		Views:    d.Int(0, "views"),
		Clicks:   d.Int(0, "clicks"),
		CTR:      d.Float(0, "ctr"),
		CPC:      d.Float(0, "cpc"),
		CPM:      d.Float(0, "cpm"),
		Sum:      d.Float(0, "sum"),
		ATBs:     d.Int(0, "atbs"),
		Orders:   d.Int(0, "orders"),
		CR:       d.Float(0, "cr"),
		SHKs:     d.Int(0, "shks"),
		SumPrice: d.Float(0, "sum_price"),
		Apps:     apps,
	}
}
