package campaigns

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/wb-ads-dashboard/internal/metrics"
	"github.com/AngelCh415/wb-ads-dashboard/internal/models"
	"github.com/AngelCh415/wb-ads-dashboard/internal/wbapi"
)

func record(t *testing.T, s string) wbapi.Record {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return wbapi.Record(m)
}

func TestParseCampaignStatsNoData(t *testing.T) {
	for _, in := range []string{`{}`, `{"days": null}`, `{"days": []}`} {
		stats := ParseCampaignStats(record(t, in))

		assert.Equal(t, models.EmptyCampaignStats(), stats, in)
		assert.NotNil(t, stats.Days)
		assert.NotNil(t, stats.Nms)
	}
}

func TestParseCampaignStatsSingleDay(t *testing.T) {
	stats := ParseCampaignStats(record(t, `{
		"advertId": 1,
		"days": [{
			"date": "2025-01-01",
			"views": 100, "clicks": 10, "sum": 50,
			"apps": [{"appType": 1, "nms": [
				{"nmId": 555, "name": "Sneakers", "views": 40, "clicks": 5, "sum": 20}
			]}]
		}]
	}`))

	assert.Equal(t, int64(100), stats.Views)
	assert.Equal(t, 10.0, stats.CTR)
	assert.Equal(t, 5.0, stats.CPC)
	assert.Equal(t, 500.0, stats.CPM)
	assert.Zero(t, stats.CR)

	require.Len(t, stats.Days, 1)
	assert.Equal(t, "2025-01-01", stats.Days[0].Date)
	require.Len(t, stats.Days[0].Apps, 1)
	assert.Equal(t, 1.0, stats.Days[0].Apps[0]["appType"])

	require.Len(t, stats.Nms, 1)
	nm := stats.Nms[0]
	assert.Equal(t, int64(555), nm.NmID)
	assert.Equal(t, "Sneakers", nm.Name)
	assert.Equal(t, 12.5, nm.CTR)
	assert.Equal(t, 4.0, nm.CPC)
	assert.Equal(t, 500.0, nm.CPM)
	assert.Nil(t, nm.AvgPosition)
}

func TestParseCampaignStatsDayDefaults(t *testing.T) {
	stats := ParseCampaignStats(record(t, `{"days": [{"date": "2025-01-02"}]}`))

	require.Len(t, stats.Days, 1)
	day := stats.Days[0]
	assert.Zero(t, day.Views)
	assert.Zero(t, day.SumPrice)
	assert.NotNil(t, day.Apps)
	assert.Empty(t, day.Apps)
}

func TestParseCampaignStatsRatiosFromSums(t *testing.T) {
	stats := ParseCampaignStats(record(t, `{"days": [
		{"views": 1000, "clicks": 10, "sum": 100, "orders": 1, "atbs": 3, "sum_price": 900, "ctr": 1, "cpc": 10},
		{"views": 10, "clicks": 5, "sum": 5, "orders": 2, "atbs": 1, "sum_price": 100, "ctr": 50, "cpc": 1}
	]}`))

	want := metrics.Derive(metrics.Counters{Views: 1010, Clicks: 15, Orders: 3, Sum: 105})
	assert.Equal(t, int64(1010), stats.Views)
	assert.Equal(t, int64(15), stats.Clicks)
	assert.Equal(t, int64(4), stats.ATBs)
	assert.Equal(t, 1000.0, stats.SumPrice)
	assert.Equal(t, want.CTR, stats.CTR)
	assert.Equal(t, want.CPC, stats.CPC)
	assert.Equal(t, want.CPM, stats.CPM)
	assert.Equal(t, want.CR, stats.CR)
	assert.NotEqual(t, (1.0+50.0)/2, stats.CTR)

	// per-day ratios are copied, not recomputed
	assert.Equal(t, 50.0, stats.Days[1].CTR)
}

func TestParseCampaignStatsProducts(t *testing.T) {
	stats := ParseCampaignStats(record(t, `{"days": [
		{"apps": [
			{"nms": [{"nmId": 1, "name": "first", "views": 10, "clicks": 2, "orders": 1, "sum": 4, "sum_price": 7}]},
			{"nms": [{"nm_id": 2, "name": "second", "views": 5}, {"name": "no id", "views": 99}]}
		]},
		{"apps": [
			{"nms": [{"nm_id": 1, "name": "renamed", "views": 30, "clicks": 2, "sum": 4, "avgPosition": 3.5}]}
		]}
	]}`))

	require.Len(t, stats.Nms, 2)
	first := stats.Nms[0]
	assert.Equal(t, int64(1), first.NmID)
	assert.Equal(t, "first", first.Name)
	assert.Equal(t, int64(40), first.Views)
	assert.Equal(t, int64(4), first.Clicks)
	assert.Equal(t, 8.0, first.Sum)
	assert.Equal(t, 7.0, first.SumPrice)
	assert.Equal(t, 10.0, first.CTR)
	assert.Equal(t, 2.0, first.CPC)
	assert.Equal(t, 25.0, first.CR)
	require.NotNil(t, first.AvgPosition)
	assert.Equal(t, 3.5, *first.AvgPosition)

	assert.Equal(t, int64(2), stats.Nms[1].NmID)
}

func TestParseCampaignStatsOrderIndependent(t *testing.T) {
	a := ParseCampaignStats(record(t, `{"days": [
		{"views": 1, "apps": [{"nms": [{"nmId": 1, "views": 10, "clicks": 1, "sum": 3}, {"nmId": 2, "views": 7}]}]},
		{"views": 2, "apps": [{"nms": [{"nmId": 2, "views": 3, "clicks": 3, "sum": 9}]}, {"nms": [{"nmId": 1, "views": 5, "orders": 1}]}]}
	]}`))
	b := ParseCampaignStats(record(t, `{"days": [
		{"views": 2, "apps": [{"nms": [{"nmId": 1, "views": 5, "orders": 1}]}, {"nms": [{"nmId": 2, "views": 3, "clicks": 3, "sum": 9}]}]},
		{"views": 1, "apps": [{"nms": [{"nmId": 2, "views": 7}, {"nmId": 1, "views": 10, "clicks": 1, "sum": 3}]}]}
	]}`))

	byID := func(s models.CampaignStats) map[int64]models.NmStats {
		out := map[int64]models.NmStats{}
		for _, nm := range s.Nms {
			out[nm.NmID] = nm
		}
		return out
	}
	assert.Equal(t, byID(a), byID(b))
	assert.Equal(t, a.Summary(), b.Summary())
}

func TestCampaignStatsNoUpstreamData(t *testing.T) {
	wb := newFakeWB(t)
	wb.handle(wbapi.PathFullStats, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "42", q.Get("ids"))
		assert.Equal(t, "2025-01-01", q.Get("beginDate"))
		assert.Equal(t, "2025-01-07", q.Get("endDate"))
		_, _ = w.Write([]byte(`null`))
	})

	stats, err := wb.service().CampaignStats(context.Background(), 42, "2025-01-01", "2025-01-07")
	require.NoError(t, err)
	assert.Equal(t, models.EmptyCampaignStats(), stats)
}

func TestCampaignStatsPicksMatchingRecord(t *testing.T) {
	wb := newFakeWB(t)
	wb.json(wbapi.PathFullStats, `[
		{"advertId": 7, "days": [{"views": 1}]},
		{"advertId": 42, "days": [{"views": 9}]}
	]`)

	stats, err := wb.service().CampaignStats(context.Background(), 42, "2025-01-01", "2025-01-07")
	require.NoError(t, err)
	assert.Equal(t, int64(9), stats.Views)
}

func TestCampaignStatsUpstreamFailure(t *testing.T) {
	wb := newFakeWB(t)
	wb.status(wbapi.PathFullStats, http.StatusUnauthorized)

	_, err := wb.service().CampaignStats(context.Background(), 42, "2025-01-01", "2025-01-07")
	apiErr := wbapi.Normalize(err)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, wbapi.PathFullStats, apiErr.Endpoint)
}
