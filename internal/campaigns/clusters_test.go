package campaigns

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/wb-ads-dashboard/internal/models"
	"github.com/AngelCh415/wb-ads-dashboard/internal/wbapi"
)

const clusterStatsBody = `[{"advert_id": 10, "nm_id": 20, "words": [
	{"normquery": "shoes", "views": 30, "clicks": 3, "avgPosition": 4.2},
	{"normquery": "boots", "views": 10, "clicks": 1, "avg_pos": 7}
]}]`

func TestClustersBidsDownMinusUp(t *testing.T) {
	wb := newFakeWB(t)
	wb.handle(wbapi.PathClusterStats, func(w http.ResponseWriter, r *http.Request) {
		var req models.ClusterRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, models.ClusterRequest{
			From:  "2025-01-01",
			To:    "2025-01-07",
			Items: []models.ClusterItem{{AdvertID: 10, NmID: 20}},
		}, req)
		_, _ = w.Write([]byte(`[{"words": [{"normquery": "shoes", "clicks": 3}]}]`))
	})
	wb.drop(wbapi.PathClusterBids)
	wb.json(wbapi.PathClusterMinus, `{"words": [{"normquery": "shoes", "minus": true}]}`)

	out, err := wb.service().Clusters(context.Background(), 10, 20, "2025-01-01", "2025-01-07")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "shoes", out[0].NormQuery)
	assert.Equal(t, int64(3), out[0].Clicks)
	assert.Zero(t, out[0].Bid)
	assert.True(t, out[0].Minus)
}

func TestClustersFullEnrichment(t *testing.T) {
	wb := newFakeWB(t)
	wb.json(wbapi.PathClusterStats, clusterStatsBody)
	wb.json(wbapi.PathClusterBids, `[{"words": [{"normquery": "boots", "bid": 250}, {"keyword": "shoes", "bid": 120}]}]`)
	wb.json(wbapi.PathClusterMinus, `[{"words": [{"normquery": "boots", "minus": false}, {"normquery": "sandals", "minus": true}]}]`)

	out, err := wb.service().Clusters(context.Background(), 10, 20, "2025-01-01", "2025-01-07")
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "shoes", out[0].NormQuery)
	assert.Equal(t, 4.2, out[0].AvgPos)
	assert.Equal(t, 120.0, out[0].Bid)
	assert.False(t, out[0].Minus)

	assert.Equal(t, "boots", out[1].NormQuery)
	assert.Equal(t, 7.0, out[1].AvgPos)
	assert.Equal(t, 250.0, out[1].Bid)
	assert.False(t, out[1].Minus)
}

func TestClustersOutputFollowsStats(t *testing.T) {
	type answer func(wb *fakeWB, path string)
	ok := func(body string) answer {
		return func(wb *fakeWB, path string) { wb.json(path, body) }
	}
	fail := func(code int) answer {
		return func(wb *fakeWB, path string) { wb.status(path, code) }
	}
	drop := func(wb *fakeWB, path string) { wb.drop(path) }

	tests := []struct {
		name  string
		bids  answer
		minus answer
	}{
		{"both succeed", ok(`[{"words": [{"normquery": "shoes", "bid": 1}]}]`), ok(`[{"words": [{"normquery": "shoes", "minus": true}]}]`)},
		{"both empty", ok(`[]`), ok(`{}`)},
		{"both fail", fail(http.StatusInternalServerError), fail(http.StatusTooManyRequests)},
		{"transport errors", drop, drop},
		{"bids only", ok(`[{"words": [{"normquery": "boots", "bid": 5}]}]`), fail(http.StatusForbidden)},
		{"unexpected shapes", ok(`"nonsense"`), ok(`[1, 2, 3]`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb := newFakeWB(t)
			wb.json(wbapi.PathClusterStats, clusterStatsBody)
			tt.bids(wb, wbapi.PathClusterBids)
			tt.minus(wb, wbapi.PathClusterMinus)

			out, err := wb.service().Clusters(context.Background(), 10, 20, "2025-01-01", "2025-01-07")
			require.NoError(t, err)
			require.Len(t, out, 2)
			assert.Equal(t, "shoes", out[0].NormQuery)
			assert.Equal(t, "boots", out[1].NormQuery)
		})
	}
}

func TestClustersStatsFailure(t *testing.T) {
	wb := newFakeWB(t)
	wb.status(wbapi.PathClusterStats, http.StatusTooManyRequests)
	wb.json(wbapi.PathClusterBids, `[]`)
	wb.json(wbapi.PathClusterMinus, `[]`)

	out, err := wb.service().Clusters(context.Background(), 10, 20, "2025-01-01", "2025-01-07")
	require.Error(t, err)
	assert.Nil(t, out)

	apiErr := wbapi.Normalize(err)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	assert.Equal(t, "Too many requests. Please try again later", apiErr.Message)
	assert.Equal(t, wbapi.PathClusterStats, apiErr.Endpoint)
}

func TestClustersNoWords(t *testing.T) {
	wb := newFakeWB(t)
	wb.json(wbapi.PathClusterStats, `[]`)
	wb.json(wbapi.PathClusterBids, `[]`)
	wb.json(wbapi.PathClusterMinus, `[]`)

	out, err := wb.service().Clusters(context.Background(), 10, 20, "2025-01-01", "2025-01-07")
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestEnrich(t *testing.T) {
	clusters := []models.ClusterStats{{NormQuery: "a", Bid: 99}, {NormQuery: "b"}, {NormQuery: "c", Minus: true}}

	t.Run("absent lookups", func(t *testing.T) {
		out := Enrich(clusters,
			Absent[map[string]float64](errors.New("down")),
			Absent[map[string]struct{}](errors.New("down")),
		)
		require.Len(t, out, 3)
		for _, c := range out {
			assert.Zero(t, c.Bid)
			assert.False(t, c.Minus)
		}
	})

	t.Run("present lookups", func(t *testing.T) {
		out := Enrich(clusters,
			Value(map[string]float64{"b": 12.5}),
			Value(map[string]struct{}{"a": {}}),
		)
		require.Len(t, out, 3)
		assert.Equal(t, []float64{0, 12.5, 0}, []float64{out[0].Bid, out[1].Bid, out[2].Bid})
		assert.Equal(t, []bool{true, false, false}, []bool{out[0].Minus, out[1].Minus, out[2].Minus})
	})

	t.Run("input untouched", func(t *testing.T) {
		_ = Enrich(clusters, Value(map[string]float64{"a": 1}), Value(map[string]struct{}{}))
		assert.Equal(t, 99.0, clusters[0].Bid)
		assert.True(t, clusters[2].Minus)
	})
}
