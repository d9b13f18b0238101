package core

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/metasearch/internal/core/model"
	"github.com/agenthands/metasearch/internal/metrics"
	"github.com/agenthands/metasearch/internal/provider"
)

func newTestAggregator(adapters ...provider.Adapter) (*Aggregator, *metrics.Collector) {
	m := metrics.New()
	return NewAggregator(adapters, Options{Metrics: m}), m
}

func TestAggregator_SearchRanksAcrossProviders(t *testing.T) {
	exa := &MockAdapter{Source: model.SourceExa, Hits: []model.Hit{
		hit(model.SourceExa, "Cooking recipes", "pasta and sauce", "https://food"),
	}}
	google := &MockAdapter{Source: model.SourceGoogle, Hits: []model.Hit{
		hit(model.SourceGoogle, "Async runtime in Rust", "tokio and async-std comparisons", "https://tokio"),
	}}
	agg, m := newTestAggregator(exa, google)

	resp, err := agg.Search(context.Background(), "rust async runtime", 5)
	require.NoError(t, err)

	require.Len(t, resp.Results.Ranked, 2)
	assert.Equal(t, "https://tokio", resp.Results.Ranked[0].URL)
	assert.Greater(t, resp.Results.Ranked[0].ScoreValue(), 0.0)
	assert.Equal(t, 0.0, resp.Results.Ranked[1].ScoreValue())

	// per-provider lists stay unscored
	assert.Nil(t, resp.Results.ByProvider[model.SourceExa][0].Score)
	assert.Equal(t, []string{"rust async runtime"}, resp.Trending)
	assert.Empty(t, resp.Recommendations)
	assert.NotEmpty(t, resp.ID)
	assert.Empty(t, resp.Errors)

	assert.Equal(t, 1, agg.Tracker.QueryCount("rust async runtime"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Searches.WithLabelValues("ok")))
}

func TestAggregator_PartialFailureRankedFromSurvivors(t *testing.T) {
	p1 := &MockAdapter{Source: "P1", Hits: []model.Hit{hit("P1", "go modules", "", "p1")}}
	p2 := &MockAdapter{Source: "P2", Err: errors.New("timeout"), Hits: []model.Hit{hit("P2", "go modules", "", "p2")}}
	p3 := &MockAdapter{Source: "P3", Hits: []model.Hit{hit("P3", "go workspaces", "", "p3")}}
	agg, m := newTestAggregator(p1, p2, p3)

	resp, err := agg.Search(context.Background(), "go modules", 5)
	require.NoError(t, err)

	for _, h := range resp.Results.Ranked {
		assert.NotEqual(t, model.Source("P2"), h.Source)
	}
	assert.Len(t, resp.Results.Ranked, 2)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, model.Source("P2"), resp.Errors[0].Provider)
	assert.Equal(t, model.KindNetwork, resp.Errors[0].Kind)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Searches.WithLabelValues("partial")))
}

func TestAggregator_TotalFailure(t *testing.T) {
	agg, m := newTestAggregator(&MockAdapter{Source: "P1", Err: errors.New("down")})

	resp, err := agg.Search(context.Background(), "q", 5)
	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, model.ErrAllProvidersFailed))
	assert.Equal(t, 1, agg.Tracker.QueryCount("q"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Searches.WithLabelValues("failed")))
}

func TestAggregator_EmptyQuery(t *testing.T) {
	a := &MockAdapter{Source: "P1", Hits: []model.Hit{hit("P1", "x", "", "u")}}
	agg, _ := newTestAggregator(a)

	resp, err := agg.Search(context.Background(), "", 5)
	require.NoError(t, err)
	assert.Empty(t, resp.Results.Ranked)
	assert.Equal(t, 0, a.Calls)
	assert.Empty(t, agg.Tracker.Trending(5))
}

func TestAggregator_Recommendations(t *testing.T) {
	a := &MockAdapter{Source: "P1"}
	agg, _ := newTestAggregator(a)
	ctx := context.Background()

	for _, q := range []string{"rust concurrency", "go concurrency", "python ml"} {
		_, err := agg.Search(ctx, q, 5)
		require.NoError(t, err)
	}

	resp, err := agg.Search(ctx, "concurrency patterns", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"rust concurrency", "go concurrency"}, resp.Recommendations)
	assert.Len(t, resp.Trending, 4)
}

func TestAggregator_ClicksFavoritesAnalytics(t *testing.T) {
	agg, m := newTestAggregator(&MockAdapter{Source: "P1"})
	ctx := context.Background()

	_, _ = agg.Search(ctx, "b", 1)
	_, _ = agg.Search(ctx, "a", 1)
	_, _ = agg.Search(ctx, "a", 1)

	agg.RecordClick("https://x")
	agg.RecordClick("https://x")
	agg.RecordClick("")
	agg.RecordClick("https://y")

	require.NoError(t, agg.AddFavorite(json.RawMessage(`{"url":"https://x","title":"X"}`)))
	require.NoError(t, agg.AddFavorite(json.RawMessage(`{"title":"X","url":"https://x"}`)))
	assert.Error(t, agg.AddFavorite(json.RawMessage(`{`)))
	assert.Len(t, agg.ListFavorites(), 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Favorites))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Clicks))

	an := agg.Analytics()
	assert.Equal(t, []model.Count{{Key: "a", Count: 2}, {Key: "b", Count: 1}}, an.Trending)
	assert.Equal(t, []model.Count{{Key: "https://x", Count: 2}, {Key: "https://y", Count: 1}}, an.MostClicked)
}
