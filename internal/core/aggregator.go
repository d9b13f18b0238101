// Package core ties the search pipeline together: concurrent fan-out to the
// providers, TF-IDF ranking of the merged hits, and the usage and favorites
// state that lives for the life of the process.
package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/agenthands/metasearch/internal/core/favorites"
	"github.com/agenthands/metasearch/internal/core/model"
	"github.com/agenthands/metasearch/internal/core/rank"
	"github.com/agenthands/metasearch/internal/core/usage"
	"github.com/agenthands/metasearch/internal/logging"
	"github.com/agenthands/metasearch/internal/metrics"
	"github.com/agenthands/metasearch/internal/provider"
)

type Options struct {
	RecommendLimit int
	TrendingLimit  int
	Metrics        *metrics.Collector
	Logger         logging.Logger
}

// Aggregator is the service object injected into the HTTP handlers. It owns
// all mutable state; nothing is kept in package globals.
type Aggregator struct {
	Coordinator *Coordinator
	Ranker      *rank.Ranker
	Tracker     *usage.Tracker
	Favorites   *favorites.Store

	recommendLimit int
	trendingLimit  int
	metrics        *metrics.Collector
	logger         logging.Logger
}

func NewAggregator(adapters []provider.Adapter, opts Options) *Aggregator {
	if opts.RecommendLimit <= 0 {
		opts.RecommendLimit = 5
	}
	if opts.TrendingLimit <= 0 {
		opts.TrendingLimit = 5
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	tracker := usage.NewTracker()
	return &Aggregator{
		Coordinator:    NewCoordinator(adapters, tracker, opts.Metrics, opts.Logger),
		Ranker:         rank.NewRanker(),
		Tracker:        tracker,
		Favorites:      favorites.NewStore(),
		recommendLimit: opts.RecommendLimit,
		trendingLimit:  opts.TrendingLimit,
		metrics:        opts.Metrics,
		logger:         opts.Logger,
	}
}

type SearchResponse struct {
	ID              string                `json:"search_id"`
	Query           string                `json:"query"`
	Results         model.SearchResultSet `json:"results"`
	Recommendations []string              `json:"recommendations"`
	Trending        []string              `json:"trending"`
	Errors          []ProviderFailure     `json:"errors,omitempty"`
	ElapsedMS       int64                 `json:"elapsed_ms"`
}

// ProviderFailure is the client-facing view of a model.ProviderError.
type ProviderFailure struct {
	Provider model.Source    `json:"provider"`
	Kind     model.ErrorKind `json:"kind"`
	Message  string          `json:"message"`
}

// Search runs one full request: fan-out, ranking, recommendations and the
// current trending list. An empty query is not an error; it returns empty
// results without calling any provider.
func (a *Aggregator) Search(ctx context.Context, query string, numResults int) (*SearchResponse, error) {
	start := time.Now()
	resp := &SearchResponse{
		ID:              uuid.New().String(),
		Query:           query,
		Results:         model.NewSearchResultSet(),
		Recommendations: []string{},
	}

	// Empty queries never reach the providers and are not counted as trending.
	if query == "" {
		resp.Trending = a.Tracker.Trending(a.trendingLimit)
		a.countSearch("empty")
		return resp, nil
	}

	set, failures, err := a.Coordinator.Search(ctx, query, numResults)
	if err != nil {
		a.countSearch("failed")
		a.logger.WithFields(logging.Fields{
			"search_id": resp.ID,
			"query":     query,
		}).WithError(err).Error("all providers failed")
		return nil, err
	}

	set.Ranked = a.Ranker.Rank(query, set.Flatten())
	resp.Results = set
	resp.Recommendations = a.Tracker.Recommend(query, a.recommendLimit)
	resp.Trending = a.Tracker.Trending(a.trendingLimit)
	for _, f := range failures {
		resp.Errors = append(resp.Errors, ProviderFailure{
			Provider: f.Provider,
			Kind:     f.Kind,
			Message:  f.Error(),
		})
	}
	resp.ElapsedMS = time.Since(start).Milliseconds()

	if len(failures) > 0 {
		a.countSearch("partial")
	} else {
		a.countSearch("ok")
	}
	a.logger.WithFields(logging.Fields{
		"search_id":  resp.ID,
		"query":      query,
		"providers":  len(set.Order),
		"failed":     len(failures),
		"hits":       len(set.Ranked),
		"elapsed_ms": resp.ElapsedMS,
	}).Info("search completed")

	return resp, nil
}

// RecordClick counts a click on url. Empty urls are ignored.
func (a *Aggregator) RecordClick(url string) {
	if url == "" {
		return
	}
	a.Tracker.RecordClick(url)
	if a.metrics != nil {
		a.metrics.Clicks.Inc()
	}
}

// AddFavorite stores record unless an equal one is already saved.
func (a *Aggregator) AddFavorite(record json.RawMessage) error {
	added, err := a.Favorites.Add(record)
	if err != nil {
		return err
	}
	if added && a.metrics != nil {
		a.metrics.Favorites.Set(float64(a.Favorites.Len()))
	}
	return nil
}

func (a *Aggregator) ListFavorites() []json.RawMessage {
	return a.Favorites.List()
}

type Analytics struct {
	Trending    []model.Count `json:"trending"`
	MostClicked []model.Count `json:"most_clicked"`
}

// Analytics returns full snapshots of both counters.
func (a *Aggregator) Analytics() Analytics {
	return Analytics{
		Trending:    a.Tracker.TrendingCounts(0),
		MostClicked: a.Tracker.MostClicked(0),
	}
}

func (a *Aggregator) countSearch(outcome string) {
	if a.metrics != nil {
		a.metrics.Searches.WithLabelValues(outcome).Inc()
	}
}
