package core

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agenthands/metasearch/internal/core/model"
	"github.com/agenthands/metasearch/internal/logging"
	"github.com/agenthands/metasearch/internal/metrics"
	"github.com/agenthands/metasearch/internal/provider"
)

// QueryRecorder is the slice of the usage tracker the coordinator needs.
type QueryRecorder interface {
	RecordQuery(query string)
}

// Coordinator fans one query out to every adapter concurrently and joins the
// results. One adapter failing never cancels the others.
type Coordinator struct {
	adapters []provider.Adapter
	recorder QueryRecorder
	metrics  *metrics.Collector
	logger   logging.Logger
}

func NewCoordinator(adapters []provider.Adapter, recorder QueryRecorder, m *metrics.Collector, logger logging.Logger) *Coordinator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Coordinator{
		adapters: adapters,
		recorder: recorder,
		metrics:  m,
		logger:   logger,
	}
}

func (c *Coordinator) Adapters() []provider.Adapter {
	return c.adapters
}

type outcome struct {
	hits    []model.Hit
	err     *model.ProviderError
	elapsed time.Duration
}

// Search records query once, calls every adapter with the same arguments and
// waits for all of them. Failed providers are returned as a side list and
// left out of the result set. Only when every adapter fails does Search
// return an error, a *model.AggregateError matching model.ErrAllProvidersFailed.
func (c *Coordinator) Search(ctx context.Context, query string, limitPerProvider int) (model.SearchResultSet, []*model.ProviderError, error) {
	if c.recorder != nil {
		c.recorder.RecordQuery(query)
	}

	// Each goroutine owns one slot, so nothing shared is written after Wait.
	outcomes := make([]outcome, len(c.adapters))

	var g errgroup.Group
	for i, a := range c.adapters {
		g.Go(func() error {
			start := time.Now()
			hits, err := a.Search(ctx, query, limitPerProvider)
			outcomes[i] = outcome{
				hits:    hits,
				err:     model.AsProviderError(a.Name(), err),
				elapsed: time.Since(start),
			}
			// Never fail the group: partial results are still results.
			return nil
		})
	}
	_ = g.Wait()

	set := model.NewSearchResultSet()
	var failures []*model.ProviderError
	for i, a := range c.adapters {
		o := outcomes[i]
		name := a.Name()
		if c.metrics != nil {
			var err error
			if o.err != nil {
				err = o.err
			}
			c.metrics.ObserveProvider(string(name), o.elapsed, err)
		}

		if o.err != nil {
			c.logger.WithFields(logging.Fields{
				"provider":   name,
				"kind":       o.err.Kind,
				"latency_ms": o.elapsed.Milliseconds(),
			}).WithError(o.err.Err).Warn("provider search failed")
			failures = append(failures, o.err)
			continue
		}

		hits := o.hits
		if hits == nil {
			hits = []model.Hit{}
		}
		set.Order = append(set.Order, name)
		set.ByProvider[name] = hits
		c.logger.WithFields(logging.Fields{
			"provider":   name,
			"hits":       len(hits),
			"latency_ms": o.elapsed.Milliseconds(),
		}).Debug("provider search completed")
	}

	if len(c.adapters) > 0 && len(failures) == len(c.adapters) {
		return set, failures, &model.AggregateError{Errors: failures}
	}
	return set, failures, nil
}
