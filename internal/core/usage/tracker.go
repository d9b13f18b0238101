// Package usage keeps process-lifetime query and click counters and a naive
// recommender over the queries seen so far.
package usage

import (
	"sort"
	"strings"
	"sync"

	"github.com/agenthands/metasearch/internal/core/model"
)

// counter is an insertion-ordered string counter. It is not safe for
// concurrent use on its own.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) inc(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// top returns up to k entries by descending count, ties in first-seen order.
// k <= 0 returns every entry.
func (c *counter) top(k int) []model.Count {
	out := make([]model.Count, len(c.order))
	for i, key := range c.order {
		out[i] = model.Count{Key: key, Count: c.counts[key]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

type Tracker struct {
	mu      sync.RWMutex
	queries *counter
	clicks  *counter
}

func NewTracker() *Tracker {
	return &Tracker{
		queries: newCounter(),
		clicks:  newCounter(),
	}
}

func (t *Tracker) RecordQuery(query string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.queries.inc(query)
}

func (t *Tracker) RecordClick(url string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clicks.inc(url)
}

// Trending returns the topK most frequent queries.
func (t *Tracker) Trending(topK int) []string {
	counts := t.TrendingCounts(topK)
	out := make([]string, len(counts))
	for i, c := range counts {
		out[i] = c.Key
	}
	return out
}

func (t *Tracker) TrendingCounts(topK int) []model.Count {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.queries.top(topK)
}

func (t *Tracker) MostClicked(topK int) []model.Count {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.clicks.top(topK)
}

func (t *Tracker) QueryCount(query string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.queries.counts[query]
}

func (t *Tracker) ClickCount(url string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.clicks.counts[url]
}

// Recommend returns up to topK previously tracked queries that contain any
// lowercased whitespace token of query as a substring. Tracked queries are
// matched as stored, the exact input is excluded, and results come back in
// first-seen order.
func (t *Tracker) Recommend(query string, topK int) []string {
	tokens := strings.Fields(strings.ToLower(query))
	recs := []string{}
	if len(tokens) == 0 || topK <= 0 {
		return recs
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, k := range t.queries.order {
		if k == query {
			continue
		}
		for _, tok := range tokens {
			if strings.Contains(k, tok) {
				recs = append(recs, k)
				break
			}
		}
		if len(recs) == topK {
			break
		}
	}
	return recs
}
