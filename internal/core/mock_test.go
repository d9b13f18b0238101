package core

import (
	"context"
	"sync"
	"time"

	"github.com/agenthands/metasearch/internal/core/model"
)

type MockAdapter struct {
	Source model.Source
	Hits   []model.Hit
	Err    error
	Delay  time.Duration

	mu        sync.Mutex
	Calls     int
	LastQuery string
	LastLimit int
}

func (m *MockAdapter) Name() model.Source { return m.Source }

func (m *MockAdapter) Search(ctx context.Context, query string, maxResults int) ([]model.Hit, error) {
	m.mu.Lock()
	m.Calls++
	m.LastQuery = query
	m.LastLimit = maxResults
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Hits, nil
}

type MockRecorder struct {
	mu      sync.Mutex
	Queries []string
}

func (m *MockRecorder) RecordQuery(query string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queries = append(m.Queries, query)
}

func hit(src model.Source, title, snippet, url string) model.Hit {
	return model.Hit{Source: src, Title: title, Snippet: snippet, URL: url}
}
