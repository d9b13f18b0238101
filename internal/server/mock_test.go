package server

import (
	"context"

	"github.com/agenthands/metasearch/internal/core/model"
)

type MockAdapter struct {
	Source model.Source
	Hits   []model.Hit
	Err    error

	LastLimit int
}

func (m *MockAdapter) Name() model.Source { return m.Source }

func (m *MockAdapter) Search(ctx context.Context, query string, maxResults int) ([]model.Hit, error) {
	m.LastLimit = maxResults
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Hits, nil
}
