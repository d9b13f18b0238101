package provider

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/metasearch/internal/core/model"
)

type scriptedAdapter struct {
	calls atomic.Int32
	errs  []error
	hits  []model.Hit
	block bool
}

func (s *scriptedAdapter) Name() model.Source { return "Scripted" }

func (s *scriptedAdapter) Search(ctx context.Context, query string, maxResults int) ([]model.Hit, error) {
	n := int(s.calls.Add(1)) - 1
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if n < len(s.errs) && s.errs[n] != nil {
		return nil, s.errs[n]
	}
	return s.hits, nil
}

func TestResilient_RetriesNetworkErrors(t *testing.T) {
	inner := &scriptedAdapter{
		errs: []error{model.NewProviderError("Scripted", model.KindNetwork, errors.New("connection reset"))},
		hits: []model.Hit{{Source: "Scripted", URL: "https://ok"}},
	}
	r := NewResilient(inner, ResilienceConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond})

	hits, err := r.Search(context.Background(), "q", 1)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestResilient_DoesNotRetryAuth(t *testing.T) {
	inner := &scriptedAdapter{
		errs: []error{
			model.NewProviderError("Scripted", model.KindAuth, errors.New("bad key")),
			nil,
		},
	}
	r := NewResilient(inner, ResilienceConfig{MaxRetries: 3, BaseDelay: time.Millisecond})

	_, err := r.Search(context.Background(), "q", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrAuth))
	assert.Equal(t, int32(1), inner.calls.Load())
}

func TestResilient_TimeoutPerAttempt(t *testing.T) {
	inner := &scriptedAdapter{block: true}
	r := NewResilient(inner, ResilienceConfig{Timeout: 20 * time.Millisecond})

	start := time.Now()
	_, err := r.Search(context.Background(), "q", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrTimeout), err.Error())
	assert.Less(t, time.Since(start), 2*time.Second)

	var pe *model.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, model.Source("Scripted"), pe.Provider)
}

func TestResilient_PassThrough(t *testing.T) {
	inner := &scriptedAdapter{hits: []model.Hit{{URL: "a"}, {URL: "b"}}}
	r := NewResilient(inner, ResilienceConfig{})

	hits, err := r.Search(context.Background(), "q", 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
	assert.Equal(t, model.Source("Scripted"), r.Name())
}

func TestResilient_UnclassifiedErrorBecomesProviderError(t *testing.T) {
	inner := &scriptedAdapter{errs: []error{errors.New("weird")}}
	r := NewResilient(inner, ResilienceConfig{})

	_, err := r.Search(context.Background(), "q", 1)
	var pe *model.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, model.KindNetwork, pe.Kind)
}
