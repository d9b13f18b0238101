package provider

import (
	"context"
	"errors"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/failsafe-go/failsafe-go/timeout"
	"golang.org/x/time/rate"

	"github.com/agenthands/metasearch/internal/core/model"
)

type ResilienceConfig struct {
	// Timeout bounds each attempt. Zero disables the timeout policy.
	Timeout time.Duration
	// MaxRetries applies to network and timeout failures only.
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	// RatePerSecond and Burst configure a token bucket in front of the
	// provider. RatePerSecond <= 0 disables limiting.
	RatePerSecond float64
	Burst         int
}

// Resilient decorates an Adapter with rate limiting, retries and a
// per-attempt timeout. Retries live here rather than in the fan-out so the
// coordinator sees exactly one outcome per provider.
type Resilient struct {
	inner    Adapter
	limiter  *rate.Limiter
	executor failsafe.Executor[[]model.Hit]
}

func NewResilient(inner Adapter, cfg ResilienceConfig) *Resilient {
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 100 * time.Millisecond
	}
	if cfg.MaxDelay < cfg.BaseDelay {
		cfg.MaxDelay = 2 * time.Second
	}

	var policies []failsafe.Policy[[]model.Hit]
	if cfg.MaxRetries > 0 {
		policies = append(policies, retrypolicy.NewBuilder[[]model.Hit]().
			WithBackoff(cfg.BaseDelay, cfg.MaxDelay).
			WithMaxRetries(cfg.MaxRetries).
			WithJitterFactor(0.1).
			HandleIf(func(_ []model.Hit, err error) bool {
				return isRetryable(err)
			}).
			ReturnLastFailure().
			Build())
	}
	if cfg.Timeout > 0 {
		policies = append(policies, timeout.New[[]model.Hit](cfg.Timeout))
	}

	r := &Resilient{
		inner:    inner,
		executor: failsafe.With(policies...),
	}
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}
	return r
}

func (r *Resilient) Name() model.Source { return r.inner.Name() }

func (r *Resilient) Search(ctx context.Context, query string, maxResults int) ([]model.Hit, error) {
	hits, err := r.executor.WithContext(ctx).GetWithExecution(func(exec failsafe.Execution[[]model.Hit]) ([]model.Hit, error) {
		if r.limiter != nil {
			if err := r.limiter.Wait(exec.Context()); err != nil {
				return nil, model.NewProviderError(r.inner.Name(), model.KindQuota, err)
			}
		}
		return r.inner.Search(exec.Context(), query, maxResults)
	})
	if err != nil {
		return nil, r.classify(err)
	}
	return hits, nil
}

func (r *Resilient) classify(err error) *model.ProviderError {
	if errors.Is(err, timeout.ErrExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return model.NewProviderError(r.inner.Name(), model.KindTimeout, err)
	}
	return model.AsProviderError(r.inner.Name(), err)
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, timeout.ErrExceeded) {
		return true
	}
	var pe *model.ProviderError
	if errors.As(err, &pe) {
		return pe.Kind == model.KindNetwork || pe.Kind == model.KindTimeout
	}
	return !errors.Is(err, context.Canceled)
}
