package provider

import (
	"context"
	"fmt"

	"docpipe/pkg/circuitbreaker"
)

// CircuitBreakerProvider shields a provider behind a breaker so a failing
// backend stops being hammered by every pipeline run.
type CircuitBreakerProvider struct {
	provider Provider
	cb       *circuitbreaker.Wrapper
	name     string
}

func WithCircuitBreaker(p Provider, name string, cfg circuitbreaker.Config) *CircuitBreakerProvider {
	return &CircuitBreakerProvider{
		provider: p,
		cb:       circuitbreaker.NewWrapper(cfg),
		name:     name,
	}
}

func (p *CircuitBreakerProvider) Fetch(ctx context.Context, key string) (map[string]interface{}, error) {
	result, err := p.cb.ExecuteWithContext(ctx, func() (interface{}, error) {
		return p.provider.Fetch(ctx, key)
	})
	if err != nil {
		if p.cb.IsOpen() {
			return nil, fmt.Errorf("circuit breaker is open for %s: %w", p.name, err)
		}
		return nil, err
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("provider %s returned invalid result type", p.name)
	}
	return data, nil
}

func (p *CircuitBreakerProvider) IsOpen() bool {
	return p.cb.IsOpen()
}
