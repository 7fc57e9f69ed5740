package provider

import (
	"context"
	"errors"

	"docpipe/pkg/retry"
)

// RetryProvider retries transient fetch failures with exponential backoff.
// A missing key is a final answer, not a transient failure, so ErrNotFound
// is never retried.
type RetryProvider struct {
	provider Provider
	policy   retry.Policy
}

func WithRetry(p Provider, policy retry.Policy) *RetryProvider {
	return &RetryProvider{
		provider: p,
		policy:   policy,
	}
}

func (p *RetryProvider) Fetch(ctx context.Context, key string) (map[string]interface{}, error) {
	var result map[string]interface{}
	err := retry.Retry(ctx, p.policy, func() error {
		data, err := p.provider.Fetch(ctx, key)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return retry.NewFatalError(err)
			}
			return err
		}
		result = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
