package provider

import (
	"context"
	"errors"
)

// ErrNotFound reports a lookup key the provider has no data for. It is a
// domain failure of the lookup, not a transport error, so decorators treat
// it as non-retryable.
var ErrNotFound = errors.New("lookup key not found")

// Provider fetches the enrichment record for a key. Providers are built once
// and shared across concurrent pipeline runs, so implementations must be
// safe for concurrent Fetch calls.
type Provider interface {
	Fetch(ctx context.Context, key string) (map[string]interface{}, error)
}
