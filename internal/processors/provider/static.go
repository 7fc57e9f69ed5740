package provider

import (
	"context"
	"fmt"

	"docpipe/internal/document"
)

// Static serves lookups from an in-memory table loaded at startup. The table
// is never mutated after construction, which makes it safe to share across
// pipeline runs; fetched entries are deep-copied so processors cannot write
// into it either.
type Static struct {
	table map[string]map[string]interface{}
}

func NewStatic(table map[string]map[string]interface{}) *Static {
	return &Static{table: table}
}

func (p *Static) Fetch(_ context.Context, key string) (map[string]interface{}, error) {
	entry, ok := p.table[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return document.DeepCopy(entry).(map[string]interface{}), nil
}
