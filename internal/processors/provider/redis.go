package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis fetches lookup records stored as JSON values under a key prefix.
// A value that is not valid JSON is surfaced as {"value": <raw>} so plain
// string tables keep working.
type Redis struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedis(client *redis.Client, keyPrefix string) *Redis {
	return &Redis{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (p *Redis) Fetch(ctx context.Context, key string) (map[string]interface{}, error) {
	redisKey := p.keyPrefix + key

	val, err := p.client.Get(ctx, redisKey).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, redisKey)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return map[string]interface{}{
			"value": val,
		}, nil
	}
	return result, nil
}
