package cache

import (
	"context"
	"encoding/json"
	"time"
)

// GetJSON decodes a cached JSON value into dst. Misses and decode failures
// both report false.
func GetJSON(ctx context.Context, c Cache, key string, dst interface{}) bool {
	raw, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func SetJSON(ctx context.Context, c Cache, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, raw, ttl)
}
