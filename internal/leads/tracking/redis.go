package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisReserver claims codes with SETNX so concurrent API processes do not
// hand out the same code in the same year.
type RedisReserver struct {
	client *redis.Client
	prefix string
}

func NewRedisReserver(client *redis.Client) *RedisReserver {
	return &RedisReserver{client: client, prefix: "tracking-code"}
}

// Reserve returns false when the code was already claimed this year. Keys
// expire a few days after the year ends.
func (r *RedisReserver) Reserve(ctx context.Context, code string, year int) (bool, error) {
	key := fmt.Sprintf("%s:%d:%s", r.prefix, year, code)
	ttl := time.Until(time.Date(year+1, time.January, 8, 0, 0, 0, 0, time.UTC))
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	ok, err := r.client.SetNX(ctx, key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("reserve tracking code: %w", err)
	}
	return ok, nil
}
