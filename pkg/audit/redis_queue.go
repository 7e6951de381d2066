package audit

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// RedisQueue pushes entries onto a Redis list, one list per deployment.
// Operators drain it with LPOP/LRANGE during recovery.
type RedisQueue struct {
	client *redis.Client
	key    string
}

func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	return &RedisQueue{client: client, key: key}
}

func (q *RedisQueue) Enqueue(ctx context.Context, e Entry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return q.client.RPush(ctx, q.key, raw).Err()
}
