package offerqueue

import (
	"context"
	"strconv"
	"time"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

var _ ports.OfferQueue = (*RedisQueue)(nil)

const DefaultRedisKey = "pickupoint:offers"

// RedisQueue keeps offer expiries in a sorted set scored by expiry in unix
// milliseconds, so every API instance drains the same schedule.
type RedisQueue struct {
	client redis.UniversalClient
	key    string
}

func NewRedisQueue(client redis.UniversalClient, key string) *RedisQueue {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisQueue{client: client, key: key}
}

func (q *RedisQueue) Schedule(ctx context.Context, missionID kernel.UUID, at time.Time) error {
	return q.client.ZAdd(ctx, q.key, redis.Z{
		Score:  float64(at.UnixMilli()),
		Member: missionID.String(),
	}).Err()
}

// Due claims each member with ZREM; a member another instance removed first
// is skipped, so an expiry is handed out once.
func (q *RedisQueue) Due(ctx context.Context, now time.Time, limit int) ([]kernel.UUID, error) {
	var count int64
	if limit > 0 {
		count = int64(limit)
	}
	members, err := q.client.ZRangeByScore(ctx, q.key, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.UnixMilli(), 10),
		Count: count,
	}).Result()
	if err != nil {
		return nil, err
	}

	due := make([]kernel.UUID, 0, len(members))
	for _, member := range members {
		removed, err := q.client.ZRem(ctx, q.key, member).Result()
		if err != nil {
			return due, err
		}
		if removed == 0 {
			continue
		}
		id, err := kernel.UUIDFromString(member)
		if err != nil {
			continue
		}
		due = append(due, id)
	}
	return due, nil
}

func (q *RedisQueue) Cancel(ctx context.Context, missionID kernel.UUID) error {
	return q.client.ZRem(ctx, q.key, missionID.String()).Err()
}
