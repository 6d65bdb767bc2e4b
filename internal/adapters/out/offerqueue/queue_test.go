package offerqueue_test

import (
	"context"
	"testing"
	"time"

	"pickupoint/internal/adapters/out/offerqueue"
	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/ports"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

func queues(t *testing.T) map[string]ports.OfferQueue {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return map[string]ports.OfferQueue{
		"memory": offerqueue.NewMemoryQueue(),
		"redis":  offerqueue.NewRedisQueue(client, ""),
	}
}

func Test_OfferQueue_DueReturnsExpiredInOrder(t *testing.T) {
	for name, q := range queues(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			first, second, later := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
			require.NoError(t, q.Schedule(ctx, second, now.Add(-time.Second)))
			require.NoError(t, q.Schedule(ctx, first, now.Add(-time.Minute)))
			require.NoError(t, q.Schedule(ctx, later, now.Add(time.Minute)))

			due, err := q.Due(ctx, now, 10)
			require.NoError(t, err)
			assert.Equal(t, []kernel.UUID{first, second}, due)

			again, err := q.Due(ctx, now, 10)
			require.NoError(t, err)
			assert.Empty(t, again)

			due, err = q.Due(ctx, now.Add(2*time.Minute), 10)
			require.NoError(t, err)
			assert.Equal(t, []kernel.UUID{later}, due)
		})
	}
}

func Test_OfferQueue_RescheduleReplacesExpiry(t *testing.T) {
	for name, q := range queues(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			id := kernel.NewUUID()
			require.NoError(t, q.Schedule(ctx, id, now.Add(-time.Second)))
			require.NoError(t, q.Schedule(ctx, id, now.Add(30*time.Second)))

			due, err := q.Due(ctx, now, 10)
			require.NoError(t, err)
			assert.Empty(t, due)

			due, err = q.Due(ctx, now.Add(30*time.Second), 10)
			require.NoError(t, err)
			assert.Equal(t, []kernel.UUID{id}, due)
		})
	}
}

func Test_OfferQueue_CancelAndLimit(t *testing.T) {
	for name, q := range queues(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			a, b, c := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
			require.NoError(t, q.Schedule(ctx, a, now.Add(-3*time.Second)))
			require.NoError(t, q.Schedule(ctx, b, now.Add(-2*time.Second)))
			require.NoError(t, q.Schedule(ctx, c, now.Add(-time.Second)))
			require.NoError(t, q.Cancel(ctx, b))
			require.NoError(t, q.Cancel(ctx, kernel.NewUUID()))

			due, err := q.Due(ctx, now, 1)
			require.NoError(t, err)
			assert.Equal(t, []kernel.UUID{a}, due)

			due, err = q.Due(ctx, now, 1)
			require.NoError(t, err)
			assert.Equal(t, []kernel.UUID{c}, due)
		})
	}
}

func Test_RedisQueue_SharedAcrossInstances(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx := context.Background()

	producer := offerqueue.NewRedisQueue(client, "offers")
	consumer := offerqueue.NewRedisQueue(client, "offers")
	id := kernel.NewUUID()
	require.NoError(t, producer.Schedule(ctx, id, now))

	due, err := consumer.Due(ctx, now, 0)
	require.NoError(t, err)
	assert.Equal(t, []kernel.UUID{id}, due)

	due, err = producer.Due(ctx, now, 0)
	require.NoError(t, err)
	assert.Empty(t, due)
	assert.False(t, mr.Exists("offers"))
}
