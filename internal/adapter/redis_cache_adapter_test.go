package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"linguazone/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisCacheAdapterGet(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(client)
	ctx := context.Background()

	t.Run("returns the cached value", func(t *testing.T) {
		mock.ExpectGet("linguazone:question:detail:1").SetVal(`{"id":1}`)

		val, err := cache.Get(ctx, "linguazone:question:detail:1")
		assert.NoError(t, err)
		assert.Equal(t, `{"id":1}`, val)
	})

	t.Run("translates a miss to ErrCacheMiss", func(t *testing.T) {
		mock.ExpectGet("linguazone:question:detail:2").RedisNil()

		_, err := cache.Get(ctx, "linguazone:question:detail:2")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("passes other errors through", func(t *testing.T) {
		mock.ExpectGet("linguazone:question:detail:3").SetErr(errors.New("connection refused"))

		_, err := cache.Get(ctx, "linguazone:question:detail:3")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrCacheMiss)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapterSetAndDelete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(client)
	ctx := context.Background()

	mock.ExpectSet("linguazone:quiz:detail:5", `{"id":5}`, 10*time.Minute).SetVal("OK")
	mock.ExpectDel("linguazone:quiz:detail:5").SetVal(1)

	assert.NoError(t, cache.Set(ctx, "linguazone:quiz:detail:5", `{"id":5}`, 10*time.Minute))
	assert.NoError(t, cache.Delete(ctx, "linguazone:quiz:detail:5"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapterPing(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(client)

	mock.ExpectPing().SetVal("PONG")

	assert.NoError(t, cache.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
