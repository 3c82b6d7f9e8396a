package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/product-catalog-service/internal/config"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRateLimiter(t *testing.T, now time.Time) (*redisRepository, redismock.ClientMock) {
	t.Helper()

	client, mock := redismock.NewClientMock()
	cfg := &config.RateConfig{MaxRequests: 2, WindowSize: time.Minute}

	repo := &redisRepository{client: client, cfg: cfg, now: func() time.Time { return now }}

	return repo, mock
}

func expectWindow(mock redismock.ClientMock, key string, now time.Time, window time.Duration, count int64) {
	mock.ExpectZRemRangeByScore(key, "0", fmt.Sprintf("%d", now.Add(-window).UnixNano())).SetVal(0)
	mock.ExpectZAdd(key, redis.Z{Score: float64(now.UnixNano()), Member: now.UnixNano()}).SetVal(1)
	mock.ExpectZCard(key).SetVal(count)
	mock.ExpectExpire(key, window).SetVal(true)
}

func TestCheckRateLimit(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 30, 0, time.UTC)
	key := rateLimitKey("10.0.0.1")

	t.Run("Success - Under Limit", func(t *testing.T) {
		repo, mock := setupRateLimiter(t, now)
		expectWindow(mock, key, now, time.Minute, 1)

		allowed, remaining, retryAfter, err := repo.CheckRateLimit(t.Context(), "10.0.0.1")

		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, 1, remaining)
		assert.Zero(t, retryAfter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Over Limit", func(t *testing.T) {
		repo, mock := setupRateLimiter(t, now)
		expectWindow(mock, key, now, time.Minute, 3)

		oldest := now.Add(-20 * time.Second)
		mock.ExpectZRangeArgsWithScores(redis.ZRangeArgs{Key: key, Start: 0, Stop: 0}).
			SetVal([]redis.Z{{Score: float64(oldest.UnixNano()), Member: fmt.Sprint(oldest.UnixNano())}})

		allowed, remaining, retryAfter, err := repo.CheckRateLimit(t.Context(), "10.0.0.1")

		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Zero(t, remaining)
		assert.Equal(t, 40, retryAfter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Over Limit Without Oldest Entry", func(t *testing.T) {
		repo, mock := setupRateLimiter(t, now)
		expectWindow(mock, key, now, time.Minute, 3)
		mock.ExpectZRangeArgsWithScores(redis.ZRangeArgs{Key: key, Start: 0, Stop: 0}).
			SetErr(errors.New("connection reset"))

		allowed, remaining, retryAfter, err := repo.CheckRateLimit(t.Context(), "10.0.0.1")

		require.NoError(t, err, "an over-limit decision must not be reported as a limiter failure")
		assert.False(t, allowed)
		assert.Zero(t, remaining)
		assert.Equal(t, 60, retryAfter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Pipeline Error", func(t *testing.T) {
		repo, mock := setupRateLimiter(t, now)
		mock.ExpectZRemRangeByScore(key, "0", fmt.Sprintf("%d", now.Add(-time.Minute).UnixNano())).
			SetErr(errors.New("connection refused"))

		allowed, _, _, err := repo.CheckRateLimit(t.Context(), "10.0.0.1")

		require.Error(t, err)
		assert.False(t, allowed)
		assert.Contains(t, err.Error(), "redis pipeline error")
	})
}
