package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	dashboardStatsKey     = "report:dashboard"
	todayCheckInKeyPrefix = "checkins:today:"
)

// ErrCacheMiss reports a key that is absent or expired.
var ErrCacheMiss = fmt.Errorf("cache miss")

// RedisCacheRepository is a best-effort read cache over report and
// today's-check-in queries. It is never consulted for invariant checks;
// the store stays authoritative, and every relevant mutation
// invalidates the affected keys.
type RedisCacheRepository struct {
	client *redis.Client
}

// NewRedisCacheRepository creates a new Redis cache repository
func NewRedisCacheRepository(client *redis.Client) *RedisCacheRepository {
	return &RedisCacheRepository{client: client}
}

// Get retrieves a value from cache by key with OTel tracing
func (r *RedisCacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	tracer := otel.Tracer("redis")
	ctx, span := tracer.Start(ctx, "redis.Get",
		trace.WithAttributes(attribute.String("cache.key", key)),
	)
	defer span.End()

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			span.SetAttributes(attribute.String("cache.result", "miss"))
			return ErrCacheMiss
		}
		span.RecordError(err)
		return fmt.Errorf("redis get error: %w", err)
	}

	span.SetAttributes(attribute.String("cache.result", "hit"))
	if err := json.Unmarshal(data, dest); err != nil {
		span.RecordError(err)
		return fmt.Errorf("unmarshal error: %w", err)
	}

	return nil
}

// Set stores a value in cache with TTL and OTel tracing
func (r *RedisCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	tracer := otel.Tracer("redis")
	ctx, span := tracer.Start(ctx, "redis.Set",
		trace.WithAttributes(
			attribute.String("cache.key", key),
			attribute.Int64("cache.ttl_seconds", int64(ttl.Seconds())),
		),
	)
	defer span.End()

	data, err := json.Marshal(value)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("marshal error: %w", err)
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis set error: %w", err)
	}

	return nil
}

// Delete removes keys from cache with OTel tracing
func (r *RedisCacheRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	tracer := otel.Tracer("redis")
	ctx, span := tracer.Start(ctx, "redis.Delete",
		trace.WithAttributes(attribute.Int("cache.key_count", len(keys))),
	)
	defer span.End()

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis delete error: %w", err)
	}

	return nil
}

// SetDashboardStats caches the dashboard rollup
func (r *RedisCacheRepository) SetDashboardStats(ctx context.Context, data interface{}, ttl time.Duration) error {
	return r.Set(ctx, dashboardStatsKey, data, ttl)
}

// GetDashboardStats retrieves the cached dashboard rollup
func (r *RedisCacheRepository) GetDashboardStats(ctx context.Context, dest interface{}) error {
	return r.Get(ctx, dashboardStatsKey, dest)
}

// SetTodayCheckIns caches the check-in list for a calendar day
func (r *RedisCacheRepository) SetTodayCheckIns(ctx context.Context, date string, data interface{}, ttl time.Duration) error {
	return r.Set(ctx, todayCheckInKeyPrefix+date, data, ttl)
}

// GetTodayCheckIns retrieves the cached check-in list for a day
func (r *RedisCacheRepository) GetTodayCheckIns(ctx context.Context, date string, dest interface{}) error {
	return r.Get(ctx, todayCheckInKeyPrefix+date, dest)
}

// InvalidateCheckInDay drops the cached list for a day along with the
// dashboard rollup; called after every check-in mutation.
func (r *RedisCacheRepository) InvalidateCheckInDay(ctx context.Context, date string) error {
	return r.Delete(ctx, todayCheckInKeyPrefix+date, dashboardStatsKey)
}

// InvalidateReports drops the dashboard rollup; called after member,
// membership and payment mutations.
func (r *RedisCacheRepository) InvalidateReports(ctx context.Context) error {
	return r.Delete(ctx, dashboardStatsKey)
}
