package db

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	reportKeyPrefix = "finreport:report:"
	reportCacheTTL  = 5 * time.Minute
)

// ReportCache holds rendered report lookups between runs. Stored reports only
// change when the reporter revises a span, so a short TTL plus explicit
// invalidation after a write keeps reads fresh.
type ReportCache struct {
	client *redis.Client
}

func ConnectCache(redisURL string) (*ReportCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opt)

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}

	return &ReportCache{client: client}, nil
}

func ReportCacheKey(beginDate, endDate time.Time) string {
	return reportKeyPrefix + beginDate.Format("2006-01-02") + ":" + endDate.Format("2006-01-02")
}

func (c *ReportCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *ReportCache) Set(ctx context.Context, key, value string) {
	if err := c.client.Set(ctx, key, value, reportCacheTTL).Err(); err != nil {
		slog.Warn("report cache set failed", "key", key, "error", err)
	}
}

func (c *ReportCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		slog.Warn("report cache delete failed", "key", key, "error", err)
	}
}

func (c *ReportCache) Close() {
	c.client.Close()
}
