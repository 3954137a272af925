package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"callpulse/internal/model"
)

// ScoreCache holds the dashboard read-side: the latest score summary per
// external call and rolling per-day band counters. Best effort; the mongo
// rows remain the source of truth.
type ScoreCache interface {
	SetLatest(ctx context.Context, summary *model.ScoreSummary) error
	GetLatest(ctx context.Context, externalCallID string) (*model.ScoreSummary, error)
	IncrementBand(ctx context.Context, band string, day time.Time) error
	GetBandCounts(ctx context.Context, day time.Time) (map[string]int64, error)
}

type scoreCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewScoreCache creates a new score cache.
func NewScoreCache(client *redis.Client) ScoreCache {
	return &scoreCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *scoreCache) latestKey(externalCallID string) string {
	return fmt.Sprintf("call:%s:latest_score", externalCallID)
}

func (c *scoreCache) bandKey(day time.Time, band string) string {
	return fmt.Sprintf("bands:%s:%s", day.UTC().Format("2006-01-02"), band)
}

func (c *scoreCache) SetLatest(ctx context.Context, summary *model.ScoreSummary) error {
	if summary.ExternalCallID == "" {
		return nil
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.latestKey(summary.ExternalCallID), data, c.ttl).Err()
}

func (c *scoreCache) GetLatest(ctx context.Context, externalCallID string) (*model.ScoreSummary, error) {
	data, err := c.client.Get(ctx, c.latestKey(externalCallID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var summary model.ScoreSummary
	if err := json.Unmarshal([]byte(data), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *scoreCache) IncrementBand(ctx context.Context, band string, day time.Time) error {
	key := c.bandKey(day, band)
	if err := c.client.Incr(ctx, key).Err(); err != nil {
		return err
	}
	return c.client.Expire(ctx, key, 48*time.Hour).Err()
}

func (c *scoreCache) GetBandCounts(ctx context.Context, day time.Time) (map[string]int64, error) {
	bands := []string{model.BandTop, model.BandHigh, model.BandMid, model.BandLow, model.BandBottom}

	keys := make([]string, len(bands))
	for i, b := range bands {
		keys[i] = c.bandKey(day, b)
	}

	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(bands))
	for i, v := range vals {
		var n int64
		if s, ok := v.(string); ok {
			if parsed, err := strconv.ParseInt(s, 10, 64); err == nil {
				n = parsed
			}
		}
		counts[bands[i]] = n
	}
	return counts, nil
}
