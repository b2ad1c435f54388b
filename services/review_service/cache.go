package review_service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/joy095/fixitnow/logger"
	"github.com/joy095/fixitnow/models/review_models"
	"github.com/redis/go-redis/v9"
)

// SummaryCache holds provider rating aggregates between writes. Cache
// failures never fail a request; they only cost a recomputation.
type SummaryCache interface {
	Get(ctx context.Context, providerID uuid.UUID) (review_models.Summary, bool)
	Set(ctx context.Context, s review_models.Summary)
	Invalidate(ctx context.Context, providerID uuid.UUID)
}

const summaryKeyPrefix = "review_summary:"

type RedisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSummaryCache(client *redis.Client, ttl time.Duration) *RedisSummaryCache {
	return &RedisSummaryCache{client: client, ttl: ttl}
}

func summaryKey(providerID uuid.UUID) string {
	return summaryKeyPrefix + providerID.String()
}

func (c *RedisSummaryCache) Get(ctx context.Context, providerID uuid.UUID) (review_models.Summary, bool) {
	raw, err := c.client.Get(ctx, summaryKey(providerID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.WarnLogger.Warnf("Review summary cache read failed for %s: %v", providerID, err)
		}
		return review_models.Summary{}, false
	}
	var s review_models.Summary
	if err := json.Unmarshal(raw, &s); err != nil {
		logger.WarnLogger.Warnf("Discarding corrupt review summary for %s: %v", providerID, err)
		return review_models.Summary{}, false
	}
	return s, true
}

func (c *RedisSummaryCache) Set(ctx context.Context, s review_models.Summary) {
	raw, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, summaryKey(s.ProviderID), raw, c.ttl).Err(); err != nil {
		logger.WarnLogger.Warnf("Review summary cache write failed for %s: %v", s.ProviderID, err)
	}
}

func (c *RedisSummaryCache) Invalidate(ctx context.Context, providerID uuid.UUID) {
	if err := c.client.Del(ctx, summaryKey(providerID)).Err(); err != nil {
		logger.WarnLogger.Warnf("Review summary cache delete failed for %s: %v", providerID, err)
	}
}

// NoCache always misses.
type NoCache struct{}

func (NoCache) Get(context.Context, uuid.UUID) (review_models.Summary, bool) {
	return review_models.Summary{}, false
}

func (NoCache) Set(context.Context, review_models.Summary) {}

func (NoCache) Invalidate(context.Context, uuid.UUID) {}
