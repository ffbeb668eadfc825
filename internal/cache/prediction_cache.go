package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"nba-insights-go/internal/types"
)

// Default TTL when no prediction in the set carries an expiry.
const defaultTTL = 15 * time.Minute

// Floor so a prediction expiring imminently still caches for one request burst.
const minTTL = time.Minute

// PredictionCache keeps a contact's ranked predictions between requests.
// Ephemeral serving-layer state only; a miss just means re-scoring.
type PredictionCache interface {
	Get(ctx context.Context, projectID, contactID string) ([]types.Prediction, error)
	Set(ctx context.Context, projectID, contactID string, preds []types.Prediction, now time.Time) error
	Invalidate(ctx context.Context, projectID, contactID string) error
}

type predictionCache struct {
	client *redis.Client
}

// New creates a prediction cache over a redis client.
func New(client *redis.Client) PredictionCache {
	return &predictionCache{client: client}
}

func (c *predictionCache) key(projectID, contactID string) string {
	return fmt.Sprintf("nba:%s:%s", projectID, contactID)
}

// Get returns the cached predictions, or (nil, nil) on a miss.
func (c *predictionCache) Get(ctx context.Context, projectID, contactID string) ([]types.Prediction, error) {
	data, err := c.client.Get(ctx, c.key(projectID, contactID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var preds []types.Prediction
	if err := json.Unmarshal([]byte(data), &preds); err != nil {
		return nil, err
	}
	return preds, nil
}

func (c *predictionCache) Set(ctx context.Context, projectID, contactID string, preds []types.Prediction, now time.Time) error {
	data, err := json.Marshal(preds)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(projectID, contactID), data, TTLFor(preds, now)).Err()
}

func (c *predictionCache) Invalidate(ctx context.Context, projectID, contactID string) error {
	return c.client.Del(ctx, c.key(projectID, contactID)).Err()
}

// TTLFor derives the cache TTL from the earliest prediction expiry, floored
// at minTTL so imminent expiries still cache briefly.
func TTLFor(preds []types.Prediction, now time.Time) time.Duration {
	ttl := defaultTTL
	for i := range preds {
		if exp := preds[i].ExpiresAt; exp != nil {
			if d := exp.Sub(now); d < ttl {
				ttl = d
			}
		}
	}
	if ttl < minTTL {
		ttl = minTTL
	}
	return ttl
}
