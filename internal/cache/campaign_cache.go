package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/white/campaign-manager/internal/models"
)

// DefaultCampaignTTL is how long a campaign stays cached when no TTL is configured
const DefaultCampaignTTL = 60 * time.Second

// CampaignCache provides Redis caching for visible campaigns.
// Deleted campaigns get a tombstone that never expires: DELETED is terminal,
// so once written the tombstone stays correct forever.
type CampaignCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCampaignCache creates a new campaign cache
func NewCampaignCache(client *redis.Client, ttl time.Duration) *CampaignCache {
	if ttl <= 0 {
		ttl = DefaultCampaignTTL
	}
	return &CampaignCache{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves a campaign from cache.
// found is false on a cache miss.
func (c *CampaignCache) Get(ctx context.Context, id string) (campaign *models.Campaign, found bool, err error) {
	val, err := c.client.Get(ctx, c.buildKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis error: %w", err)
	}

	var cached models.Campaign
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		return nil, false, fmt.Errorf("failed to deserialize campaign: %w", err)
	}

	return &cached, true, nil
}

// setAttempts bounds optimistic retries when another writer touches the key
const setAttempts = 3

// Set stores a campaign in cache with TTL. An entry with a newer updatedAt is
// kept, so a slow reader cannot overwrite the copy written by an update.
func (c *CampaignCache) Set(ctx context.Context, campaign *models.Campaign) error {
	data, err := json.Marshal(campaign)
	if err != nil {
		return fmt.Errorf("failed to serialize campaign: %w", err)
	}

	key := c.buildKey(campaign.ID)
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if err == nil && !supersedes(current, campaign) {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < setAttempts; i++ {
		err = c.client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// supersedes reports whether incoming may replace the cached JSON
func supersedes(current string, incoming *models.Campaign) bool {
	var cached models.Campaign
	if err := json.Unmarshal([]byte(current), &cached); err != nil {
		return true
	}
	return !cached.UpdatedAt.After(incoming.UpdatedAt)
}

// Invalidate removes a campaign from cache
func (c *CampaignCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, c.buildKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

// MarkDeleted writes the tombstone and drops the cached copy in one round trip
func (c *CampaignCache) MarkDeleted(ctx context.Context, id string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, c.buildTombstoneKey(id), "1", 0)
		pipe.Del(ctx, c.buildKey(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write tombstone: %w", err)
	}
	return nil
}

// IsDeleted reports whether a tombstone exists for id
func (c *CampaignCache) IsDeleted(ctx context.Context, id string) (bool, error) {
	n, err := c.client.Exists(ctx, c.buildTombstoneKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("redis error: %w", err)
	}
	return n > 0, nil
}

// Ping checks the Redis connection
func (c *CampaignCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// buildKey creates the Redis key for a campaign
// Format: campaign:{id}
func (c *CampaignCache) buildKey(id string) string {
	return fmt.Sprintf("campaign:%s", id)
}

// buildTombstoneKey creates the Redis key marking a deleted campaign
// Format: campaign:{id}:deleted
func (c *CampaignCache) buildTombstoneKey(id string) string {
	return fmt.Sprintf("campaign:%s:deleted", id)
}
