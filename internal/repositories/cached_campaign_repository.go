package repositories

import (
	"context"
	"log"

	"github.com/white/campaign-manager/internal/models"
	"github.com/white/campaign-manager/pkg/uuid"
)

// CampaignCache is the read cache in front of a CampaignRepository
type CampaignCache interface {
	Get(ctx context.Context, id string) (*models.Campaign, bool, error)
	Set(ctx context.Context, campaign *models.Campaign) error
	Invalidate(ctx context.Context, id string) error
	MarkDeleted(ctx context.Context, id string) error
	IsDeleted(ctx context.Context, id string) (bool, error)
}

// CachedCampaignRepository serves GetVisible from a cache and keeps the cache
// honest on writes. Cache failures are logged and the underlying store answers.
type CachedCampaignRepository struct {
	next  CampaignRepository
	cache CampaignCache
}

// NewCachedCampaignRepository wraps next with cache
func NewCachedCampaignRepository(next CampaignRepository, cache CampaignCache) *CachedCampaignRepository {
	return &CachedCampaignRepository{next: next, cache: cache}
}

// ListVisible always reads from the store
func (r *CachedCampaignRepository) ListVisible(ctx context.Context) ([]*models.Campaign, error) {
	return r.next.ListVisible(ctx)
}

// GetVisible checks the tombstone, then the cache, then the store.
// Ids that are not UUIDs never reach the cache.
func (r *CachedCampaignRepository) GetVisible(ctx context.Context, id string) (*models.Campaign, error) {
	if uuid.ValidateUUID(id) != nil {
		return r.next.GetVisible(ctx, id)
	}

	deleted, err := r.cache.IsDeleted(ctx, id)
	if err != nil {
		log.Printf("Campaign cache tombstone lookup failed for %s: %v", id, err)
		return r.next.GetVisible(ctx, id)
	}
	if deleted {
		return nil, ErrCampaignNotFound
	}

	cached, found, err := r.cache.Get(ctx, id)
	if err != nil {
		log.Printf("Campaign cache read failed for %s: %v", id, err)
	}
	if found && cached.IsVisible() {
		return cached, nil
	}

	campaign, err := r.next.GetVisible(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, campaign); err != nil {
		log.Printf("Failed to cache campaign %s: %v", id, err)
	}
	return campaign, nil
}

// Create writes through to the store and caches the result
func (r *CachedCampaignRepository) Create(ctx context.Context, fields models.NewCampaign) (*models.Campaign, error) {
	campaign, err := r.next.Create(ctx, fields)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, campaign); err != nil {
		log.Printf("Failed to cache campaign %s: %v", campaign.ID, err)
	}
	return campaign, nil
}

// UpdateVisible updates the store and writes the result through to the cache.
// If the write-through fails the cached copy is dropped instead.
func (r *CachedCampaignRepository) UpdateVisible(ctx context.Context, id string, update models.CampaignUpdate) (*models.Campaign, error) {
	campaign, err := r.next.UpdateVisible(ctx, id, update)
	if err != nil {
		return nil, err
	}

	cacheCtx := context.WithoutCancel(ctx)
	if err := r.cache.Set(cacheCtx, campaign); err != nil {
		log.Printf("Failed to cache updated campaign %s: %v", id, err)
		if err := r.cache.Invalidate(cacheCtx, id); err != nil {
			log.Printf("Failed to invalidate cached campaign %s: %v", id, err)
		}
	}
	return campaign, nil
}

// SoftDelete deletes in the store and writes the tombstone
func (r *CachedCampaignRepository) SoftDelete(ctx context.Context, id string) (*models.Campaign, error) {
	campaign, err := r.next.SoftDelete(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.cache.MarkDeleted(context.WithoutCancel(ctx), id); err != nil {
		log.Printf("Failed to tombstone campaign %s: %v", id, err)
	}
	return campaign, nil
}

// EnsureIndexes delegates to the store
func (r *CachedCampaignRepository) EnsureIndexes(ctx context.Context) error {
	return r.next.EnsureIndexes(ctx)
}
