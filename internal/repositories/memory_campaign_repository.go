package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/white/campaign-manager/internal/models"
	"github.com/white/campaign-manager/pkg/uuid"
)

// MemoryCampaignRepository keeps campaigns in process memory.
// It is used when storage.driver is "memory" and in tests.
type MemoryCampaignRepository struct {
	mu        sync.Mutex
	campaigns map[string]*models.Campaign
	order     []string
	now       func() time.Time
}

// NewMemoryCampaignRepository creates an empty in-memory store
func NewMemoryCampaignRepository() *MemoryCampaignRepository {
	return &MemoryCampaignRepository{
		campaigns: make(map[string]*models.Campaign),
		now:       storeNow,
	}
}

// ListVisible returns visible campaigns in insertion order
func (r *MemoryCampaignRepository) ListVisible(ctx context.Context) ([]*models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	campaigns := make([]*models.Campaign, 0, len(r.order))
	for _, id := range r.order {
		if c := r.campaigns[id]; c.IsVisible() {
			campaigns = append(campaigns, c.Clone())
		}
	}
	return campaigns, nil
}

// GetVisible returns a copy of a visible campaign
func (r *MemoryCampaignRepository) GetVisible(ctx context.Context, id string) (*models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.visible(id)
	if err != nil {
		return nil, err
	}
	return c.Clone(), nil
}

// Create validates and stores a new campaign
func (r *MemoryCampaignRepository) Create(ctx context.Context, fields models.NewCampaign) (*models.Campaign, error) {
	fields, err := normalizeNewCampaign(fields)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewUUID()
	if err != nil {
		return nil, fmt.Errorf("error assigning campaign ID: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	c := &models.Campaign{
		ID:          id,
		Name:        fields.Name,
		Description: fields.Description,
		Status:      fields.Status,
		Leads:       fields.Leads,
		AccountIDs:  fields.AccountIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.campaigns[id] = c
	r.order = append(r.order, id)

	return c.Clone(), nil
}

// UpdateVisible applies the supplied fields under the store lock
func (r *MemoryCampaignRepository) UpdateVisible(ctx context.Context, id string, update models.CampaignUpdate) (*models.Campaign, error) {
	update, err := normalizeCampaignUpdate(update)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.visible(id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		c.Name = *update.Name
	}
	if update.Description != nil {
		c.Description = *update.Description
	}
	if update.Status != nil {
		c.Status = *update.Status
	}
	if update.Leads != nil {
		c.Leads = *update.Leads
	}
	if update.AccountIDs != nil {
		c.AccountIDs = *update.AccountIDs
	}
	c.UpdatedAt = r.now()

	return c.Clone(), nil
}

// SoftDelete marks a visible campaign as DELETED
func (r *MemoryCampaignRepository) SoftDelete(ctx context.Context, id string) (*models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.visible(id)
	if err != nil {
		return nil, err
	}
	c.Status = models.CampaignStatusDeleted
	c.UpdatedAt = r.now()

	return c.Clone(), nil
}

// EnsureIndexes is a no-op for the in-memory store
func (r *MemoryCampaignRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

// visible looks up id and applies the visibility predicate. Caller holds mu.
func (r *MemoryCampaignRepository) visible(id string) (*models.Campaign, error) {
	c, ok := r.campaigns[id]
	if !ok || !c.IsVisible() {
		return nil, ErrCampaignNotFound
	}
	return c, nil
}
