package repositories

import (
	"context"

	"github.com/white/campaign-manager/internal/models"
)

// CampaignRepository is the campaign store.
// Every read and update goes through the visibility predicate, so a
// soft-deleted campaign behaves exactly like a missing one.
type CampaignRepository interface {
	ListVisible(ctx context.Context) ([]*models.Campaign, error)
	GetVisible(ctx context.Context, id string) (*models.Campaign, error)
	Create(ctx context.Context, fields models.NewCampaign) (*models.Campaign, error)
	UpdateVisible(ctx context.Context, id string, update models.CampaignUpdate) (*models.Campaign, error)
	SoftDelete(ctx context.Context, id string) (*models.Campaign, error)
	EnsureIndexes(ctx context.Context) error
}
