package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/white/campaign-manager/internal/models"
	"github.com/white/campaign-manager/pkg/mongodb"
	"github.com/white/campaign-manager/pkg/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultCampaignCollection is the collection campaigns live in unless configured otherwise
const DefaultCampaignCollection = "campaigns"

// defaultOperationTimeout bounds every store call when no timeout is configured
const defaultOperationTimeout = 10 * time.Second

// MongoCampaignRepository handles campaign data access with MongoDB
type MongoCampaignRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
	now        func() time.Time
}

// NewMongoCampaignRepository creates a new MongoCampaignRepository
func NewMongoCampaignRepository(client *mongodb.Client, collection string, timeout time.Duration) *MongoCampaignRepository {
	if collection == "" {
		collection = DefaultCampaignCollection
	}
	return NewMongoCampaignRepositoryWithCollection(client.Collection(collection), timeout)
}

// NewMongoCampaignRepositoryWithCollection creates a repository over an existing collection handle
func NewMongoCampaignRepositoryWithCollection(collection *mongo.Collection, timeout time.Duration) *MongoCampaignRepository {
	if timeout <= 0 {
		timeout = defaultOperationTimeout
	}
	return &MongoCampaignRepository{
		collection: collection,
		timeout:    timeout,
		now:        storeNow,
	}
}

// storeNow returns the current time at the precision MongoDB keeps
func storeNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// readContext bounds a read by the store timeout
func (r *MongoCampaignRepository) readContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// writeContext detaches a mutation from caller cancellation so an issued write
// runs to completion, still bounded by the store timeout
func (r *MongoCampaignRepository) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
}

// ListVisible retrieves every campaign that has not been deleted
func (r *MongoCampaignRepository) ListVisible(ctx context.Context) ([]*models.Campaign, error) {
	ctx, cancel := r.readContext(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, models.VisibleFilter())
	if err != nil {
		return nil, wrapStorage("error listing campaigns", err)
	}
	defer cursor.Close(ctx)

	campaigns := []*models.Campaign{}
	if err := cursor.All(ctx, &campaigns); err != nil {
		return nil, wrapStorage("error decoding campaigns", err)
	}

	return campaigns, nil
}

// GetVisible retrieves a visible campaign by its ID
func (r *MongoCampaignRepository) GetVisible(ctx context.Context, id string) (*models.Campaign, error) {
	ctx, cancel := r.readContext(ctx)
	defer cancel()

	if id == "" {
		return nil, ErrCampaignNotFound
	}

	var campaign models.Campaign
	err := r.collection.FindOne(ctx, models.VisibleByIDFilter(id)).Decode(&campaign)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, WrapNotFound(err, ErrCampaignNotFound)
		}
		return nil, wrapStorage("error finding campaign by ID", err)
	}

	return &campaign, nil
}

// Create validates and inserts a new campaign document
func (r *MongoCampaignRepository) Create(ctx context.Context, fields models.NewCampaign) (*models.Campaign, error) {
	fields, err := normalizeNewCampaign(fields)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewUUID()
	if err != nil {
		return nil, fmt.Errorf("error assigning campaign ID: %w", err)
	}

	now := r.now()
	campaign := &models.Campaign{
		ID:          id,
		Name:        fields.Name,
		Description: fields.Description,
		Status:      fields.Status,
		Leads:       fields.Leads,
		AccountIDs:  fields.AccountIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, campaign); err != nil {
		return nil, wrapStorage("error creating campaign", err)
	}

	return campaign, nil
}

// UpdateVisible applies the supplied fields to a visible campaign.
// Match and write happen in one findOneAndUpdate, so a concurrent delete
// either wins entirely or not at all.
func (r *MongoCampaignRepository) UpdateVisible(ctx context.Context, id string, update models.CampaignUpdate) (*models.Campaign, error) {
	update, err := normalizeCampaignUpdate(update)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": r.now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.Leads != nil {
		set["leads"] = *update.Leads
	}
	if update.AccountIDs != nil {
		set["accountIDs"] = *update.AccountIDs
	}

	return r.findOneAndSet(ctx, id, set, "error updating campaign")
}

// SoftDelete marks a visible campaign as DELETED. The document is kept.
func (r *MongoCampaignRepository) SoftDelete(ctx context.Context, id string) (*models.Campaign, error) {
	set := bson.M{
		"status":     models.CampaignStatusDeleted,
		"updatedAt": r.now(),
	}
	return r.findOneAndSet(ctx, id, set, "error deleting campaign")
}

func (r *MongoCampaignRepository) findOneAndSet(ctx context.Context, id string, set bson.M, op string) (*models.Campaign, error) {
	if id == "" {
		return nil, ErrCampaignNotFound
	}

	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var campaign models.Campaign
	err := r.collection.FindOneAndUpdate(ctx, models.VisibleByIDFilter(id), bson.M{"$set": set}, opts).Decode(&campaign)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, WrapNotFound(err, ErrCampaignNotFound)
		}
		return nil, wrapStorage(op, err)
	}

	return &campaign, nil
}

// EnsureIndexes creates the required indexes for the campaigns collection
func (r *MongoCampaignRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return wrapStorage("error creating indexes", err)
	}

	return nil
}
