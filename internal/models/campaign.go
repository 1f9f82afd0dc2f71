package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Campaign represents an outreach campaign: a named, status-tagged list of leads
// Collection: campaigns
// Field names match documents written by the earlier Node service, whose ids
// are ObjectIDs; those decode here as their hex string.
type Campaign struct {
	ID          string         `bson:"_id" json:"id"`
	Name        string         `bson:"name" json:"name"`
	Description string         `bson:"description" json:"description"`
	Status      CampaignStatus `bson:"status" json:"status"`
	Leads       []string       `bson:"leads" json:"leads"`           // profile URLs, not validated
	AccountIDs  []string       `bson:"accountIDs" json:"accountIDs"` // external account references
	CreatedAt   time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// CampaignStatus is the lifecycle state of a campaign.
// ACTIVE <-> INACTIVE -> DELETED, where DELETED is terminal.
type CampaignStatus string

const (
	CampaignStatusActive   CampaignStatus = "ACTIVE"
	CampaignStatusInactive CampaignStatus = "INACTIVE"
	CampaignStatusDeleted  CampaignStatus = "DELETED"
)

// IsValid reports whether s is one of the known statuses
func (s CampaignStatus) IsValid() bool {
	switch s {
	case CampaignStatusActive, CampaignStatusInactive, CampaignStatusDeleted:
		return true
	default:
		return false
	}
}

// Assignable reports whether callers may set s directly.
// DELETED is only ever written by a soft delete.
func (s CampaignStatus) Assignable() bool {
	switch s {
	case CampaignStatusActive, CampaignStatusInactive:
		return true
	case CampaignStatusDeleted:
		return false
	default:
		return false
	}
}

// Toggled returns the opposite activation state
func (s CampaignStatus) Toggled() (CampaignStatus, error) {
	switch s {
	case CampaignStatusActive:
		return CampaignStatusInactive, nil
	case CampaignStatusInactive:
		return CampaignStatusActive, nil
	case CampaignStatusDeleted:
		return s, fmt.Errorf("campaign status %s cannot be toggled", s)
	default:
		return s, fmt.Errorf("unknown campaign status %q", string(s))
	}
}

// IsVisible reports whether the campaign is reachable through normal reads and updates.
// It must agree with VisibleFilter and VisibleByIDFilter.
func (c *Campaign) IsVisible() bool {
	return c.Status != CampaignStatusDeleted
}

// VisibleFilter returns the MongoDB filter matching every visible campaign
func VisibleFilter() bson.M {
	return bson.M{"status": bson.M{"$ne": CampaignStatusDeleted}}
}

// VisibleByIDFilter matches the visible campaign with the given id.
// The _id clause is always present, so an empty id matches nothing.
// A 24-digit hex id also matches a legacy ObjectID _id.
func VisibleByIDFilter(id string) bson.M {
	filter := VisibleFilter()
	filter["_id"] = id
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		filter["_id"] = bson.M{"$in": bson.A{id, oid}}
	}
	return filter
}

// Clone returns a deep copy so stores never hand out shared slices
func (c *Campaign) Clone() *Campaign {
	if c == nil {
		return nil
	}
	out := *c
	out.Leads = append([]string(nil), c.Leads...)
	out.AccountIDs = append([]string(nil), c.AccountIDs...)
	return &out
}

// NewCampaign holds the caller-supplied fields for creating a campaign.
// An empty Status means ACTIVE.
type NewCampaign struct {
	Name        string
	Description string
	Status      CampaignStatus
	Leads       []string
	AccountIDs  []string
}

// CampaignUpdate is a partial update; nil fields are left untouched
type CampaignUpdate struct {
	Name        *string
	Description *string
	Status      *CampaignStatus
	Leads       *[]string
	AccountIDs  *[]string
}

// Indexes required for Campaigns collection:
// 1. Single field index on status: db.campaigns.createIndex({ "status": 1 })
