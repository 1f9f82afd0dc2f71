package models

import "strings"

// CreateCampaignRequest is the request body for POST /campaigns
type CreateCampaignRequest struct {
	Name        string         `json:"name" validate:"required"`
	Description string         `json:"description" validate:"required"`
	Status      CampaignStatus `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE"`
	Leads       []string       `json:"leads" validate:"dive,required"`
	AccountIDs  []string       `json:"accountIDs,omitempty" validate:"dive,required"`
}

// Normalize trims name and description, matching how they are stored
func (r *CreateCampaignRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
}

// ToNewCampaign converts the request into store input
func (r *CreateCampaignRequest) ToNewCampaign() NewCampaign {
	return NewCampaign{
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
		Leads:       r.Leads,
		AccountIDs:  r.AccountIDs,
	}
}

// UpdateCampaignRequest is the request body for PUT /campaigns/{id}.
// Any subset of fields may be sent.
type UpdateCampaignRequest struct {
	Name        *string         `json:"name,omitempty"`
	Description *string         `json:"description,omitempty"`
	Status      *CampaignStatus `json:"status,omitempty"`
	Leads       *[]string       `json:"leads,omitempty"`
	AccountIDs  *[]string       `json:"accountIDs,omitempty"`
}

// ToCampaignUpdate converts the request into a store update
func (r *UpdateCampaignRequest) ToCampaignUpdate() CampaignUpdate {
	return CampaignUpdate{
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
		Leads:       r.Leads,
		AccountIDs:  r.AccountIDs,
	}
}

// MessageResponse is returned by the message endpoints
type MessageResponse struct {
	Message string `json:"message"`
}
