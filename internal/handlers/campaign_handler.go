package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/white/campaign-manager/internal/events"
	"github.com/white/campaign-manager/internal/models"
	"github.com/white/campaign-manager/internal/repositories"
)

// CampaignHandler handles campaign-related HTTP requests
type CampaignHandler struct {
	campaignRepo repositories.CampaignRepository
	publisher    *events.CampaignPublisher
	validator    *validator.Validate
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignRepo repositories.CampaignRepository, publisher *events.CampaignPublisher) *CampaignHandler {
	v := validator.New()
	// Report JSON field names in validation errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &CampaignHandler{
		campaignRepo: campaignRepo,
		publisher:    publisher,
		validator:    v,
	}
}

// ListCampaigns godoc
// @Summary List campaigns
// @Description Returns every campaign that has not been deleted
// @Tags Campaigns
// @Produce json
// @Success 200 {array} models.Campaign
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /campaigns [get]
func (h *CampaignHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.campaignRepo.ListVisible(r.Context())
	if err != nil {
		respondWithStoreError(w, err, "Error fetching campaigns")
		return
	}

	respondWithJSON(w, http.StatusOK, campaigns)
}

// GetCampaign godoc
// @Summary Get a campaign
// @Description Returns a single campaign; deleted campaigns are reported as not found
// @Tags Campaigns
// @Produce json
// @Param id path string true "Campaign ID"
// @Success 200 {object} models.Campaign
// @Failure 404 {object} map[string]string "Campaign not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /campaigns/{id} [get]
func (h *CampaignHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	campaign, err := h.campaignRepo.GetVisible(r.Context(), id)
	if err != nil {
		respondWithStoreError(w, err, "Error fetching campaign")
		return
	}

	respondWithJSON(w, http.StatusOK, campaign)
}

// CreateCampaign godoc
// @Summary Create a campaign
// @Description Creates a campaign. Status defaults to ACTIVE; only ACTIVE or INACTIVE may be given.
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param campaign body models.CreateCampaignRequest true "Campaign creation request"
// @Success 201 {object} models.Campaign
// @Failure 400 {object} map[string]string "Invalid request payload or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /campaigns [post]
func (h *CampaignHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCampaignRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	req.Normalize()
	if err := h.validator.Struct(req); err != nil {
		respondWithStoreError(w, toValidationError(err), "Error creating campaign")
		return
	}

	campaign, err := h.campaignRepo.Create(r.Context(), req.ToNewCampaign())
	if err != nil {
		respondWithStoreError(w, err, "Error creating campaign")
		return
	}

	h.publisher.PublishFromRequest(r, events.ActionCampaignCreated, campaign, "Campaign created: "+campaign.Name)

	respondWithJSON(w, http.StatusCreated, campaign)
}

// UpdateCampaign godoc
// @Summary Update a campaign
// @Description Applies a partial update. Status may only be set to ACTIVE or INACTIVE; this is also how a campaign is activated or deactivated.
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param id path string true "Campaign ID"
// @Param campaign body models.UpdateCampaignRequest true "Fields to change"
// @Success 200 {object} models.Campaign
// @Failure 400 {object} map[string]string "Invalid request payload or status value"
// @Failure 404 {object} map[string]string "Campaign not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /campaigns/{id} [put]
func (h *CampaignHandler) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.UpdateCampaignRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	// Checked here and again by the store
	if req.Status != nil && !req.Status.Assignable() {
		respondWithError(w, http.StatusBadRequest, "Invalid status value")
		return
	}

	campaign, err := h.campaignRepo.UpdateVisible(r.Context(), id, req.ToCampaignUpdate())
	if err != nil {
		respondWithStoreError(w, err, "Error updating campaign")
		return
	}

	h.publisher.PublishFromRequest(r, events.UpdateAction(req.Status), campaign, "Campaign updated: "+campaign.Name)

	respondWithJSON(w, http.StatusOK, campaign)
}

// DeleteCampaign godoc
// @Summary Delete a campaign
// @Description Soft-deletes a campaign. It disappears from every read but is kept in storage.
// @Tags Campaigns
// @Produce json
// @Param id path string true "Campaign ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} map[string]string "Campaign not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /campaigns/{id} [delete]
func (h *CampaignHandler) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	campaign, err := h.campaignRepo.SoftDelete(r.Context(), id)
	if err != nil {
		respondWithStoreError(w, err, "Error deleting campaign")
		return
	}

	h.publisher.PublishFromRequest(r, events.ActionCampaignDeleted, campaign, "Campaign deleted: "+campaign.Name)

	respondWithJSON(w, http.StatusOK, models.MessageResponse{Message: "Campaign deleted successfully"})
}

// toValidationError reduces validator output to the first offending field
func toValidationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return repositories.NewValidationError("", err.Error())
	}

	fe := errs[0]
	// Namespace is "CreateCampaignRequest.leads[0]"; drop the struct name
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch fe.Tag() {
	case "required":
		return repositories.NewValidationError(field, "must not be empty")
	case "oneof":
		return repositories.NewValidationError(field, fmt.Sprintf("must be one of %s", fe.Param()))
	default:
		return repositories.NewValidationError(field, fmt.Sprintf("failed %s validation", fe.Tag()))
	}
}
