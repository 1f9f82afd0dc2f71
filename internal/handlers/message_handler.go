package handlers

import (
	"log"
	"net/http"

	"github.com/white/campaign-manager/internal/models"
	"github.com/white/campaign-manager/internal/services"
)

// MessageHandler handles personalized message generation
type MessageHandler struct {
	generator services.MessageGenerator
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(generator services.MessageGenerator) *MessageHandler {
	return &MessageHandler{generator: generator}
}

type messageErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// GeneratePersonalizedMessage godoc
// @Summary Generate a personalized outreach message
// @Description Sends the profile to the language model with a fixed prompt and returns its reply
// @Tags Messages
// @Accept json
// @Produce json
// @Param profile body models.LinkedInProfile true "Profile to write for"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} map[string]string "Invalid request payload"
// @Failure 500 {object} messageErrorResponse "Generation failed"
// @Router /personalized-message [post]
func (h *MessageHandler) GeneratePersonalizedMessage(w http.ResponseWriter, r *http.Request) {
	var profile models.LinkedInProfile
	if err := decodeJSON(w, r, &profile); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	message, err := h.generator.Generate(r.Context(), profile)
	if err != nil {
		log.Printf("Error generating message: %v", err)
		respondWithJSON(w, http.StatusInternalServerError, messageErrorResponse{
			Message: "Error generating personalized message",
			Error:   err.Error(),
		})
		return
	}

	respondWithJSON(w, http.StatusOK, models.MessageResponse{Message: message})
}
