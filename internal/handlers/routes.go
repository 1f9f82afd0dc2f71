package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes mounts the campaign and message endpoints on r.
// The campaign routes are the whole public contract of the campaign store.
func RegisterRoutes(r *mux.Router, campaigns *CampaignHandler, messages *MessageHandler) {
	r.HandleFunc("/campaigns", campaigns.ListCampaigns).Methods(http.MethodGet)
	r.HandleFunc("/campaigns", campaigns.CreateCampaign).Methods(http.MethodPost)
	r.HandleFunc("/campaigns/{id}", campaigns.GetCampaign).Methods(http.MethodGet)
	r.HandleFunc("/campaigns/{id}", campaigns.UpdateCampaign).Methods(http.MethodPut)
	r.HandleFunc("/campaigns/{id}", campaigns.DeleteCampaign).Methods(http.MethodDelete)

	r.HandleFunc("/personalized-message", messages.GeneratePersonalizedMessage).Methods(http.MethodPost)
}

// NewRouter builds the full router: health, API routes under basePath, JSON 404s
func NewRouter(basePath string, health *HealthHandler, campaigns *CampaignHandler, messages *MessageHandler) *mux.Router {
	router := mux.NewRouter()

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusNotFound, "Endpoint not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	router.HandleFunc("/health", health.GetOverallHealth).Methods(http.MethodGet)

	api := router
	if basePath != "" {
		api = router.PathPrefix(basePath).Subrouter()
	}
	RegisterRoutes(api, campaigns, messages)

	return router
}
