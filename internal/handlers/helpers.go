package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/white/campaign-manager/internal/repositories"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// respondWithJSON writes a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithError writes an error response
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithStoreError translates a store failure into its status code.
// fallback is the message used for unexpected failures.
func respondWithStoreError(w http.ResponseWriter, err error, fallback string) {
	var vErr *repositories.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondWithJSON(w, http.StatusBadRequest, map[string]string{
			"error": vErr.Error(),
			"field": vErr.Field,
		})
	case repositories.IsCampaignNotFound(err):
		respondWithError(w, http.StatusNotFound, "Campaign not found")
	default:
		log.Printf("%s: %v", fallback, err)
		respondWithError(w, http.StatusInternalServerError, fallback)
	}
}

// decodeJSON reads a JSON body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}
