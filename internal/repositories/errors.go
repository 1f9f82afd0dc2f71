package repositories

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// Common repository errors
var (
	// ErrNotFound is returned when a document is not found
	ErrNotFound = mongo.ErrNoDocuments

	// ErrCampaignNotFound is returned when no visible campaign matches an id.
	// Deleted and nonexistent campaigns are indistinguishable.
	ErrCampaignNotFound = errors.New("campaign not found")

	// ErrStorageUnavailable is returned when the backing store cannot serve a request,
	// including timeouts
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ValidationError reports malformed or out-of-range input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for the given field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsCampaignNotFound checks if an error indicates a campaign was not found
func IsCampaignNotFound(err error) bool {
	return errors.Is(err, ErrCampaignNotFound)
}

// IsValidationError checks if an error is a ValidationError
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// IsStorageUnavailable checks if an error came from the storage layer
func IsStorageUnavailable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

// WrapNotFound wraps mongo.ErrNoDocuments with a domain-specific error
// This preserves the original MongoDB error while adding domain context
//
// Usage in repository methods:
//
//	err := r.collection.FindOne(ctx, filter).Decode(&campaign)
//	if err == mongo.ErrNoDocuments {
//	    return nil, WrapNotFound(err, ErrCampaignNotFound)
//	}
func WrapNotFound(err error, domainErr error) error {
	if err == nil {
		return nil
	}
	// Only wrap if it's actually a "not found" error
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: %w", domainErr, err)
	}
	// Return original error if it's not a "not found" error
	return err
}

// wrapStorage marks an infrastructure failure as ErrStorageUnavailable
func wrapStorage(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}
