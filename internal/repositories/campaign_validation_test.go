package repositories

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/white/campaign-manager/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestNormalizeCampaignUpdate(t *testing.T) {
	name := "  Renamed  "
	leads := []string{"a", "b"}
	accounts := []string{"x", "y", "x"}

	out, err := normalizeCampaignUpdate(models.CampaignUpdate{
		Name:       &name,
		Leads:      &leads,
		AccountIDs: &accounts,
	})
	if err != nil {
		t.Fatalf("normalizeCampaignUpdate: %v", err)
	}
	if *out.Name != "Renamed" {
		t.Fatalf("expected trimmed name, got %q", *out.Name)
	}
	if out.Description != nil || out.Status != nil {
		t.Fatal("unsupplied fields must stay nil")
	}
	if len(*out.AccountIDs) != 2 {
		t.Fatalf("expected deduplicated account ids, got %v", *out.AccountIDs)
	}

	leads[0] = "mutated"
	if (*out.Leads)[0] != "a" {
		t.Fatal("normalized update must not alias caller slices")
	}
}

func TestNormalizeCampaignUpdateRejects(t *testing.T) {
	blank := " "
	deleted := models.CampaignStatusDeleted
	emptyLead := []string{"a", ""}

	tests := []struct {
		name   string
		update models.CampaignUpdate
		field  string
	}{
		{"blank name", models.CampaignUpdate{Name: &blank}, "name"},
		{"blank description", models.CampaignUpdate{Description: &blank}, "description"},
		{"deleted status", models.CampaignUpdate{Status: &deleted}, "status"},
		{"empty lead", models.CampaignUpdate{Leads: &emptyLead}, "leads"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := normalizeCampaignUpdate(tt.update)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !strings.HasPrefix(vErr.Field, tt.field) {
				t.Fatalf("expected field %q, got %q", tt.field, vErr.Field)
			}
		})
	}
}

func TestNormalizeNewCampaignNilSlices(t *testing.T) {
	out, err := normalizeNewCampaign(models.NewCampaign{Name: "n", Description: "d"})
	if err != nil {
		t.Fatalf("normalizeNewCampaign: %v", err)
	}
	if out.Leads == nil || out.AccountIDs == nil {
		t.Fatal("expected empty slices rather than nil")
	}
}

func TestErrorHelpers(t *testing.T) {
	notFound := WrapNotFound(mongo.ErrNoDocuments, ErrCampaignNotFound)
	if !IsCampaignNotFound(notFound) || !IsNotFound(notFound) {
		t.Fatalf("WrapNotFound lost an error in the chain: %v", notFound)
	}

	other := errors.New("other")
	if WrapNotFound(other, ErrCampaignNotFound) != other {
		t.Fatal("WrapNotFound must leave other errors alone")
	}

	storage := wrapStorage("error listing campaigns", fmt.Errorf("dial tcp: refused"))
	if !IsStorageUnavailable(storage) || IsCampaignNotFound(storage) {
		t.Fatalf("unexpected classification: %v", storage)
	}

	if got := NewValidationError("name", "must not be empty").Error(); got != "name: must not be empty" {
		t.Fatalf("unexpected message %q", got)
	}
}
