package repositories

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/white/campaign-manager/internal/models"
)

func newCampaign() models.NewCampaign {
	return models.NewCampaign{
		Name:        "Q3 Outreach",
		Description: "Founders in fintech",
		Leads:       []string{"https://linkedin.com/in/a"},
		AccountIDs:  []string{"acct-1", "acct-1", "acct-2"},
	}
}

func statusPtr(s models.CampaignStatus) *models.CampaignStatus { return &s }
func stringPtr(s string) *string                                { return &s }

func TestMemoryCreateDefaultsAndNormalizes(t *testing.T) {
	repo := NewMemoryCampaignRepository()
	in := newCampaign()
	in.Name = "  Q3 Outreach  "

	c, err := repo.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.ID == "" {
		t.Fatal("expected an id")
	}
	if c.Status != models.CampaignStatusActive {
		t.Fatalf("expected default ACTIVE, got %s", c.Status)
	}
	if c.Name != "Q3 Outreach" {
		t.Fatalf("expected trimmed name, got %q", c.Name)
	}
	if len(c.AccountIDs) != 2 {
		t.Fatalf("expected deduplicated account ids, got %v", c.AccountIDs)
	}
	if !c.CreatedAt.Equal(c.UpdatedAt) {
		t.Fatalf("expected createdAt == updatedAt on create")
	}
}

func TestMemoryCreateRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*models.NewCampaign)
		field string
	}{
		{"blank name", func(n *models.NewCampaign) { n.Name = "   " }, "name"},
		{"empty description", func(n *models.NewCampaign) { n.Description = "" }, "description"},
		{"deleted status", func(n *models.NewCampaign) { n.Status = models.CampaignStatusDeleted }, "status"},
		{"unknown status", func(n *models.NewCampaign) { n.Status = "PAUSED" }, "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMemoryCampaignRepository()
			in := newCampaign()
			tt.mod(&in)

			_, err := repo.Create(context.Background(), in)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Field != tt.field {
				t.Fatalf("expected field %q, got %q", tt.field, vErr.Field)
			}

			list, _ := repo.ListVisible(context.Background())
			if len(list) != 0 {
				t.Fatalf("expected nothing stored, got %d", len(list))
			}
		})
	}
}

func TestMemoryCreateRejectsEmptyLead(t *testing.T) {
	repo := NewMemoryCampaignRepository()
	in := newCampaign()
	in.Leads = []string{"https://linkedin.com/in/a", ""}

	_, err := repo.Create(context.Background(), in)
	if !IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestMemorySoftDeleteHidesCampaign(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCampaignRepository()
	keep, _ := repo.Create(ctx, newCampaign())
	gone, _ := repo.Create(ctx, newCampaign())

	deleted, err := repo.SoftDelete(ctx, gone.ID)
	if err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if deleted.Status != models.CampaignStatusDeleted {
		t.Fatalf("expected DELETED, got %s", deleted.Status)
	}

	if _, err := repo.GetVisible(ctx, gone.ID); !IsCampaignNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if _, err := repo.UpdateVisible(ctx, gone.ID, models.CampaignUpdate{Name: stringPtr("x")}); !IsCampaignNotFound(err) {
		t.Fatalf("expected update of deleted campaign to be not found, got %v", err)
	}
	if _, err := repo.SoftDelete(ctx, gone.ID); !IsCampaignNotFound(err) {
		t.Fatalf("expected second delete to be not found, got %v", err)
	}

	list, err := repo.ListVisible(ctx)
	if err != nil {
		t.Fatalf("ListVisible: %v", err)
	}
	if len(list) != 1 || list[0].ID != keep.ID {
		t.Fatalf("expected only %s visible, got %+v", keep.ID, list)
	}

	// The record is retained
	if stored := repo.campaigns[gone.ID]; stored == nil || stored.Status != models.CampaignStatusDeleted {
		t.Fatalf("expected deleted record to be kept, got %+v", stored)
	}
}

func TestMemoryUpdateAppliesOnlySuppliedFields(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCampaignRepository()
	c, _ := repo.Create(ctx, newCampaign())

	updated, err := repo.UpdateVisible(ctx, c.ID, models.CampaignUpdate{Status: statusPtr(models.CampaignStatusInactive)})
	if err != nil {
		t.Fatalf("UpdateVisible: %v", err)
	}
	if updated.Status != models.CampaignStatusInactive {
		t.Fatalf("expected INACTIVE, got %s", updated.Status)
	}
	if updated.Name != c.Name || updated.Description != c.Description {
		t.Fatalf("unexpected field change: %+v", updated)
	}
	if updated.CreatedAt != c.CreatedAt {
		t.Fatal("createdAt must not change")
	}
	if updated.UpdatedAt.Before(c.UpdatedAt) {
		t.Fatal("updatedAt went backwards")
	}
}

func TestMemoryUpdateRejectsDeletedStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCampaignRepository()
	c, _ := repo.Create(ctx, newCampaign())

	_, err := repo.UpdateVisible(ctx, c.ID, models.CampaignUpdate{Status: statusPtr(models.CampaignStatusDeleted)})
	if !IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	got, err := repo.GetVisible(ctx, c.ID)
	if err != nil {
		t.Fatalf("campaign should still be visible: %v", err)
	}
	if got.Status != models.CampaignStatusActive {
		t.Fatalf("expected status unchanged, got %s", got.Status)
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCampaignRepository()
	c, _ := repo.Create(ctx, newCampaign())

	c.Leads[0] = "mutated"
	got, _ := repo.GetVisible(ctx, c.ID)
	if got.Leads[0] == "mutated" {
		t.Fatal("caller mutation leaked into the store")
	}
}

func TestMemoryConcurrentDeleteSucceedsOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCampaignRepository()
	c, _ := repo.Create(ctx, newCampaign())

	const workers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes, notFound := 0, 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.SoftDelete(ctx, c.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case IsCampaignNotFound(err):
				notFound++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 || notFound != workers-1 {
		t.Fatalf("expected 1 success and %d not found, got %d and %d", workers-1, successes, notFound)
	}
}

func TestMemoryConcurrentUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCampaignRepository()
	c, _ := repo.Create(ctx, newCampaign())

	var wg sync.WaitGroup
	var updateErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, updateErr = repo.UpdateVisible(ctx, c.ID, models.CampaignUpdate{Status: statusPtr(models.CampaignStatusInactive)})
	}()
	go func() {
		defer wg.Done()
		if _, err := repo.SoftDelete(ctx, c.ID); err != nil {
			t.Errorf("delete: %v", err)
		}
	}()
	wg.Wait()

	if updateErr != nil && !IsCampaignNotFound(updateErr) {
		t.Fatalf("unexpected update error: %v", updateErr)
	}
	// Whatever the order, the delete is final
	if repo.campaigns[c.ID].Status != models.CampaignStatusDeleted {
		t.Fatalf("expected DELETED, got %s", repo.campaigns[c.ID].Status)
	}
}
