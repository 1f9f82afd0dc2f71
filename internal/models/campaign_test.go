package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCampaignStatusAssignable(t *testing.T) {
	tests := []struct {
		status     CampaignStatus
		valid      bool
		assignable bool
	}{
		{CampaignStatusActive, true, true},
		{CampaignStatusInactive, true, true},
		{CampaignStatusDeleted, true, false},
		{"PAUSED", false, false},
		{"active", false, false},
		{"", false, false},
	}
	for _, tt := range tests {
		if got := tt.status.IsValid(); got != tt.valid {
			t.Errorf("%q.IsValid() = %v, want %v", tt.status, got, tt.valid)
		}
		if got := tt.status.Assignable(); got != tt.assignable {
			t.Errorf("%q.Assignable() = %v, want %v", tt.status, got, tt.assignable)
		}
	}
}

func TestCampaignStatusToggled(t *testing.T) {
	if got, err := CampaignStatusActive.Toggled(); err != nil || got != CampaignStatusInactive {
		t.Fatalf("ACTIVE toggled = %q, %v", got, err)
	}
	if got, err := CampaignStatusInactive.Toggled(); err != nil || got != CampaignStatusActive {
		t.Fatalf("INACTIVE toggled = %q, %v", got, err)
	}
	if _, err := CampaignStatusDeleted.Toggled(); err == nil {
		t.Fatal("expected DELETED to refuse toggling")
	}
}

func TestVisibilityPredicateAgreesWithFilter(t *testing.T) {
	filter := VisibleByIDFilter("abc")
	if filter["_id"] != "abc" {
		t.Fatalf("expected id in filter, got %v", filter)
	}
	if _, ok := VisibleFilter()["_id"]; ok {
		t.Fatal("list filter must not constrain _id")
	}

	for _, s := range []CampaignStatus{CampaignStatusActive, CampaignStatusInactive, CampaignStatusDeleted} {
		c := &Campaign{Status: s}
		if c.IsVisible() == (s == CampaignStatusDeleted) {
			t.Fatalf("IsVisible() wrong for %s", s)
		}
	}
}

func TestCloneDoesNotShareSlices(t *testing.T) {
	c := &Campaign{Leads: []string{"a"}, AccountIDs: []string{"x"}}
	cp := c.Clone()
	cp.Leads[0] = "b"
	cp.AccountIDs[0] = "y"
	if c.Leads[0] != "a" || c.AccountIDs[0] != "x" {
		t.Fatalf("clone shares backing arrays: %+v", c)
	}
}

func TestVisibleByIDFilterAlwaysConstrainsID(t *testing.T) {
	filter := VisibleByIDFilter("")
	id, ok := filter["_id"]
	if !ok || id != "" {
		t.Fatalf("expected _id \"\" for empty id, got %v", filter)
	}
	if _, ok := filter["status"]; !ok {
		t.Fatal("expected status clause")
	}
}

func TestVisibleByIDFilterMatchesLegacyObjectID(t *testing.T) {
	hex := "64b7f0c2a1b2c3d4e5f60718"
	in, ok := VisibleByIDFilter(hex)["_id"].(bson.M)
	if !ok {
		t.Fatalf("expected $in clause for hex id, got %v", VisibleByIDFilter(hex))
	}
	values := in["$in"].(bson.A)
	oid, _ := primitive.ObjectIDFromHex(hex)
	if len(values) != 2 || values[0] != hex || values[1] != oid {
		t.Fatalf("unexpected $in values %v", values)
	}
}
