package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/white/campaign-manager/internal/models"
)

func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestCampaignCacheKeys(t *testing.T) {
	c := NewCampaignCache(unreachableClient(t), 0)

	if c.ttl != DefaultCampaignTTL {
		t.Fatalf("expected default ttl, got %v", c.ttl)
	}
	if got := c.buildKey("abc"); got != "campaign:abc" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := c.buildTombstoneKey("abc"); got != "campaign:abc:deleted" {
		t.Fatalf("unexpected tombstone key %q", got)
	}
}

func TestCampaignCacheReportsUnavailableRedis(t *testing.T) {
	c := NewCampaignCache(unreachableClient(t), time.Minute)
	ctx := context.Background()

	if _, found, err := c.Get(ctx, "abc"); err == nil || found {
		t.Fatalf("expected error and no hit, got found=%v err=%v", found, err)
	}
	if _, err := c.IsDeleted(ctx, "abc"); err == nil {
		t.Fatal("expected IsDeleted to fail")
	}
	if err := c.Ping(ctx); err == nil {
		t.Fatal("expected Ping to fail")
	}
}

func TestSupersedesKeepsNewerEntry(t *testing.T) {
	older := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	newer := older.Add(time.Second)

	cachedJSON := func(updatedAt time.Time) string {
		b, _ := json.Marshal(models.Campaign{ID: "c1", Status: models.CampaignStatusInactive, UpdatedAt: updatedAt})
		return string(b)
	}

	tests := []struct {
		name     string
		current  string
		incoming time.Time
		want     bool
	}{
		{"stale read after update", cachedJSON(newer), older, false},
		{"newer update", cachedJSON(older), newer, true},
		{"same instant", cachedJSON(older), older, true},
		{"unreadable entry", "{not json", older, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := supersedes(tt.current, &models.Campaign{ID: "c1", UpdatedAt: tt.incoming})
			if got != tt.want {
				t.Fatalf("supersedes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCampaignCacheSetReportsUnavailableRedis(t *testing.T) {
	c := NewCampaignCache(unreachableClient(t), time.Minute)

	if err := c.Set(context.Background(), &models.Campaign{ID: "abc"}); err == nil {
		t.Fatal("expected Set to fail")
	}
}
