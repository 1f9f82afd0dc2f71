package events

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/white/campaign-manager/internal/models"
	"github.com/white/campaign-manager/pkg/uuid"
)

// CampaignAction represents a lifecycle transition being recorded
type CampaignAction string

const (
	ActionCampaignCreated     CampaignAction = "CAMPAIGN_CREATED"
	ActionCampaignUpdated     CampaignAction = "CAMPAIGN_UPDATED"
	ActionCampaignActivated   CampaignAction = "CAMPAIGN_ACTIVATED"
	ActionCampaignDeactivated CampaignAction = "CAMPAIGN_DEACTIVATED"
	ActionCampaignDeleted     CampaignAction = "CAMPAIGN_DELETED"
)

// CampaignEvent is the lifecycle event published to Kafka
type CampaignEvent struct {
	EventID    string                `json:"event_id"`
	Timestamp  int64                 `json:"timestamp"`
	Action     CampaignAction        `json:"action"`
	CampaignID string                `json:"campaign_id"`
	Status     models.CampaignStatus `json:"status"`
	Details    string                `json:"details,omitempty"`
	IPAddress  string                `json:"ip_address,omitempty"`
	UserAgent  string                `json:"user_agent,omitempty"`
}

// JSONPublisher is the transport events are handed to; *kafka.Producer satisfies it
type JSONPublisher interface {
	PublishJSON(topic, key string, data interface{}) error
}

// CampaignPublisher handles publishing campaign lifecycle events
type CampaignPublisher struct {
	producer JSONPublisher
	topic    string
	enabled  bool
}

// NewCampaignPublisher creates a new publisher. A nil producer logs events only.
func NewCampaignPublisher(producer JSONPublisher, topic string) *CampaignPublisher {
	enabled := producer != nil
	if enabled {
		log.Printf("Campaign event publisher initialized (Kafka enabled, topic %s)", topic)
	} else {
		log.Println("Campaign event publisher initialized (Kafka disabled - events will be logged only)")
	}
	return &CampaignPublisher{
		producer: producer,
		topic:    topic,
		enabled:  enabled,
	}
}

// Publish sends an event. Failures are logged and never reach the caller.
func (p *CampaignPublisher) Publish(event *CampaignEvent) {
	if event.EventID == "" {
		event.EventID = uuid.MustNewUUID()
	}
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}

	// Always log the event for debugging
	eventJSON, _ := json.Marshal(event)
	log.Printf("CAMPAIGN EVENT: %s", string(eventJSON))

	if !p.enabled {
		return
	}

	// The producer enqueues asynchronously, delivery errors surface on its event loop
	if err := p.producer.PublishJSON(p.topic, event.CampaignID, event); err != nil {
		log.Printf("Failed to publish campaign event: %v", err)
	}
}

// PublishFromRequest creates and publishes an event for campaign from HTTP request context
func (p *CampaignPublisher) PublishFromRequest(r *http.Request, action CampaignAction, campaign *models.Campaign, details string) {
	p.Publish(&CampaignEvent{
		Action:     action,
		CampaignID: campaign.ID,
		Status:     campaign.Status,
		Details:    details,
		IPAddress:  getClientIP(r),
		UserAgent:  r.UserAgent(),
	})
}

// UpdateAction names an update by the status it requested, if any.
// The action reflects the request, not a change: setting ACTIVE on a campaign
// that is already ACTIVE still yields CAMPAIGN_ACTIVATED. The event carries the
// resulting status, so consumers that need real transitions compare it with
// the last status they saw for the campaign.
func UpdateAction(requested *models.CampaignStatus) CampaignAction {
	if requested == nil {
		return ActionCampaignUpdated
	}
	switch *requested {
	case models.CampaignStatusActive:
		return ActionCampaignActivated
	case models.CampaignStatusInactive:
		return ActionCampaignDeactivated
	default:
		return ActionCampaignUpdated
	}
}

// Helper to get client IP address
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header first (for proxied requests)
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	// Fall back to RemoteAddr
	return r.RemoteAddr
}
