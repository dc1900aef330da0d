package models

import (
	"time"
)

// WebhookEvent logs inbound provider events for duplicate-delivery
// suppression. The (provider, event_id) unique index makes the insert a
// dedup check: a conflict means the event was already accepted.
type WebhookEvent struct {
	ID        uint      `gorm:"primaryKey"`
	Provider  string    `gorm:"not null;uniqueIndex:idx_webhook_events_provider_event"`
	EventID   string    `gorm:"not null;uniqueIndex:idx_webhook_events_provider_event"`
	EventType string    `gorm:"index"`
	CreatedAt time.Time `gorm:"index"`
}
