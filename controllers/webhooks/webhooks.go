package webhooks

import (
	"log"

	"edemy/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// markEventSeen records a provider event id. Returns true when the event was
// already recorded, which means this delivery is a duplicate.
func markEventSeen(db *gorm.DB, provider, eventID, eventType string) (bool, error) {
	event := models.WebhookEvent{
		Provider:  provider,
		EventID:   eventID,
		EventType: eventType,
	}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&event)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 0, nil
}

// releaseEvent drops the dedup row after a failed handler so the provider's
// retry of the same event id is processed instead of skipped.
func releaseEvent(db *gorm.DB, provider, eventID string) {
	if err := db.Where("provider = ? AND event_id = ?", provider, eventID).
		Delete(&models.WebhookEvent{}).Error; err != nil {
		log.Printf("Error releasing webhook event %s/%s: %v", provider, eventID, err)
	}
}
