package utils

import (
	"log"
	"time"

	"edemy/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartWebhookLogSweeper schedules a nightly sweep that prunes processed
// webhook event rows older than the retention window. The rows only exist
// for duplicate-delivery suppression; providers stop retrying long before
// the window ends.
func StartWebhookLogSweeper(db *gorm.DB, retentionDays int) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("0 3 * * *", func() {
		PruneWebhookEvents(db, retentionDays)
	})
	if err != nil {
		log.Printf("[WEBHOOK-SWEEPER] Failed to schedule sweep: %v", err)
		return c
	}

	c.Start()
	log.Printf("[WEBHOOK-SWEEPER] Scheduled daily sweep, retention %d days", retentionDays)
	return c
}

// PruneWebhookEvents deletes webhook event rows older than the retention
// window and logs how many were removed.
func PruneWebhookEvents(db *gorm.DB, retentionDays int) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	res := db.Where("created_at < ?", cutoff).Delete(&models.WebhookEvent{})
	if res.Error != nil {
		log.Printf("[WEBHOOK-SWEEPER] Error pruning webhook events: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("[WEBHOOK-SWEEPER] Pruned %d webhook events older than %s", res.RowsAffected, cutoff.Format(time.RFC3339))
	}
}
