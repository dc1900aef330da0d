package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Purchase status values. Completed and failed are terminal.
const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusCompleted = "completed"
	PurchaseStatusFailed    = "failed"
)

// Purchase records one checkout attempt. The id doubles as the correlation
// token embedded in checkout session metadata, which is how payment webhooks
// find their way back to this row.
type Purchase struct {
	ID        string    `gorm:"primaryKey" json:"_id"`
	CourseID  string    `gorm:"index;not null" json:"courseId"`
	UserID    string    `gorm:"index;not null" json:"userId"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Status    string    `gorm:"index;default:'pending'" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = PurchaseStatusPending
	}
	return nil
}
