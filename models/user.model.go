package models

import (
	"time"
)

// User mirrors the identity provider's user record. The primary key is the
// provider-issued id, so webhook payloads and session tokens address rows
// directly without a local id mapping.
type User struct {
	ID        string    `gorm:"primaryKey" json:"_id"`
	Email     string    `gorm:"index" json:"email"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Populated from enrollment rows when the user is serialized.
	EnrolledCourses []string `gorm:"-" json:"enrolledCourses"`
}
