package models

import (
	"time"
)

// Enrollment links a user and a course. The composite unique index gives the
// enrolled sets on both entities their set semantics: inserting an existing
// pair is a conflict, not a duplicate.
type Enrollment struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"index;not null;uniqueIndex:idx_enrollments_user_course" json:"userId"`
	CourseID  string    `gorm:"index;not null;uniqueIndex:idx_enrollments_user_course" json:"courseId"`
	CreatedAt time.Time `json:"-"`
}
