package models

import (
	"time"

	"gorm.io/datatypes"
)

// CourseProgress tracks which lectures a user has finished in a course.
// One row per (user, course) pair; the completed-lecture set only grows.
type CourseProgress struct {
	ID               uint                        `gorm:"primaryKey" json:"-"`
	UserID           string                      `gorm:"not null;uniqueIndex:idx_course_progress_user_course" json:"userId"`
	CourseID         string                      `gorm:"not null;uniqueIndex:idx_course_progress_user_course" json:"courseId"`
	LectureCompleted datatypes.JSONSlice[string] `json:"lectureCompleted"`
	Completed        bool                        `gorm:"default:false" json:"completed"`
	CreatedAt        time.Time                   `json:"-"`
	UpdatedAt        time.Time                   `json:"-"`
}

// HasLecture reports whether lectureID is already in the completed set.
func (p *CourseProgress) HasLecture(lectureID string) bool {
	for _, id := range p.LectureCompleted {
		if id == lectureID {
			return true
		}
	}
	return false
}
