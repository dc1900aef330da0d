package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Lecture is a single playable unit inside a chapter.
type Lecture struct {
	LectureID       string  `json:"lectureId"`
	LectureTitle    string  `json:"lectureTitle"`
	LectureURL      string  `json:"lectureUrl"`
	LectureDuration float64 `json:"lectureDuration"`
	IsPreviewFree   bool    `json:"isPreviewFree"`
	LectureOrder    int     `json:"lectureOrder"`
}

// Chapter groups lectures inside the course content document.
type Chapter struct {
	ChapterID      string    `json:"chapterId"`
	ChapterTitle   string    `json:"chapterTitle"`
	ChapterOrder   int       `json:"chapterOrder"`
	ChapterContent []Lecture `json:"chapterContent"`
}

// Course is a purchasable course. Content is stored as a JSON document since
// chapters and lectures are only ever read and written as a whole.
type Course struct {
	ID                string                        `gorm:"primaryKey" json:"_id"`
	CourseTitle       string                        `gorm:"not null" json:"courseTitle"`
	CourseDescription string                        `json:"courseDescription"`
	CourseThumbnail   string                        `json:"courseThumbnail"`
	CoursePrice       float64                       `gorm:"not null" json:"coursePrice"`
	Discount          float64                       `gorm:"default:0" json:"discount"`
	CourseContent     datatypes.JSONType[[]Chapter] `json:"courseContent"`
	CourseRatings     []CourseRating                `gorm:"foreignKey:CourseID" json:"courseRatings"`
	CreatedAt         time.Time                     `json:"-"`
	UpdatedAt         time.Time                     `json:"-"`

	// Populated from enrollment rows when the course is serialized.
	EnrolledStudents []string `gorm:"-" json:"enrolledStudents"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// LectureIDs flattens the content document into the set of lecture ids,
// used to decide whether a progress record covers the whole course.
func (c *Course) LectureIDs() []string {
	var ids []string
	for _, chapter := range c.CourseContent.Data() {
		for _, lecture := range chapter.ChapterContent {
			ids = append(ids, lecture.LectureID)
		}
	}
	return ids
}

// CourseRating is one user's rating of a course. The composite unique index
// enforces at most one rating per user and is the conflict target for the
// upsert.
type CourseRating struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	CourseID string `gorm:"not null;uniqueIndex:idx_course_ratings_course_user" json:"-"`
	UserID   string `gorm:"not null;uniqueIndex:idx_course_ratings_course_user" json:"userId"`
	Rating   int    `gorm:"not null" json:"rating"`
}
