package services

import (
	"errors"
	"fmt"

	"edemy/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingService records 1-5 course ratings, gated on enrollment.
type RatingService struct {
	db *gorm.DB
}

func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{db: db}
}

// Rate upserts the user's rating for a course. The upsert is a single
// conditional statement keyed on (course_id, user_id), so concurrent
// submissions cannot produce duplicate entries.
func (s *RatingService) Rate(userID, courseID string, rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidArgument)
	}
	if userID == "" || courseID == "" {
		return fmt.Errorf("%w: userId and courseId are required", ErrInvalidArgument)
	}

	var course models.Course
	if err := s.db.First(&course, "id = ?", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: course %s", ErrNotFound, courseID)
		}
		return err
	}

	var enrolled int64
	if err := s.db.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&enrolled).Error; err != nil {
		return err
	}
	if enrolled == 0 {
		return fmt.Errorf("%w: user has not purchased this course", ErrForbidden)
	}

	entry := models.CourseRating{CourseID: courseID, UserID: userID, Rating: rating}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "course_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating"}),
	}).Create(&entry).Error
}
