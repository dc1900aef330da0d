package services

import (
	"errors"
	"fmt"

	"edemy/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProgressService records per-lecture completion for (user, course) pairs.
type ProgressService struct {
	db *gorm.DB

	// completeOnAny flags the progress record completed on the first
	// lecture completion instead of requiring the whole course content.
	completeOnAny bool
}

func NewProgressService(db *gorm.DB, completeOnAny bool) *ProgressService {
	return &ProgressService{db: db, completeOnAny: completeOnAny}
}

// RecordCompletion adds a lecture to the completed set. Returns true when
// the lecture was already recorded, in which case nothing is mutated.
func (s *ProgressService) RecordCompletion(userID, courseID, lectureID string) (bool, error) {
	if userID == "" || courseID == "" || lectureID == "" {
		return false, fmt.Errorf("%w: userId, courseId and lectureId are required", ErrInvalidArgument)
	}

	alreadyCompleted := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var progress models.CourseProgress
		err := tx.First(&progress, "user_id = ? AND course_id = ?", userID, courseID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			progress = models.CourseProgress{
				UserID:           userID,
				CourseID:         courseID,
				LectureCompleted: datatypes.NewJSONSlice([]string{lectureID}),
			}
			progress.Completed = s.isCourseComplete(tx, &progress)
			return tx.Create(&progress).Error
		case err != nil:
			return err
		}

		if progress.HasLecture(lectureID) {
			alreadyCompleted = true
			return nil
		}

		// The completed set only ever grows.
		progress.LectureCompleted = append(progress.LectureCompleted, lectureID)
		progress.Completed = s.isCourseComplete(tx, &progress)
		return tx.Save(&progress).Error
	})
	return alreadyCompleted, err
}

// GetProgress is a pure lookup. A nil result means no progress yet, which is
// not an error.
func (s *ProgressService) GetProgress(userID, courseID string) (*models.CourseProgress, error) {
	var progress models.CourseProgress
	err := s.db.First(&progress, "user_id = ? AND course_id = ?", userID, courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (s *ProgressService) isCourseComplete(tx *gorm.DB, progress *models.CourseProgress) bool {
	if s.completeOnAny {
		return len(progress.LectureCompleted) > 0
	}

	var course models.Course
	if err := tx.First(&course, "id = ?", progress.CourseID).Error; err != nil {
		return false
	}
	lectures := course.LectureIDs()
	if len(lectures) == 0 {
		return false
	}
	for _, id := range lectures {
		if !progress.HasLecture(id) {
			return false
		}
	}
	return true
}
