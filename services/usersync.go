package services

import (
	"errors"
	"fmt"

	"edemy/clerk"
	"edemy/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserSyncService applies identity provider lifecycle events to the local
// user table and repairs missing rows from the provider's API.
type UserSyncService struct {
	db       *gorm.DB
	profiles clerk.ProfileFetcher
}

func NewUserSyncService(db *gorm.DB, profiles clerk.ProfileFetcher) *UserSyncService {
	return &UserSyncService{db: db, profiles: profiles}
}

// OnCreated creates the user for a user.created event. Duplicate creation
// events are a no-op.
func (s *UserSyncService) OnCreated(profile *clerk.Profile) error {
	if profile.ID == "" {
		return fmt.Errorf("%w: missing user id", ErrInvalidArgument)
	}

	user := models.User{
		ID:       profile.ID,
		Email:    profile.PrimaryEmail(),
		Name:     profile.DisplayName(),
		ImageURL: profile.ImageURL,
	}
	// Insert-or-skip keeps retried creation events idempotent.
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&user).Error
}

// OnUpdated overwrites the user's profile fields for a user.updated event.
func (s *UserSyncService) OnUpdated(profile *clerk.Profile) error {
	if profile.ID == "" {
		return fmt.Errorf("%w: missing user id", ErrInvalidArgument)
	}

	res := s.db.Model(&models.User{}).Where("id = ?", profile.ID).Updates(map[string]interface{}{
		"email":     profile.PrimaryEmail(),
		"name":      profile.DisplayName(),
		"image_url": profile.ImageURL,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: user %s", ErrNotFound, profile.ID)
	}
	return nil
}

// OnDeleted removes the user for a user.deleted event. Absence is not an
// error.
func (s *UserSyncService) OnDeleted(userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: missing user id", ErrInvalidArgument)
	}
	return s.db.Delete(&models.User{}, "id = ?", userID).Error
}

// EnsureUser returns the user row for a provider user id, creating it from
// the provider's current profile when the creation webhook never landed.
func (s *UserSyncService) EnsureUser(userID string) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, "id = ?", userID).Error
	if err == nil {
		return s.withEnrolledCourses(&user)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	profile, err := s.profiles.FetchUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if profile.ID != userID {
		return nil, fmt.Errorf("%w: provider returned profile %s for user %s", ErrProviderUnavailable, profile.ID, userID)
	}
	if err := s.OnCreated(profile); err != nil {
		return nil, err
	}
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return s.withEnrolledCourses(&user)
}

func (s *UserSyncService) withEnrolledCourses(user *models.User) (*models.User, error) {
	courseIDs := []string{}
	err := s.db.Model(&models.Enrollment{}).
		Where("user_id = ?", user.ID).
		Pluck("course_id", &courseIDs).Error
	if err != nil {
		return nil, err
	}
	user.EnrolledCourses = courseIDs
	return user, nil
}
