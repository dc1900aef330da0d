package services

import (
	"fmt"
	"testing"

	"edemy/database"
	"edemy/models"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id string) models.User {
	t.Helper()
	user := models.User{ID: id, Email: id + "@example.com", Name: "Test User"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedCourse(t *testing.T, db *gorm.DB, title string, price, discount float64, lectureIDs ...string) models.Course {
	t.Helper()

	var lectures []models.Lecture
	for i, id := range lectureIDs {
		lectures = append(lectures, models.Lecture{LectureID: id, LectureTitle: fmt.Sprintf("Lecture %d", i+1), LectureOrder: i + 1})
	}
	course := models.Course{
		CourseTitle: title,
		CoursePrice: price,
		Discount:    discount,
		CourseContent: datatypes.NewJSONType([]models.Chapter{
			{ChapterID: "ch1", ChapterTitle: "Chapter 1", ChapterOrder: 1, ChapterContent: lectures},
		}),
	}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func enroll(t *testing.T, db *gorm.DB, userID, courseID string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Enrollment{UserID: userID, CourseID: courseID}).Error)
}
