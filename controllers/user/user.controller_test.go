package userController_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"edemy/clerk"
	"edemy/config"
	userController "edemy/controllers/user"
	"edemy/database"
	"edemy/models"
	userRoutes "edemy/routers/userRoutes"
	"edemy/services"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTKey = "test-secret"

type stubProfiles struct{}

func (stubProfiles) FetchUser(userID string) (*clerk.Profile, error) {
	return &clerk.Profile{ID: userID, FirstName: "Stub", LastName: "User"}, nil
}

type downProfiles struct{}

func (downProfiles) FetchUser(userID string) (*clerk.Profile, error) {
	return nil, errors.New("user API unreachable")
}

func newTestApp(t *testing.T, profiles clerk.ProfileFetcher) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:usercontroller%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{JWTKey: testJWTKey, Currency: "usd"}
	users := services.NewUserSyncService(db, profiles)
	progress := services.NewProgressService(db, false)
	ratings := services.NewRatingService(db)

	app := fiber.New()
	userRoutes.SetupUserRoutes(app, cfg, userController.New(db, users, nil, progress, ratings))
	return app, db
}

func sessionToken(t *testing.T, userID string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": userID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTKey))
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	payload := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &payload))
	}
	return resp, payload
}

func TestUserDataRequiresAuth(t *testing.T) {
	app, _ := newTestApp(t, stubProfiles{})

	resp, _ := doRequest(t, app, fiber.MethodGet, "/api/user/data", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestUserDataRepairsMissingUser(t *testing.T) {
	app, db := newTestApp(t, stubProfiles{})

	resp, payload := doRequest(t, app, fiber.MethodGet, "/api/user/data", sessionToken(t, "user_1"), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, payload["success"])

	// The read-repair path created the row from the provider profile.
	var user models.User
	require.NoError(t, db.First(&user, "id = ?", "user_1").Error)
	assert.Equal(t, "Stub User", user.Name)
}

func TestUserDataProviderUnavailable(t *testing.T) {
	app, db := newTestApp(t, downProfiles{})

	resp, payload := doRequest(t, app, fiber.MethodGet, "/api/user/data", sessionToken(t, "user_1"), nil)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, false, payload["success"])

	// No user row is created when the repair fetch fails.
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAddRatingValidation(t *testing.T) {
	app, db := newTestApp(t, stubProfiles{})
	require.NoError(t, db.Create(&models.User{ID: "user_1"}).Error)

	token := sessionToken(t, "user_1")

	resp, _ := doRequest(t, app, fiber.MethodPost, "/api/user/add-rating", token, fiber.Map{"courseId": "c1"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	course := models.Course{CourseTitle: "Go Basics", CoursePrice: 10}
	require.NoError(t, db.Create(&course).Error)

	// Not enrolled yet.
	resp, _ = doRequest(t, app, fiber.MethodPost, "/api/user/add-rating", token, fiber.Map{"courseId": course.ID, "rating": 4})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	require.NoError(t, db.Create(&models.Enrollment{UserID: "user_1", CourseID: course.ID}).Error)

	resp, _ = doRequest(t, app, fiber.MethodPost, "/api/user/add-rating", token, fiber.Map{"courseId": course.ID, "rating": 4})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Out-of-range values are rejected by the service.
	resp, _ = doRequest(t, app, fiber.MethodPost, "/api/user/add-rating", token, fiber.Map{"courseId": course.ID, "rating": 6})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateCourseProgress(t *testing.T) {
	app, db := newTestApp(t, stubProfiles{})
	require.NoError(t, db.Create(&models.User{ID: "user_1"}).Error)
	course := models.Course{CourseTitle: "Go Basics", CoursePrice: 10}
	require.NoError(t, db.Create(&course).Error)

	token := sessionToken(t, "user_1")
	body := fiber.Map{"courseId": course.ID, "lectureId": "lec1"}

	resp, payload := doRequest(t, app, fiber.MethodPost, "/api/user/update-course-progress", token, body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Progress updated!", payload["message"])

	resp, payload = doRequest(t, app, fiber.MethodPost, "/api/user/update-course-progress", token, body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Lecture already completed!", payload["message"])
}

func TestGetCourseProgressEmpty(t *testing.T) {
	app, db := newTestApp(t, stubProfiles{})
	require.NoError(t, db.Create(&models.User{ID: "user_1"}).Error)

	resp, payload := doRequest(t, app, fiber.MethodPost, "/api/user/get-course-progress", sessionToken(t, "user_1"), fiber.Map{"courseId": "c1"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, payload["success"])
}

func TestEnrolledCourses(t *testing.T) {
	app, db := newTestApp(t, stubProfiles{})
	require.NoError(t, db.Create(&models.User{ID: "user_1"}).Error)
	course := models.Course{CourseTitle: "Go Basics", CoursePrice: 10}
	require.NoError(t, db.Create(&course).Error)
	require.NoError(t, db.Create(&models.Enrollment{UserID: "user_1", CourseID: course.ID}).Error)

	resp, payload := doRequest(t, app, fiber.MethodGet, "/api/user/enrolled-courses", sessionToken(t, "user_1"), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data, ok := payload["data"].(map[string]interface{})
	require.True(t, ok)
	courses, ok := data["enrolledCourses"].([]interface{})
	require.True(t, ok)
	require.Len(t, courses, 1)

	// Each serialized course carries its enrolled-student id set.
	serialized, ok := courses[0].(map[string]interface{})
	require.True(t, ok)
	students, ok := serialized["enrolledStudents"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"user_1"}, students)
}
