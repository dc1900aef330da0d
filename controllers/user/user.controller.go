package userController

import (
	"errors"
	"log"

	"edemy/middleware"
	"edemy/models"
	"edemy/services"
	userValidator "edemy/validators/user"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Controller serves the authenticated /api/user endpoints.
type Controller struct {
	db        *gorm.DB
	users     *services.UserSyncService
	purchases *services.PurchaseService
	progress  *services.ProgressService
	ratings   *services.RatingService
}

func New(db *gorm.DB, users *services.UserSyncService, purchases *services.PurchaseService, progress *services.ProgressService, ratings *services.RatingService) *Controller {
	return &Controller{db: db, users: users, purchases: purchases, progress: progress, ratings: ratings}
}

func authedUserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals("userId").(string)
	return userID, ok && userID != ""
}

// serviceError maps service-layer sentinel errors onto HTTP responses.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidArgument):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
	case errors.Is(err, services.ErrNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, err.Error(), nil)
	case errors.Is(err, services.ErrForbidden):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, err.Error(), nil)
	case errors.Is(err, services.ErrConflict):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, err.Error(), nil)
	case errors.Is(err, services.ErrProviderUnavailable):
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, err.Error(), nil)
	default:
		log.Printf("Unexpected error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong. Please try again.", nil)
	}
}

// GetUserData returns the caller's user record, creating it from the
// identity provider when the creation webhook never arrived.
func (ctl *Controller) GetUserData(c *fiber.Ctx) error {
	userID, ok := authedUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	user, err := ctl.users.EnsureUser(userID)
	if err != nil {
		if errors.Is(err, services.ErrProviderUnavailable) {
			return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to load user. Please try logging out and logging in again.", nil)
		}
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User data fetched successfully!", fiber.Map{
		"user": user,
	})
}

// GetEnrolledCourses lists the courses the caller is enrolled in.
func (ctl *Controller) GetEnrolledCourses(c *fiber.Ctx) error {
	userID, ok := authedUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := ctl.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found. Please try logging out and logging in again.", nil)
		}
		return serviceError(c, err)
	}

	courses := []models.Course{}
	if err := ctl.db.
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.user_id = ?", userID).
		Find(&courses).Error; err != nil {
		return serviceError(c, err)
	}

	// Surface each course's enrolled-student id set from the join rows.
	for i := range courses {
		studentIDs := []string{}
		if err := ctl.db.Model(&models.Enrollment{}).
			Where("course_id = ?", courses[i].ID).
			Pluck("user_id", &studentIDs).Error; err != nil {
			return serviceError(c, err)
		}
		courses[i].EnrolledStudents = studentIDs
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled courses fetched successfully!", fiber.Map{
		"enrolledCourses": courses,
	})
}

// PurchaseCourse creates a pending purchase and returns the checkout URL.
func (ctl *Controller) PurchaseCourse(c *fiber.Ctx) error {
	userID, ok := authedUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := c.Locals("validatedPurchase").(*userValidator.PurchaseRequest)
	origin := c.Get("Origin")

	sessionURL, err := ctl.purchases.Initiate(userID, reqData.CourseID, origin)
	if err != nil {
		if errors.Is(err, services.ErrProviderUnavailable) {
			log.Printf("Checkout session creation failed for user %s: %v", userID, err)
			return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Payment provider is unavailable. Please try again.", nil)
		}
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Checkout session created!", fiber.Map{
		"session_url": sessionURL,
	})
}

// UpdateCourseProgress records a completed lecture.
func (ctl *Controller) UpdateCourseProgress(c *fiber.Ctx) error {
	userID, ok := authedUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := c.Locals("validatedProgressUpdate").(*userValidator.ProgressUpdateRequest)

	alreadyCompleted, err := ctl.progress.RecordCompletion(userID, reqData.CourseID, reqData.LectureID)
	if err != nil {
		return serviceError(c, err)
	}
	if alreadyCompleted {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture already completed!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated!", nil)
}

// GetCourseProgress returns the caller's progress for one course. No
// progress yet is a valid empty result, not an error.
func (ctl *Controller) GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := authedUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := c.Locals("validatedProgressQuery").(*userValidator.ProgressQueryRequest)

	progress, err := ctl.progress.GetProgress(userID, reqData.CourseID)
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"progressData": progress,
	})
}

// AddRating records or updates the caller's rating on a course.
func (ctl *Controller) AddRating(c *fiber.Ctx) error {
	userID, ok := authedUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := c.Locals("validatedRating").(*userValidator.RatingRequest)

	if err := ctl.ratings.Rate(userID, reqData.CourseID, *reqData.Rating); err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Rating added!", nil)
}
