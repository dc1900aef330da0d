package userValidator

import (
	"strings"

	"edemy/middleware"

	"github.com/gofiber/fiber/v2"
)

// PurchaseRequest is the validated body for POST /api/user/purchase.
type PurchaseRequest struct {
	CourseID string `json:"courseId"`
}

func PurchaseCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(PurchaseRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.CourseID) == "" {
			errors["courseId"] = "Course ID is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPurchase", reqData)
		return c.Next()
	}
}

// ProgressUpdateRequest is the validated body for POST /api/user/update-course-progress.
type ProgressUpdateRequest struct {
	CourseID  string `json:"courseId"`
	LectureID string `json:"lectureId"`
}

func UpdateCourseProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ProgressUpdateRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.CourseID) == "" {
			errors["courseId"] = "Course ID is required!"
		}
		if strings.TrimSpace(reqData.LectureID) == "" {
			errors["lectureId"] = "Lecture ID is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProgressUpdate", reqData)
		return c.Next()
	}
}

// ProgressQueryRequest is the validated body for POST /api/user/get-course-progress.
type ProgressQueryRequest struct {
	CourseID string `json:"courseId"`
}

func GetCourseProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ProgressQueryRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.CourseID) == "" {
			errors["courseId"] = "Course ID is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProgressQuery", reqData)
		return c.Next()
	}
}

// RatingRequest is the validated body for POST /api/user/add-rating.
type RatingRequest struct {
	CourseID string `json:"courseId"`
	Rating   *int   `json:"rating"`
}

func AddRating() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RatingRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.CourseID) == "" {
			errors["courseId"] = "Course ID is required!"
		}
		if reqData.Rating == nil {
			errors["rating"] = "Rating is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRating", reqData)
		return c.Next()
	}
}
