package userRoutes

import (
	"edemy/config"
	userController "edemy/controllers/user"
	"edemy/middleware"
	userValidator "edemy/validators/user"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, cfg *config.Config, ctl *userController.Controller) {
	userGroup := app.Group("/api/user", middleware.AuthMiddleware(cfg))

	userGroup.Get("/data", ctl.GetUserData)
	userGroup.Get("/enrolled-courses", ctl.GetEnrolledCourses)
	userGroup.Post("/purchase", userValidator.PurchaseCourse(), ctl.PurchaseCourse)
	userGroup.Post("/update-course-progress", userValidator.UpdateCourseProgress(), ctl.UpdateCourseProgress)
	userGroup.Post("/get-course-progress", userValidator.GetCourseProgress(), ctl.GetCourseProgress)
	userGroup.Post("/add-rating", userValidator.AddRating(), ctl.AddRating)
}
