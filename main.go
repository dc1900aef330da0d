package main

import (
	"log"

	"edemy/clerk"
	"edemy/config"
	userController "edemy/controllers/user"
	"edemy/controllers/webhooks"
	"edemy/database"
	"edemy/models"
	"edemy/payments"
	userRoutes "edemy/routers/userRoutes"
	webhookRoutes "edemy/routers/webhookRoutes"
	"edemy/services"
	"edemy/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	// External provider clients
	clerkClient := clerk.NewClient(cfg.ClerkAPIBaseURL, cfg.ClerkSecretKey)
	clerkVerifier, err := clerk.NewSvixVerifier(cfg.ClerkWebhookSecret)
	if err != nil {
		log.Fatalf("Error initializing identity webhook verifier: %v", err)
	}
	stripeClient := payments.NewStripeClient(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	// Services
	userSync := services.NewUserSyncService(db, clerkClient)
	purchases := services.NewPurchaseService(db, stripeClient, cfg.Currency)
	purchases.Notify = func(user *models.User, course *models.Course) {
		if err := utils.SendEnrollmentEmail(cfg, user.Email, user.Name, course.CourseTitle); err != nil {
			log.Printf("Failed to send enrollment email to %s: %v", user.Email, err)
		}
	}
	progress := services.NewProgressService(db, cfg.CompleteOnAnyLecture)
	ratings := services.NewRatingService(db)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization,Origin",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Edemy API is working fine!")
	})

	// Webhooks first: they need the raw request body.
	webhookRoutes.SetupWebhookRoutes(app,
		webhooks.NewClerkController(db, clerkVerifier, userSync),
		webhooks.NewStripeController(db, stripeClient, purchases),
	)

	userRoutes.SetupUserRoutes(app, cfg, userController.New(db, userSync, purchases, progress, ratings))

	sweeper := utils.StartWebhookLogSweeper(db, cfg.WebhookRetentionDays)
	defer sweeper.Stop()

	log.Printf("Server is running on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
