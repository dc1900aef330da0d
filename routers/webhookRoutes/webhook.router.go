package webhookRoutes

import (
	"edemy/controllers/webhooks"

	"github.com/gofiber/fiber/v2"
)

// SetupWebhookRoutes mounts the provider webhook endpoints. These must be
// registered before any body-parsing middleware so signature verification
// sees the raw payload.
func SetupWebhookRoutes(app *fiber.App, clerkCtl *webhooks.ClerkController, stripeCtl *webhooks.StripeController) {
	app.Post("/clerk", clerkCtl.Handle)
	app.Post("/stripe", stripeCtl.Handle)
}
