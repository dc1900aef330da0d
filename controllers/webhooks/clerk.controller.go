package webhooks

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"edemy/clerk"
	"edemy/middleware"
	"edemy/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var svixHeaders = []string{"svix-id", "svix-timestamp", "svix-signature"}

// ClerkController ingests identity provider webhooks on POST /clerk.
type ClerkController struct {
	db       *gorm.DB
	verifier clerk.WebhookVerifier
	users    *services.UserSyncService
}

func NewClerkController(db *gorm.DB, verifier clerk.WebhookVerifier, users *services.UserSyncService) *ClerkController {
	return &ClerkController{db: db, verifier: verifier, users: users}
}

func (ctl *ClerkController) Handle(c *fiber.Ctx) error {
	// Signature verification needs the unparsed body.
	payload := c.Body()
	if len(payload) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No request body", nil)
	}

	headers := http.Header{}
	for _, name := range svixHeaders {
		if value := c.Get(name); value != "" {
			headers.Set(name, value)
		}
	}

	if err := ctl.verifier.Verify(payload, headers); err != nil {
		log.Printf("Identity webhook verification failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Webhook verification failed", nil)
	}

	var event clerk.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid webhook payload", nil)
	}

	deliveryID := c.Get("svix-id")
	if deliveryID != "" {
		duplicate, err := markEventSeen(ctl.db, "clerk", deliveryID, event.Type)
		if err != nil {
			log.Printf("Error recording identity webhook event %s: %v", deliveryID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error processing event", nil)
		}
		if duplicate {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Event already processed", nil)
		}
	}

	switch event.Type {
	case "user.created":
		if err := ctl.users.OnCreated(&event.Data); err != nil {
			log.Printf("Error creating user %s: %v", event.Data.ID, err)
			releaseEvent(ctl.db, "clerk", deliveryID)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error creating user", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "User created successfully", nil)

	case "user.updated":
		err := ctl.users.OnUpdated(&event.Data)
		if errors.Is(err, services.ErrNotFound) {
			// Out-of-order delivery: the creation event may still land, so
			// let a retried update through.
			releaseEvent(ctl.db, "clerk", deliveryID)
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found", nil)
		}
		if err != nil {
			log.Printf("Error updating user %s: %v", event.Data.ID, err)
			releaseEvent(ctl.db, "clerk", deliveryID)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error updating user", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "User updated successfully", nil)

	case "user.deleted":
		if err := ctl.users.OnDeleted(event.Data.ID); err != nil {
			log.Printf("Error deleting user %s: %v", event.Data.ID, err)
			releaseEvent(ctl.db, "clerk", deliveryID)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error deleting user", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully", nil)

	default:
		// Acknowledge so the provider stops retrying event types we
		// don't consume.
		log.Printf("Unhandled identity event type %s", event.Type)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Unhandled event type", nil)
	}
}
