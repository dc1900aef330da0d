package webhooks

import (
	"encoding/json"
	"log"

	"edemy/middleware"
	"edemy/payments"
	"edemy/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v76"
	"gorm.io/gorm"
)

// StripeController ingests payment provider webhooks on POST /stripe.
type StripeController struct {
	db        *gorm.DB
	payments  payments.Client
	purchases *services.PurchaseService
}

func NewStripeController(db *gorm.DB, pay payments.Client, purchases *services.PurchaseService) *StripeController {
	return &StripeController{db: db, payments: pay, purchases: purchases}
}

func (ctl *StripeController) Handle(c *fiber.Ctx) error {
	// Signature verification needs the unparsed body.
	payload := c.Body()

	event, err := ctl.payments.VerifyEvent(payload, c.Get("Stripe-Signature"))
	if err != nil {
		log.Printf("Payment webhook verification failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Webhook verification failed", nil)
	}

	if event.ID != "" {
		duplicate, err := markEventSeen(ctl.db, "stripe", event.ID, string(event.Type))
		if err != nil {
			log.Printf("Error recording payment webhook event %s: %v", event.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error processing event", nil)
		}
		if duplicate {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
		}
	}

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid event payload", nil)
		}

		purchaseID, err := ctl.payments.PurchaseIDForPaymentIntent(intent.ID)
		if err != nil {
			// Without the correlation token the event is not actionable;
			// acknowledge so the provider stops retrying.
			log.Printf("No purchase id resolvable for payment intent %s: %v", intent.ID, err)
			break
		}

		if event.Type == "payment_intent.succeeded" {
			err = ctl.purchases.OnPaymentSucceeded(purchaseID)
		} else {
			err = ctl.purchases.OnPaymentFailed(purchaseID)
		}
		if err != nil {
			// Transient store failure: a 5xx makes the provider retry.
			log.Printf("Error handling %s for purchase %s: %v", event.Type, purchaseID, err)
			releaseEvent(ctl.db, "stripe", event.ID)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Error processing event", nil)
		}

	default:
		log.Printf("Unhandled payment event type %s", event.Type)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
}
