package payments

import (
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// MetadataPurchaseID is the checkout session metadata key carrying the
// purchase id, the correlation token joining payment events back to the
// purchase row.
const MetadataPurchaseID = "purchaseId"

// CheckoutParams describes one hosted checkout session.
type CheckoutParams struct {
	PurchaseID  string
	ProductName string
	UnitAmount  int64 // integer minor units, per the payment SDK
	Currency    string
	SuccessURL  string
	CancelURL   string
}

// Client is the payment provider surface the purchase flow depends on.
// Constructed once in main and injected, so tests can substitute a fake.
type Client interface {
	CreateCheckoutSession(p CheckoutParams) (string, error)
	PurchaseIDForPaymentIntent(paymentIntentID string) (string, error)
	VerifyEvent(payload []byte, sigHeader string) (stripe.Event, error)
}

// StripeClient implements Client against the Stripe API.
type StripeClient struct {
	api           *client.API
	webhookSecret string
}

func NewStripeClient(secretKey, webhookSecret string) *StripeClient {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeClient{api: api, webhookSecret: webhookSecret}
}

// CreateCheckoutSession creates a hosted checkout session and returns its URL.
func (s *StripeClient) CreateCheckoutSession(p CheckoutParams) (string, error) {
	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(p.Currency),
					UnitAmount: stripe.Int64(p.UnitAmount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.ProductName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.AddMetadata(MetadataPurchaseID, p.PurchaseID)

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

// PurchaseIDForPaymentIntent resolves the purchase id embedded in the
// checkout session that produced the given payment intent.
func (s *StripeClient) PurchaseIDForPaymentIntent(paymentIntentID string) (string, error) {
	params := &stripe.CheckoutSessionListParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	iter := s.api.CheckoutSessions.List(params)
	for iter.Next() {
		sess := iter.CheckoutSession()
		if id, ok := sess.Metadata[MetadataPurchaseID]; ok && id != "" {
			return id, nil
		}
	}
	if err := iter.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("no checkout session found for payment intent %s", paymentIntentID)
}

// VerifyEvent checks the webhook signature and returns the parsed event.
func (s *StripeClient) VerifyEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, s.webhookSecret)
}
