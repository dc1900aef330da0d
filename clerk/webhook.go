package clerk

import (
	"net/http"

	svix "github.com/svix/svix-webhooks/go"
)

// WebhookVerifier checks an inbound identity webhook's signature against the
// shared signing secret.
type WebhookVerifier interface {
	Verify(payload []byte, headers http.Header) error
}

// SvixVerifier verifies svix-signed webhook deliveries, which is the signing
// scheme the identity provider uses.
type SvixVerifier struct {
	wh *svix.Webhook
}

func NewSvixVerifier(secret string) (*SvixVerifier, error) {
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, err
	}
	return &SvixVerifier{wh: wh}, nil
}

func (v *SvixVerifier) Verify(payload []byte, headers http.Header) error {
	return v.wh.Verify(payload, headers)
}
