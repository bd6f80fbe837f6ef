package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
)

// ErrInvalidSignature is returned for any verification failure. Callers must
// not distinguish which check failed; this is a security boundary.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// WebhookVerifier verifies that an inbound webhook request was signed by
// Shopify with the integration's shared secret.
type WebhookVerifier struct {
	secret string
}

// NewWebhookVerifier creates a verifier for the given shared secret.
func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: secret}
}

// Verify computes an HMAC-SHA256 digest over the raw request body and
// compares it, in constant time, against the base64 value Shopify supplied in
// the X-Shopify-Hmac-SHA256 header.
func (v *WebhookVerifier) Verify(body []byte, signature string) error {
	if v.secret == "" || signature == "" {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}
