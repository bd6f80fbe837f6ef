package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"testing"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifyAcceptsValidSignature(t *testing.T) {
	body := []byte(`{"id":9001}`)
	verifier := NewWebhookVerifier("secret")

	if err := verifier.Verify(body, sign("secret", body)); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestVerifyRejectsTamperedBody(t *testing.T) {
	verifier := NewWebhookVerifier("secret")
	signature := sign("secret", []byte(`{"id":9001}`))

	err := verifier.Verify([]byte(`{"id":9002}`), signature)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	body := []byte(`{"id":9001}`)
	verifier := NewWebhookVerifier("secret")

	err := verifier.Verify(body, sign("other", body))
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifyRejectsEmptySignatureAndSecret(t *testing.T) {
	body := []byte(`{}`)

	if err := NewWebhookVerifier("secret").Verify(body, ""); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature for empty signature, got %v", err)
	}
	if err := NewWebhookVerifier("").Verify(body, sign("", body)); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature for empty secret, got %v", err)
	}
}
