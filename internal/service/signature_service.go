package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"time"
)

// Webhook request headers.
const (
	HeaderWebhookSignature = "X-Webhook-Signature"
	HeaderWebhookTimestamp = "X-Webhook-Timestamp"
	HeaderWebhookEvent     = "X-Webhook-Event"
	HeaderWebhookID        = "X-Webhook-ID"

	SignaturePrefix = "sha256="
)

// HMACWebhookSigner implements ports.WebhookSigner with HMAC-SHA256 over
// "{timestamp}.{payload}".
type HMACWebhookSigner struct {
	now func() time.Time
}

// NewHMACWebhookSigner creates a new signer using the wall clock.
func NewHMACWebhookSigner() *HMACWebhookSigner {
	return &HMACWebhookSigner{now: time.Now}
}

// Sign returns the prefixed signature for payload. A zero timestamp means now.
func (s *HMACWebhookSigner) Sign(payload, secret string, timestamp int64) (string, int64) {
	if timestamp == 0 {
		timestamp = s.now().Unix()
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(SignatureBase(timestamp, payload)))
	return SignaturePrefix + hex.EncodeToString(mac.Sum(nil)), timestamp
}

// Verify recomputes the signature and compares it in constant time.
func (s *HMACWebhookSigner) Verify(payload, secret string, timestamp int64, signature string) bool {
	expected, _ := s.Sign(payload, secret, timestamp)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Headers builds the full header set for one delivery request.
func (s *HMACWebhookSigner) Headers(payload, secret, eventType, webhookID string) http.Header {
	signature, ts := s.Sign(payload, secret, 0)

	h := make(http.Header, 5)
	h.Set("Content-Type", "application/json")
	h.Set(HeaderWebhookSignature, signature)
	h.Set(HeaderWebhookTimestamp, strconv.FormatInt(ts, 10))
	h.Set(HeaderWebhookEvent, eventType)
	h.Set(HeaderWebhookID, webhookID)
	return h
}

// SignatureBase is the string the HMAC is computed over.
func SignatureBase(timestamp int64, payload string) string {
	return strconv.FormatInt(timestamp, 10) + "." + payload
}
