package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHMACWebhookSigner_SignFormat(t *testing.T) {
	s := NewHMACWebhookSigner()

	sig, ts := s.Sign(`{"event_id":"1"}`, "s3cr3t", 1700000000)

	assert.Equal(t, int64(1700000000), ts)
	assert.Regexp(t, `^sha256=[0-9a-f]{64}$`, sig)
}

func TestHMACWebhookSigner_MatchesReferenceHMAC(t *testing.T) {
	s := NewHMACWebhookSigner()
	payload := `{"event_type":"user.created"}`

	mac := hmac.New(sha256.New, []byte("key"))
	mac.Write([]byte("1700000000." + payload))
	want := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	got, _ := s.Sign(payload, "key", 1700000000)
	assert.Equal(t, want, got)
}

func TestHMACWebhookSigner_ZeroTimestampUsesClock(t *testing.T) {
	s := &HMACWebhookSigner{now: func() time.Time { return time.Unix(1750000000, 0) }}

	_, ts := s.Sign("p", "k", 0)
	assert.Equal(t, int64(1750000000), ts)
}

func TestHMACWebhookSigner_SignAndVerify(t *testing.T) {
	s := NewHMACWebhookSigner()
	cases := []struct {
		payload string
		secret  string
		ts      int64
	}{
		{`{}`, "s3cr3t", 1},
		{`{"data":{"user_id":"abc"}}`, "another-secret", 1700000000},
		{"", "k", 42},
		{`{"email":"ユーザー@example.com"}`, "秘密", 1800000000},
	}

	for _, c := range cases {
		sig, ts := s.Sign(c.payload, c.secret, c.ts)
		assert.True(t, s.Verify(c.payload, c.secret, ts, sig))
	}
}

func TestHMACWebhookSigner_AnyChangeChangesSignature(t *testing.T) {
	s := NewHMACWebhookSigner()
	base, _ := s.Sign("payload", "secret", 100)

	other, _ := s.Sign("payload!", "secret", 100)
	assert.NotEqual(t, base, other, "payload")

	other, _ = s.Sign("payload", "secret2", 100)
	assert.NotEqual(t, base, other, "secret")

	other, _ = s.Sign("payload", "secret", 101)
	assert.NotEqual(t, base, other, "timestamp")
}

func TestHMACWebhookSigner_VerifyFails(t *testing.T) {
	s := NewHMACWebhookSigner()
	sig, ts := s.Sign("payload", "right", 100)

	assert.False(t, s.Verify("payload", "wrong", ts, sig), "wrong secret")
	assert.False(t, s.Verify("tampered", "right", ts, sig), "wrong payload")
	assert.False(t, s.Verify("payload", "right", ts+1, sig), "wrong timestamp")
	assert.False(t, s.Verify("payload", "right", ts, "sha256=deadbeef"), "garbage signature")
	assert.False(t, s.Verify("payload", "right", ts, sig[len(SignaturePrefix):]), "missing prefix")
}

func TestHMACWebhookSigner_Deterministic(t *testing.T) {
	s := NewHMACWebhookSigner()
	a, _ := s.Sign("data", "key", 5)
	b, _ := s.Sign("data", "key", 5)
	assert.Equal(t, a, b)
}

func TestHMACWebhookSigner_Headers(t *testing.T) {
	s := &HMACWebhookSigner{now: func() time.Time { return time.Unix(1700000123, 0) }}
	payload := `{"event_id":"e1"}`

	h := s.Headers(payload, "s3cr3t", "user.login", "ep1")

	assert.Equal(t, "application/json", h.Get("Content-Type"))
	assert.Equal(t, "user.login", h.Get(HeaderWebhookEvent))
	assert.Equal(t, "ep1", h.Get(HeaderWebhookID))
	assert.Equal(t, "1700000123", h.Get(HeaderWebhookTimestamp))

	ts, err := strconv.ParseInt(h.Get(HeaderWebhookTimestamp), 10, 64)
	require.NoError(t, err)
	assert.True(t, s.Verify(payload, "s3cr3t", ts, h.Get(HeaderWebhookSignature)))
}

func TestSignatureBase(t *testing.T) {
	assert.Equal(t, "1700000000.{}", SignatureBase(1700000000, "{}"))
}
