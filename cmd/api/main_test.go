package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mashirou1234/yesod-auth/internal/core/domain"
	"github.com/mashirou1234/yesod-auth/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSign_FixedTimestamp(t *testing.T) {
	payload := `{"event_id":"abc","event_type":"user.created"}`

	out, err := runCLI(t, payload+"\n", "sign", "--secret", "s3cret", "--timestamp", "1700000000")
	require.NoError(t, err)

	want, _ := service.NewHMACWebhookSigner().Sign(payload, "s3cret", 1700000000)
	assert.Equal(t, "X-Webhook-Signature: "+want+"\nX-Webhook-Timestamp: 1700000000\n", out)
}

func TestSign_FullHeadersFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a":1}`), 0o600))

	out, err := runCLI(t, "", "sign", "--secret", "s3cret", "--event", domain.EventUserDeleted, path)
	require.NoError(t, err)

	assert.Contains(t, out, "Content-Type: application/json")
	assert.Contains(t, out, "X-Webhook-Event: user.deleted")
	assert.Contains(t, out, "X-Webhook-Signature: sha256=")
	assert.Contains(t, out, "X-Webhook-Id: ")
}

func TestSign_RequiresSecret(t *testing.T) {
	_, err := runCLI(t, "{}", "sign")
	assert.ErrorContains(t, err, "--secret")
}

func TestConfigCheck_MasksSecrets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webhooks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`endpoints:
  - id: crm
    url: https://crm.example.com/hook
    secret: very-secret-value
    events: [user.updated, user.created]
  - id: broken
    url: https://broken.example.com/hook
settings:
  max_retries: 3
`), 0o600))

	out, err := runCLI(t, "", "config", "check", "--file", path)
	require.NoError(t, err)

	assert.Contains(t, out, "1 endpoint(s)")
	assert.Contains(t, out, "max_retries=3")
	assert.Contains(t, out, "user.created,user.updated")
	assert.Contains(t, out, "********")
	assert.NotContains(t, out, "very-secret-value")
	assert.NotContains(t, out, "broken")
}
