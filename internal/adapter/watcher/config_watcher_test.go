package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mashirou1234/yesod-auth/internal/core/domain"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReloader struct {
	calls atomic.Int32
	err   error
}

func (r *countingReloader) Reload(context.Context) (*domain.WebhookConfig, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return domain.EmptyWebhookConfig(), nil
}

func startWatcher(t *testing.T, configPath, secretsDir string, r Reloader) context.CancelFunc {
	t.Helper()
	w, err := NewConfigWatcher(configPath, secretsDir, 50*time.Millisecond, r, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	// Let the event loop start.
	time.Sleep(50 * time.Millisecond)
	return cancel
}

func TestConfigWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "webhooks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoints: []\n"), 0o600))

	r := &countingReloader{}
	startWatcher(t, path, "", r)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("endpoints: []\n# edit\n"), 0o600))
	}

	assert.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), r.calls.Load(), "rapid writes coalesce into one reload")
}

func TestConfigWatcher_ReloadsOnAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "webhooks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoints: []\n"), 0o600))

	r := &countingReloader{}
	startWatcher(t, path, "", r)

	tmp := filepath.Join(dir, ".webhooks.yaml.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("endpoints: []\n"), 0o600))
	require.NoError(t, os.Rename(tmp, path))

	assert.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 2*time.Second, 20*time.Millisecond)
}

func TestConfigWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "webhooks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoints: []\n"), 0o600))

	r := &countingReloader{}
	startWatcher(t, path, "", r)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: {}\n"), 0o600))
	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, r.calls.Load())
}

func TestConfigWatcher_SecretsDirectory(t *testing.T) {
	dir := t.TempDir()
	secrets := t.TempDir()
	path := filepath.Join(dir, "webhooks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoints: []\n"), 0o600))

	r := &countingReloader{}
	startWatcher(t, path, secrets, r)

	require.NoError(t, os.WriteFile(filepath.Join(secrets, "webhook_secret_crm"), []byte("s3cr3t"), 0o600))
	assert.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 2*time.Second, 20*time.Millisecond)
}

func TestConfigWatcher_ReloadErrorKeepsRunning(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "webhooks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoints: []\n"), 0o600))

	r := &countingReloader{err: errors.New("yaml: bad indentation")}
	startWatcher(t, path, "", r)

	require.NoError(t, os.WriteFile(path, []byte("endpoints: ["), 0o600))
	assert.Eventually(t, func() bool { return r.calls.Load() == 1 }, 2*time.Second, 20*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("endpoints: []\n"), 0o600))
	assert.Eventually(t, func() bool { return r.calls.Load() == 2 }, 2*time.Second, 20*time.Millisecond)
}

func TestConfigWatcher_MissingDirectory(t *testing.T) {
	_, err := NewConfigWatcher(filepath.Join(t.TempDir(), "nope", "webhooks.yaml"), "", 0, &countingReloader{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestRelevant(t *testing.T) {
	w := &ConfigWatcher{configPath: "/etc/yesod/webhooks.yaml", secretsDir: "/run/secrets"}

	assert.True(t, w.relevant(fsnotify.Event{Name: "/etc/yesod/webhooks.yaml", Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: "/run/secrets/webhook_secret_crm", Op: fsnotify.Create}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/etc/yesod/config.yaml", Op: fsnotify.Write}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/etc/yesod/webhooks.yaml", Op: fsnotify.Chmod}))
}
