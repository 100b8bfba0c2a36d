// Package watcher reloads the webhook configuration when its file changes.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mashirou1234/yesod-auth/internal/core/domain"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const defaultDebounce = 500 * time.Millisecond

// Reloader is the part of the config provider the watcher drives.
type Reloader interface {
	Reload(ctx context.Context) (*domain.WebhookConfig, error)
}

// ConfigWatcher watches the directory holding webhooks.yaml, and the secrets
// directory when present, and triggers a debounced reload on change.
// Directories are watched rather than the file so that editors and config
// management tools replacing the file by rename are still seen.
type ConfigWatcher struct {
	watcher    *fsnotify.Watcher
	reloader   Reloader
	configPath string
	secretsDir string
	debounce   time.Duration
	log        zerolog.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// NewConfigWatcher registers the watches. secretsDir may be empty or missing.
func NewConfigWatcher(configPath, secretsDir string, debounce time.Duration, reloader Reloader, log zerolog.Logger) (*ConfigWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	cw := &ConfigWatcher{
		watcher:    w,
		reloader:   reloader,
		configPath: filepath.Clean(configPath),
		secretsDir: filepath.Clean(secretsDir),
		debounce:   debounce,
		log:        log.With().Str("component", "config_watcher").Logger(),
	}

	configDir := filepath.Dir(cw.configPath)
	if err := w.Add(configDir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", configDir, err)
	}

	if secretsDir == "" {
		cw.secretsDir = ""
	} else if info, err := os.Stat(cw.secretsDir); err == nil && info.IsDir() && cw.secretsDir != configDir {
		if err := w.Add(cw.secretsDir); err != nil {
			cw.log.Warn().Err(err).Str("dir", cw.secretsDir).Msg("cannot watch secrets directory")
		}
	}

	return cw, nil
}

// Run processes filesystem events until ctx is cancelled.
func (w *ConfigWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	defer w.stopTimer()

	w.log.Info().Str("path", w.configPath).Dur("debounce", w.debounce).Msg("watching webhook configuration")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("webhook configuration changed")
			w.trigger(ctx)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error().Err(err).Msg("config watcher error")
		}
	}
}

func (w *ConfigWatcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(event.Name)
	if name == w.configPath {
		return true
	}
	return w.secretsDir != "" && filepath.Dir(name) == w.secretsDir
}

func (w *ConfigWatcher) trigger(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.reload(ctx) })
}

func (w *ConfigWatcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *ConfigWatcher) reload(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	cfg, err := w.reloader.Reload(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("webhook configuration reload failed, keeping previous configuration")
		return
	}
	w.log.Info().Int("endpoints", len(cfg.Endpoints)).Msg("webhook configuration reloaded from file change")
}
