package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/mashirou1234/yesod-auth/internal/core/domain"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// secretRefPattern matches ${VAR_NAME} secret references.
var secretRefPattern = regexp.MustCompile(`^\$\{(\w+)\}$`)

type secretSource int

const (
	secretLiteral secretSource = iota
	secretFile
	secretEnv
)

// WebhookConfigLoader loads webhooks.yaml and publishes immutable snapshots.
// Readers call Current and never see a partially built config.
type WebhookConfigLoader struct {
	path       string
	secretsDir string
	lookupEnv  func(string) (string, bool)
	log        zerolog.Logger

	mu      sync.Mutex // serialises loads
	current atomic.Pointer[domain.WebhookConfig]
}

// NewWebhookConfigLoader creates a loader. Nothing is read until Load.
func NewWebhookConfigLoader(path, secretsDir string, log zerolog.Logger) *WebhookConfigLoader {
	return &WebhookConfigLoader{
		path:       path,
		secretsDir: secretsDir,
		lookupEnv:  os.LookupEnv,
		log:        log.With().Str("component", "webhook_config").Logger(),
	}
}

// Path returns the file the loader reads.
func (l *WebhookConfigLoader) Path() string {
	return l.path
}

// Current returns the active snapshot, or an empty config before the first load.
func (l *WebhookConfigLoader) Current() *domain.WebhookConfig {
	if cfg := l.current.Load(); cfg != nil {
		return cfg
	}
	return domain.EmptyWebhookConfig()
}

// EndpointsForEvent returns the enabled subscribers of eventType from the
// current snapshot.
func (l *WebhookConfigLoader) EndpointsForEvent(eventType string) []domain.WebhookEndpoint {
	return l.Current().EndpointsForEvent(eventType)
}

// Reload is Load under another name; it exists for the admin API and watcher.
func (l *WebhookConfigLoader) Reload(ctx context.Context) (*domain.WebhookConfig, error) {
	return l.Load(ctx)
}

// Load reads the file and swaps in the result.
//
// A missing file yields an empty config. A file that cannot be read or parsed
// leaves the previous snapshot active and returns the error. Invalid endpoints
// are dropped individually with a warning.
func (l *WebhookConfigLoader) Load(ctx context.Context) (*domain.WebhookConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.log.Info().Str("path", l.path).Msg("webhook configuration not found, webhooks disabled")
			cfg := domain.EmptyWebhookConfig()
			l.current.Store(cfg)
			return cfg, nil
		}
		l.log.Error().Err(err).Str("path", l.path).Msg("failed to read webhook configuration, keeping previous")
		return nil, fmt.Errorf("reading webhook config: %w", err)
	}

	cfg, err := l.parse(data)
	if err != nil {
		l.log.Error().Err(err).Str("path", l.path).Msg("failed to parse webhook configuration, keeping previous")
		return nil, err
	}

	l.current.Store(cfg)
	l.log.Info().
		Int("endpoints", len(cfg.Endpoints)).
		Str("path", l.path).
		Msg("webhook configuration loaded")
	return cfg, nil
}

type rawWebhookFile struct {
	Endpoints yaml.Node `yaml:"endpoints"`
	Settings  yaml.Node `yaml:"settings"`
}

type rawEndpoint struct {
	ID          string   `yaml:"id"`
	URL         string   `yaml:"url"`
	Secret      string   `yaml:"secret"`
	Events      []string `yaml:"events"`
	Enabled     *bool    `yaml:"enabled"`
	Description string   `yaml:"description"`
}

type rawSettings struct {
	MaxRetries             *int `yaml:"max_retries"`
	RetryBaseDelaySeconds  *int `yaml:"retry_base_delay_seconds"`
	DeliveryTimeoutSeconds *int `yaml:"delivery_timeout_seconds"`
	LogRetentionDays       *int `yaml:"log_retention_days"`
}

func (l *WebhookConfigLoader) parse(data []byte) (*domain.WebhookConfig, error) {
	var raw rawWebhookFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing webhook config: %w", err)
	}

	cfg := &domain.WebhookConfig{
		Endpoints: l.parseEndpoints(&raw.Endpoints),
		Settings:  l.parseSettings(&raw.Settings),
	}
	return cfg, nil
}

func (l *WebhookConfigLoader) parseEndpoints(node *yaml.Node) []domain.WebhookEndpoint {
	if node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.Tag == "!!null") {
		return nil
	}
	if node.Kind != yaml.SequenceNode {
		l.log.Warn().Int("line", node.Line).Msg("webhook 'endpoints' is not a list, ignoring")
		return nil
	}

	endpoints := make([]domain.WebhookEndpoint, 0, len(node.Content))
	seen := make(map[string]struct{}, len(node.Content))
	envSecrets := make(map[string]struct{})

	for _, item := range node.Content {
		var re rawEndpoint
		if err := item.Decode(&re); err != nil {
			l.log.Warn().Err(err).Int("line", item.Line).Msg("skipping invalid webhook endpoint")
			continue
		}

		ep, varName, err := l.buildEndpoint(re)
		if err != nil {
			l.log.Warn().Err(err).Int("line", item.Line).Msg("skipping invalid webhook endpoint")
			continue
		}
		if _, dup := seen[ep.ID]; dup {
			l.log.Warn().Str("endpoint_id", ep.ID).Msg("skipping duplicate webhook endpoint id")
			continue
		}
		seen[ep.ID] = struct{}{}
		if varName != "" {
			envSecrets[varName] = struct{}{}
		}
		endpoints = append(endpoints, ep)
	}

	for name := range envSecrets {
		l.log.Warn().
			Str("variable", name).
			Str("secret_file", filepath.Join(l.secretsDir, strings.ToLower(name))).
			Msg("webhook secret loaded from environment variable, prefer a secret file in production")
	}

	return endpoints
}

// buildEndpoint validates one endpoint. varName is set when the secret came
// from the environment.
func (l *WebhookConfigLoader) buildEndpoint(re rawEndpoint) (ep domain.WebhookEndpoint, varName string, err error) {
	switch {
	case re.ID == "":
		return ep, "", errors.New("endpoint missing 'id'")
	case re.URL == "":
		return ep, "", fmt.Errorf("endpoint %q missing 'url'", re.ID)
	case re.Secret == "":
		return ep, "", fmt.Errorf("endpoint %q missing 'secret'", re.ID)
	case len(re.Events) == 0:
		return ep, "", fmt.Errorf("endpoint %q missing 'events'", re.ID)
	}

	if !strings.HasPrefix(re.URL, "https://") {
		return ep, "", fmt.Errorf("endpoint %q url must use https: %s", re.ID, re.URL)
	}

	secret, source, name := l.resolveSecret(re.Secret)
	if secret == "" {
		return ep, "", fmt.Errorf("endpoint %q secret could not be resolved: %s", re.ID, re.Secret)
	}
	switch source {
	case secretLiteral:
		l.log.Warn().Str("endpoint_id", re.ID).Msg("endpoint uses a literal secret, use ${VAR_NAME} or a secret file instead")
	case secretEnv:
		varName = name
	}

	enabled := true
	if re.Enabled != nil {
		enabled = *re.Enabled
	}

	return domain.WebhookEndpoint{
		ID:          re.ID,
		URL:         re.URL,
		Secret:      secret,
		Events:      re.Events,
		Enabled:     enabled,
		Description: re.Description,
	}, varName, nil
}

// resolveSecret resolves ${VAR} against <secretsDir>/<var lowercased>, then
// the environment. Anything else is taken literally.
func (l *WebhookConfigLoader) resolveSecret(ref string) (string, secretSource, string) {
	m := secretRefPattern.FindStringSubmatch(ref)
	if m == nil {
		return ref, secretLiteral, ""
	}
	name := m[1]

	if l.secretsDir != "" {
		p := filepath.Join(l.secretsDir, strings.ToLower(name))
		b, err := os.ReadFile(p)
		switch {
		case err == nil:
			if v := strings.TrimSpace(string(b)); v != "" {
				return v, secretFile, name
			}
		case !errors.Is(err, fs.ErrNotExist):
			l.log.Warn().Err(err).Str("secret_file", p).Msg("failed to read secret file")
		}
	}

	if v, ok := l.lookupEnv(name); ok && v != "" {
		return v, secretEnv, name
	}
	return "", secretLiteral, name
}

func (l *WebhookConfigLoader) parseSettings(node *yaml.Node) domain.WebhookSettings {
	s := domain.DefaultWebhookSettings()
	if node.Kind == 0 {
		return s
	}

	var rs rawSettings
	if err := node.Decode(&rs); err != nil {
		l.log.Warn().Err(err).Msg("invalid webhook settings, using defaults")
		return s
	}

	// limit 0 means unbounded.
	apply := func(name string, v *int, dst *int, allowZero bool, limit int) {
		if v == nil {
			return
		}
		if *v < 0 || (*v == 0 && !allowZero) || (limit > 0 && *v > limit) {
			l.log.Warn().Str("setting", name).Int("value", *v).Int("default", *dst).Int("max", limit).Msg("invalid webhook setting, using default")
			return
		}
		*dst = *v
	}
	apply("max_retries", rs.MaxRetries, &s.MaxRetries, true, 0)
	apply("retry_base_delay_seconds", rs.RetryBaseDelaySeconds, &s.RetryBaseDelaySeconds, true, domain.MaxRetryBaseDelaySeconds)
	apply("delivery_timeout_seconds", rs.DeliveryTimeoutSeconds, &s.DeliveryTimeoutSeconds, false, domain.MaxDeliveryTimeoutSeconds)
	apply("log_retention_days", rs.LogRetentionDays, &s.LogRetentionDays, true, domain.MaxLogRetentionDays)

	return s
}
