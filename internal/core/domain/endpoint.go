package domain

import (
	"slices"
	"time"
)

// Default delivery settings applied when webhooks.yaml omits them.
const (
	DefaultMaxRetries             = 5
	DefaultRetryBaseDelaySeconds  = 2
	DefaultDeliveryTimeoutSeconds = 30
	DefaultLogRetentionDays       = 30
)

// Upper bounds for settings that are converted to a time.Duration. Larger
// values would overflow it.
const (
	MaxRetryBaseDelaySeconds  = 3600
	MaxDeliveryTimeoutSeconds = 3600
	MaxLogRetentionDays       = 36500
)

// WebhookEndpoint is a delivery target loaded from configuration.
type WebhookEndpoint struct {
	ID          string
	URL         string
	Secret      string
	Events      []string
	Enabled     bool
	Description string
}

// SubscribesTo reports whether the endpoint wants events of the given type.
func (e WebhookEndpoint) SubscribesTo(eventType string) bool {
	return slices.Contains(e.Events, eventType)
}

// WebhookSettings are the global delivery settings.
type WebhookSettings struct {
	MaxRetries             int
	RetryBaseDelaySeconds  int
	DeliveryTimeoutSeconds int
	LogRetentionDays       int
}

// DefaultWebhookSettings returns the settings used when none are configured.
func DefaultWebhookSettings() WebhookSettings {
	return WebhookSettings{
		MaxRetries:             DefaultMaxRetries,
		RetryBaseDelaySeconds:  DefaultRetryBaseDelaySeconds,
		DeliveryTimeoutSeconds: DefaultDeliveryTimeoutSeconds,
		LogRetentionDays:       DefaultLogRetentionDays,
	}
}

// MaxAttempts is the total number of tries per delivery, the first included.
func (s WebhookSettings) MaxAttempts() int {
	return s.MaxRetries + 1
}

func (s WebhookSettings) RetryBaseDelay() time.Duration {
	return time.Duration(s.RetryBaseDelaySeconds) * time.Second
}

func (s WebhookSettings) DeliveryTimeout() time.Duration {
	return time.Duration(s.DeliveryTimeoutSeconds) * time.Second
}

func (s WebhookSettings) LogRetention() time.Duration {
	return time.Duration(s.LogRetentionDays) * 24 * time.Hour
}

// WebhookConfig is an immutable snapshot of all endpoints plus settings.
// A reload builds a new value; existing snapshots are never modified.
type WebhookConfig struct {
	Endpoints []WebhookEndpoint
	Settings  WebhookSettings
}

// EmptyWebhookConfig is the config used when no source exists.
func EmptyWebhookConfig() *WebhookConfig {
	return &WebhookConfig{Settings: DefaultWebhookSettings()}
}

// EndpointsForEvent returns the enabled endpoints subscribed to eventType,
// in source order.
func (c *WebhookConfig) EndpointsForEvent(eventType string) []WebhookEndpoint {
	if c == nil {
		return nil
	}
	var out []WebhookEndpoint
	for _, ep := range c.Endpoints {
		if ep.Enabled && ep.SubscribesTo(eventType) {
			out = append(out, ep)
		}
	}
	return out
}
