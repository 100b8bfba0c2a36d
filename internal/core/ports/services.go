package ports

import (
	"context"
	"net/http"
	"time"

	"github.com/mashirou1234/yesod-auth/internal/core/domain"

	"github.com/google/uuid"
)

// WebhookSigner produces and checks X-Webhook-Signature values.
type WebhookSigner interface {
	Sign(payload, secret string, timestamp int64) (string, int64)
	Verify(payload, secret string, timestamp int64, signature string) bool
	Headers(payload, secret, eventType, webhookID string) http.Header
}

// WebhookConfigProvider exposes the current endpoint configuration.
type WebhookConfigProvider interface {
	// Current returns the active snapshot. It never returns nil.
	Current() *domain.WebhookConfig
	EndpointsForEvent(eventType string) []domain.WebhookEndpoint
	Reload(ctx context.Context) (*domain.WebhookConfig, error)
}

// WebhookEmitter is the call contract used by the rest of the system to raise
// events. It never fails the caller: a nil event means nothing was queued.
type WebhookEmitter interface {
	Emit(ctx context.Context, eventType string, data map[string]any) *domain.WebhookEvent
	EmitUserEvent(ctx context.Context, eventType string, userID uuid.UUID, extra map[string]any) *domain.WebhookEvent
}

// WebhookAdminService backs the admin API.
type WebhookAdminService interface {
	Reload(ctx context.Context) (int, error)
	ListEndpoints() []EndpointView
	ListDeliveries(ctx context.Context, filter domain.DeliveryFilter) ([]domain.WebhookDelivery, error)
	EventDeliveries(ctx context.Context, eventID uuid.UUID) ([]domain.WebhookDelivery, error)
	Stats(ctx context.Context, window time.Duration) (*WebhookStats, error)
}

// EndpointView is an endpoint as shown to administrators.
type EndpointView struct {
	ID          string
	URL         string
	Secret      string // always masked
	Events      []string
	Enabled     bool
	Description string
}

// WebhookStats combines persisted outcomes with the live queue depth.
// QueueDepth is -1 when the queue could not be read.
type WebhookStats struct {
	Window     time.Duration
	Deliveries domain.DeliveryStats
	QueueDepth int64
}

// TokenService handles admin JWT operations.
type TokenService interface {
	Generate(subject string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Subject string
}
