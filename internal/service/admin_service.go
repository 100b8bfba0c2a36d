package service

import (
	"context"
	"time"

	"github.com/mashirou1234/yesod-auth/internal/core/domain"
	"github.com/mashirou1234/yesod-auth/internal/core/ports"
	"github.com/mashirou1234/yesod-auth/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const maskedSecret = "********"

// webhookAdminService implements ports.WebhookAdminService.
type webhookAdminService struct {
	config     ports.WebhookConfigProvider
	deliveries ports.DeliveryRepository
	queue      ports.EventQueue
	log        zerolog.Logger
	now        func() time.Time
}

// NewWebhookAdminService creates the service behind the admin API.
func NewWebhookAdminService(
	config ports.WebhookConfigProvider,
	deliveries ports.DeliveryRepository,
	queue ports.EventQueue,
	log zerolog.Logger,
) ports.WebhookAdminService {
	return &webhookAdminService{
		config:     config,
		deliveries: deliveries,
		queue:      queue,
		log:        log.With().Str("component", "webhook_admin").Logger(),
		now:        time.Now,
	}
}

// Reload re-reads the configuration and returns the endpoint count. On
// failure the previous configuration stays active.
func (s *webhookAdminService) Reload(ctx context.Context) (int, error) {
	cfg, err := s.config.Reload(ctx)
	if err != nil {
		return 0, apperror.ErrConfigReload(err)
	}
	s.log.Info().Int("endpoints", len(cfg.Endpoints)).Msg("webhook configuration reloaded via admin API")
	return len(cfg.Endpoints), nil
}

// ListEndpoints returns every configured endpoint, disabled ones included,
// with secrets masked.
func (s *webhookAdminService) ListEndpoints() []ports.EndpointView {
	cfg := s.config.Current()
	views := make([]ports.EndpointView, 0, len(cfg.Endpoints))
	for _, ep := range cfg.Endpoints {
		views = append(views, ports.EndpointView{
			ID:          ep.ID,
			URL:         ep.URL,
			Secret:      maskSecret(ep.Secret),
			Events:      append([]string(nil), ep.Events...),
			Enabled:     ep.Enabled,
			Description: ep.Description,
		})
	}
	return views
}

func (s *webhookAdminService) ListDeliveries(ctx context.Context, filter domain.DeliveryFilter) ([]domain.WebhookDelivery, error) {
	filter.Limit = filter.NormalisedLimit()
	rows, err := s.deliveries.List(ctx, filter)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return rows, nil
}

// EventDeliveries returns every endpoint outcome recorded for one event.
func (s *webhookAdminService) EventDeliveries(ctx context.Context, eventID uuid.UUID) ([]domain.WebhookDelivery, error) {
	rows, err := s.deliveries.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if len(rows) == 0 {
		return nil, apperror.ErrEventNotFound(eventID.String())
	}
	return rows, nil
}

// Stats aggregates outcomes created within window and adds the queue depth.
func (s *webhookAdminService) Stats(ctx context.Context, window time.Duration) (*ports.WebhookStats, error) {
	if window <= 0 {
		return nil, apperror.Validation("window must be positive")
	}

	stats, err := s.deliveries.Stats(ctx, s.now().Add(-window))
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}

	depth, err := s.queue.Len(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to read webhook queue depth")
		depth = -1
	}

	return &ports.WebhookStats{
		Window:     window,
		Deliveries: *stats,
		QueueDepth: depth,
	}, nil
}

func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	return maskedSecret
}
