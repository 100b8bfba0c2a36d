package service

import (
	"context"
	"time"

	"github.com/mashirou1234/yesod-auth/internal/core/domain"
	"github.com/mashirou1234/yesod-auth/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EmitterOptions tunes the emitter.
type EmitterOptions struct {
	// PushTimeout bounds the queue push so a slow queue cannot stall the caller.
	PushTimeout time.Duration
	// Disabled turns every emit into a no-op, for deployments without receivers.
	Disabled bool
}

// WebhookEmitterService implements ports.WebhookEmitter.
type WebhookEmitterService struct {
	config ports.WebhookConfigProvider
	queue  ports.EventQueue
	opts   EmitterOptions
	log    zerolog.Logger
}

// NewWebhookEmitter creates a new emitter.
func NewWebhookEmitter(config ports.WebhookConfigProvider, queue ports.EventQueue, opts EmitterOptions, log zerolog.Logger) ports.WebhookEmitter {
	if opts.PushTimeout <= 0 {
		opts.PushTimeout = 2 * time.Second
	}
	return &WebhookEmitterService{
		config: config,
		queue:  queue,
		opts:   opts,
		log:    log.With().Str("component", "webhook_emitter").Logger(),
	}
}

// Emit queues an event for delivery when at least one enabled endpoint
// subscribes to eventType. It returns nil when nothing was queued and never
// reports an error to the caller.
func (s *WebhookEmitterService) Emit(ctx context.Context, eventType string, data map[string]any) *domain.WebhookEvent {
	if s.opts.Disabled {
		s.log.Debug().Str("event_type", eventType).Msg("webhook emission disabled, skipping")
		return nil
	}

	endpoints := s.config.EndpointsForEvent(eventType)
	if len(endpoints) == 0 {
		s.log.Debug().Str("event_type", eventType).Msg("no endpoints subscribe to event")
		return nil
	}

	event, err := domain.NewWebhookEvent(eventType, data)
	if err != nil {
		s.log.Error().Err(err).Str("event_type", eventType).Msg("failed to build webhook event")
		return nil
	}

	payload, err := event.ToPayload()
	if err != nil {
		s.log.Error().Err(err).Str("event_id", event.ID.String()).Msg("failed to serialize webhook event")
		return nil
	}

	// Queue even if the caller's request context is already done.
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.PushTimeout)
	defer cancel()

	if err := s.queue.Push(pushCtx, payload); err != nil {
		s.log.Error().Err(err).
			Str("event_id", event.ID.String()).
			Str("event_type", eventType).
			Msg("failed to queue webhook event")
		return nil
	}

	s.log.Info().
		Str("event_id", event.ID.String()).
		Str("event_type", eventType).
		Int("endpoints", len(endpoints)).
		Msg("webhook event queued")
	return event
}

// EmitUserEvent emits an event whose data carries user_id plus extra fields.
// Extra fields override user_id if they set it.
func (s *WebhookEmitterService) EmitUserEvent(ctx context.Context, eventType string, userID uuid.UUID, extra map[string]any) *domain.WebhookEvent {
	data := make(map[string]any, len(extra)+1)
	data["user_id"] = userID.String()
	for k, v := range extra {
		data[k] = v
	}
	return s.Emit(ctx, eventType, data)
}
