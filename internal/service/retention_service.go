package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mashirou1234/yesod-auth/internal/core/ports"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const purgeTimeout = 5 * time.Minute

// RetentionService deletes delivery rows older than log_retention_days on a
// cron schedule. The retention period is read from the live configuration on
// every run, so reloads take effect without a restart.
type RetentionService struct {
	config     ports.WebhookConfigProvider
	deliveries ports.DeliveryRepository
	schedule   string
	log        zerolog.Logger
	now        func() time.Time

	scheduler *cron.Cron
}

// NewRetentionService validates schedule and returns a stopped service.
// schedule accepts standard five-field expressions and descriptors such as @daily.
func NewRetentionService(config ports.WebhookConfigProvider, deliveries ports.DeliveryRepository, schedule string, log zerolog.Logger) (*RetentionService, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid retention schedule %q: %w", schedule, err)
	}
	return &RetentionService{
		config:     config,
		deliveries: deliveries,
		schedule:   schedule,
		log:        log.With().Str("component", "webhook_retention").Logger(),
		now:        time.Now,
	}, nil
}

// Start registers the purge job and starts the scheduler.
func (s *RetentionService) Start() error {
	if s.scheduler != nil {
		return nil
	}
	c := cron.New()
	if _, err := c.AddFunc(s.schedule, s.runScheduled); err != nil {
		return fmt.Errorf("scheduling retention purge: %w", err)
	}
	c.Start()
	s.scheduler = c

	s.log.Info().Str("schedule", s.schedule).Msg("delivery log retention scheduled")
	return nil
}

// Stop halts the scheduler and waits for a running purge, bounded by ctx.
func (s *RetentionService) Stop(ctx context.Context) error {
	if s.scheduler == nil {
		return nil
	}
	done := s.scheduler.Stop().Done()
	s.scheduler = nil

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *RetentionService) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()

	if _, err := s.Purge(ctx); err != nil {
		s.log.Error().Err(err).Msg("delivery log purge failed")
	}
}

// Purge removes rows older than the configured retention. A retention of
// zero days disables purging.
func (s *RetentionService) Purge(ctx context.Context) (int64, error) {
	retention := s.config.Current().Settings.LogRetention()
	if retention <= 0 {
		s.log.Debug().Msg("delivery log retention disabled, skipping purge")
		return 0, nil
	}

	cutoff := s.now().Add(-retention)
	n, err := s.deliveries.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging deliveries before %s: %w", cutoff.Format(time.RFC3339), err)
	}

	s.log.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("purged old webhook deliveries")
	return n, nil
}
