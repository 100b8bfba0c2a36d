package e2e

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/mashirou1234/yesod-auth/internal/core/domain"

	"github.com/google/uuid"
)

// memoryDeliveryRepo is an in-memory DeliveryRepository.
type memoryDeliveryRepo struct {
	mu   sync.RWMutex
	rows []domain.WebhookDelivery
}

func newMemoryDeliveryRepo() *memoryDeliveryRepo {
	return &memoryDeliveryRepo{}
}

func (r *memoryDeliveryRepo) Create(_ context.Context, d *domain.WebhookDelivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, *d)
	return nil
}

func (r *memoryDeliveryRepo) List(_ context.Context, filter domain.DeliveryFilter) ([]domain.WebhookDelivery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.WebhookDelivery
	for i := len(r.rows) - 1; i >= 0 && len(out) < filter.NormalisedLimit(); i-- {
		d := r.rows[i]
		if filter.EventType != "" && d.EventType != filter.EventType {
			continue
		}
		if filter.EndpointID != "" && d.EndpointID != filter.EndpointID {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *memoryDeliveryRepo) ListByEventID(_ context.Context, eventID uuid.UUID) ([]domain.WebhookDelivery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.WebhookDelivery
	for _, d := range r.rows {
		if d.EventID == eventID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memoryDeliveryRepo) Stats(_ context.Context, since time.Time) (*domain.DeliveryStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		stats      domain.DeliveryStats
		latencySum int
		latencyN   int
		attemptSum int
	)
	for _, d := range r.rows {
		if d.CreatedAt.Before(since) {
			continue
		}
		stats.Total++
		if d.IsSuccess() {
			stats.Succeeded++
		} else {
			stats.Failed++
		}
		if d.LatencyMs != nil {
			latencySum += *d.LatencyMs
			latencyN++
		}
		attemptSum += d.AttemptCount
	}
	if latencyN > 0 {
		stats.AvgLatencyMs = float64(latencySum) / float64(latencyN)
	}
	if stats.Total > 0 {
		stats.AvgAttempts = float64(attemptSum) / float64(stats.Total)
	}
	return &stats, nil
}

func (r *memoryDeliveryRepo) PurgeOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := len(r.rows)
	r.rows = slices.DeleteFunc(r.rows, func(d domain.WebhookDelivery) bool {
		return d.CreatedAt.Before(cutoff)
	})
	return int64(before - len(r.rows)), nil
}

func (r *memoryDeliveryRepo) byEndpoint(eventID uuid.UUID) map[string]domain.WebhookDelivery {
	rows, _ := r.ListByEventID(context.Background(), eventID)
	out := make(map[string]domain.WebhookDelivery, len(rows))
	for _, d := range rows {
		out[d.EndpointID] = d
	}
	return out
}
