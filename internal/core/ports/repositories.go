package ports

import (
	"context"
	"time"

	"github.com/mashirou1234/yesod-auth/internal/core/domain"

	"github.com/google/uuid"
)

// DeliveryRepository persists terminal delivery outcomes.
// The worker only appends; the admin API only reads.
type DeliveryRepository interface {
	Create(ctx context.Context, d *domain.WebhookDelivery) error
	List(ctx context.Context, filter domain.DeliveryFilter) ([]domain.WebhookDelivery, error)
	ListByEventID(ctx context.Context, eventID uuid.UUID) ([]domain.WebhookDelivery, error)
	Stats(ctx context.Context, since time.Time) (*domain.DeliveryStats, error)
	// PurgeOlderThan deletes rows created before cutoff and returns how many went.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// QueueEntry is one raw event taken off the queue and held until acknowledged.
type QueueEntry struct {
	Payload []byte
}

// EventQueue is the durable FIFO between the emitter and the worker.
type EventQueue interface {
	// Push appends a serialized event to the tail.
	Push(ctx context.Context, payload []byte) error
	// Pop blocks up to timeout for the head entry. It returns nil, nil on timeout.
	// The entry stays reserved until Ack or DeadLetter.
	Pop(ctx context.Context, timeout time.Duration) (*QueueEntry, error)
	Ack(ctx context.Context, entry *QueueEntry) error
	// DeadLetter moves an unreadable entry aside so it is not retried.
	DeadLetter(ctx context.Context, entry *QueueEntry) error
	// Recover returns entries reserved by a previous consumer to the head,
	// preserving their order. It returns the number of entries moved.
	Recover(ctx context.Context) (int, error)
	Len(ctx context.Context) (int64, error)
}
