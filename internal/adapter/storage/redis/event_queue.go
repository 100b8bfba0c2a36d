package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mashirou1234/yesod-auth/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
)

// EventQueue is a reliable FIFO on Redis lists.
//
// Producers LPUSH onto key and the consumer takes from the right, so the
// right end is the queue head. BRPOPLPUSH parks each taken entry on
// key:processing until it is acknowledged; an entry held by a consumer that
// stops or dies stays in Redis until Recover moves it back.
type EventQueue struct {
	client     goredis.UniversalClient
	key        string
	processing string
	dead       string
}

// NewEventQueue creates a queue on the given list key (e.g. "webhook:events").
func NewEventQueue(client goredis.UniversalClient, key string) *EventQueue {
	return &EventQueue{
		client:     client,
		key:        key,
		processing: key + ":processing",
		dead:       key + ":dead",
	}
}

// Key returns the main list key.
func (q *EventQueue) Key() string {
	return q.key
}

// Push appends a serialized event to the tail.
func (q *EventQueue) Push(ctx context.Context, payload []byte) error {
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("redis queue push: %w", err)
	}
	return nil
}

// Pop moves the head entry into the processing list, waiting up to timeout.
// It returns nil, nil when the queue stayed empty.
func (q *EventQueue) Pop(ctx context.Context, timeout time.Duration) (*ports.QueueEntry, error) {
	val, err := q.client.BRPopLPush(ctx, q.key, q.processing, timeout).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis queue pop: %w", err)
	}
	return &ports.QueueEntry{Payload: []byte(val)}, nil
}

// Ack removes a delivered entry from the processing list.
func (q *EventQueue) Ack(ctx context.Context, entry *ports.QueueEntry) error {
	if err := q.client.LRem(ctx, q.processing, 1, entry.Payload).Err(); err != nil {
		return fmt.Errorf("redis queue ack: %w", err)
	}
	return nil
}

// DeadLetter parks an entry on key:dead and drops it from processing.
func (q *EventQueue) DeadLetter(ctx context.Context, entry *ports.QueueEntry) error {
	_, err := q.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.RPush(ctx, q.dead, entry.Payload)
		pipe.LRem(ctx, q.processing, 1, entry.Payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis queue dead-letter: %w", err)
	}
	return nil
}

// Recover returns unacknowledged entries to the head of the queue and reports
// how many were moved. The processing list holds the newest entry on the left,
// so moving from its left onto the queue's right leaves the oldest next in line.
func (q *EventQueue) Recover(ctx context.Context) (int, error) {
	moved := 0
	for {
		err := q.client.LMove(ctx, q.processing, q.key, "LEFT", "RIGHT").Err()
		if errors.Is(err, goredis.Nil) {
			return moved, nil
		}
		if err != nil {
			return moved, fmt.Errorf("redis queue recover: %w", err)
		}
		moved++
	}
}

// Len returns the number of entries waiting in the queue.
func (q *EventQueue) Len(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis queue len: %w", err)
	}
	return n, nil
}

// DeadLen returns the number of dead-lettered entries.
func (q *EventQueue) DeadLen(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, q.dead).Result()
	if err != nil {
		return 0, fmt.Errorf("redis queue dead len: %w", err)
	}
	return n, nil
}
