package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mashirou1234/yesod-auth/internal/core/domain"
	"github.com/mashirou1234/yesod-auth/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const deliveryColumns = `id, event_id, event_type, endpoint_id, endpoint_url, status, ` +
	`http_status, error_message, attempt_count, latency_ms, created_at, completed_at`

// DeliveryRepo implements ports.DeliveryRepository on PostgreSQL.
type DeliveryRepo struct {
	pool Pool
}

// NewDeliveryRepo creates a new DeliveryRepo.
func NewDeliveryRepo(pool Pool) *DeliveryRepo {
	return &DeliveryRepo{pool: pool}
}

var _ ports.DeliveryRepository = (*DeliveryRepo)(nil)

// Create inserts a terminal delivery outcome.
func (r *DeliveryRepo) Create(ctx context.Context, d *domain.WebhookDelivery) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO webhook_deliveries (`+deliveryColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		d.ID, d.EventID, d.EventType, d.EndpointID, d.EndpointURL, string(d.Status),
		d.HTTPStatus, d.ErrorMessage, d.AttemptCount, d.LatencyMs, d.CreatedAt, d.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting webhook delivery: %w", err)
	}
	return nil
}

// List returns deliveries newest first, filtered by event type and endpoint.
func (r *DeliveryRepo) List(ctx context.Context, filter domain.DeliveryFilter) ([]domain.WebhookDelivery, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if filter.EventType != "" {
		conditions = append(conditions, fmt.Sprintf("event_type = $%d", argIdx))
		args = append(args, filter.EventType)
		argIdx++
	}
	if filter.EndpointID != "" {
		conditions = append(conditions, fmt.Sprintf("endpoint_id = $%d", argIdx))
		args = append(args, filter.EndpointID)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`SELECT %s FROM webhook_deliveries %s ORDER BY created_at DESC LIMIT $%d`,
		deliveryColumns, where, argIdx)
	args = append(args, filter.NormalisedLimit())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing webhook deliveries: %w", err)
	}
	return collectDeliveries(rows)
}

// ListByEventID returns every endpoint outcome for one event, oldest first.
func (r *DeliveryRepo) ListByEventID(ctx context.Context, eventID uuid.UUID) ([]domain.WebhookDelivery, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+deliveryColumns+` FROM webhook_deliveries WHERE event_id = $1 ORDER BY created_at ASC`,
		eventID)
	if err != nil {
		return nil, fmt.Errorf("listing deliveries for event: %w", err)
	}
	return collectDeliveries(rows)
}

// Stats aggregates deliveries created at or after since.
func (r *DeliveryRepo) Stats(ctx context.Context, since time.Time) (*domain.DeliveryStats, error) {
	var s domain.DeliveryStats
	err := r.pool.QueryRow(ctx, `SELECT
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE status = 'success') AS succeeded,
		COUNT(*) FILTER (WHERE status = 'failed') AS failed,
		COALESCE(AVG(latency_ms), 0)::float8 AS avg_latency_ms,
		COALESCE(AVG(attempt_count), 0)::float8 AS avg_attempts
		FROM webhook_deliveries WHERE created_at >= $1`, since,
	).Scan(&s.Total, &s.Succeeded, &s.Failed, &s.AvgLatencyMs, &s.AvgAttempts)
	if err != nil {
		return nil, fmt.Errorf("aggregating webhook deliveries: %w", err)
	}
	return &s, nil
}

// PurgeOlderThan deletes deliveries created before cutoff.
func (r *DeliveryRepo) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM webhook_deliveries WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging webhook deliveries: %w", err)
	}
	return tag.RowsAffected(), nil
}

func collectDeliveries(rows pgx.Rows) ([]domain.WebhookDelivery, error) {
	defer rows.Close()

	var out []domain.WebhookDelivery
	for rows.Next() {
		var d domain.WebhookDelivery
		var status string
		if err := rows.Scan(
			&d.ID, &d.EventID, &d.EventType, &d.EndpointID, &d.EndpointURL, &status,
			&d.HTTPStatus, &d.ErrorMessage, &d.AttemptCount, &d.LatencyMs, &d.CreatedAt, &d.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning webhook delivery: %w", err)
		}
		d.Status = domain.DeliveryStatus(status)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating webhook deliveries: %w", err)
	}
	return out, nil
}
