package dto

import (
	"time"

	"github.com/mashirou1234/yesod-auth/internal/core/domain"
	"github.com/mashirou1234/yesod-auth/internal/core/ports"
)

// DeliveryListQuery is the query string of GET /deliveries.
type DeliveryListQuery struct {
	EventType  string `form:"event_type" binding:"omitempty,max=64,safe_id"`
	EndpointID string `form:"endpoint_id" binding:"omitempty,max=128"`
	Limit      *int   `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// Filter converts the query into a repository filter.
func (q DeliveryListQuery) Filter() domain.DeliveryFilter {
	f := domain.DeliveryFilter{EventType: q.EventType, EndpointID: q.EndpointID}
	if q.Limit != nil {
		f.Limit = *q.Limit
	}
	return f
}

// StatsQuery is the query string of GET /stats.
type StatsQuery struct {
	Window string `form:"window" binding:"omitempty,max=16"`
}

// ReloadResponse is returned by POST /reload.
type ReloadResponse struct {
	Endpoints int    `json:"endpoints"`
	Message   string `json:"message"`
}

// EndpointResponse is one configured endpoint with its secret masked.
type EndpointResponse struct {
	ID          string   `json:"id"`
	URL         string   `json:"url"`
	Secret      string   `json:"secret"`
	Events      []string `json:"events"`
	Enabled     bool     `json:"enabled"`
	Description string   `json:"description,omitempty"`
}

// DeliveryResponse is one delivery log row.
type DeliveryResponse struct {
	ID           string  `json:"id"`
	EventID      string  `json:"event_id"`
	EventType    string  `json:"event_type"`
	EndpointID   string  `json:"endpoint_id"`
	EndpointURL  string  `json:"endpoint_url"`
	Status       string  `json:"status"`
	HTTPStatus   *int    `json:"http_status"`
	ErrorMessage *string `json:"error_message"`
	AttemptCount int     `json:"attempt_count"`
	LatencyMs    *int    `json:"latency_ms"`
	CreatedAt    string  `json:"created_at"`
	CompletedAt  *string `json:"completed_at"`
}

// StatsResponse is returned by GET /stats.
type StatsResponse struct {
	Window       string  `json:"window"`
	Total        int64   `json:"total"`
	Succeeded    int64   `json:"succeeded"`
	Failed       int64   `json:"failed"`
	SuccessRate  float64 `json:"success_rate"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
	AvgAttempts  float64 `json:"avg_attempts"`
	QueueDepth   int64   `json:"queue_depth"`
}

func ToEndpointResponses(views []ports.EndpointView) []EndpointResponse {
	out := make([]EndpointResponse, 0, len(views))
	for _, v := range views {
		events := v.Events
		if events == nil {
			events = []string{}
		}
		out = append(out, EndpointResponse{
			ID:          v.ID,
			URL:         v.URL,
			Secret:      v.Secret,
			Events:      events,
			Enabled:     v.Enabled,
			Description: v.Description,
		})
	}
	return out
}

func ToDeliveryResponses(rows []domain.WebhookDelivery) []DeliveryResponse {
	out := make([]DeliveryResponse, 0, len(rows))
	for i := range rows {
		out = append(out, ToDeliveryResponse(&rows[i]))
	}
	return out
}

func ToDeliveryResponse(d *domain.WebhookDelivery) DeliveryResponse {
	resp := DeliveryResponse{
		ID:           d.ID.String(),
		EventID:      d.EventID.String(),
		EventType:    d.EventType,
		EndpointID:   d.EndpointID,
		EndpointURL:  d.EndpointURL,
		Status:       string(d.Status),
		HTTPStatus:   d.HTTPStatus,
		ErrorMessage: d.ErrorMessage,
		AttemptCount: d.AttemptCount,
		LatencyMs:    d.LatencyMs,
		CreatedAt:    d.CreatedAt.UTC().Format(time.RFC3339),
	}
	if d.CompletedAt != nil {
		s := d.CompletedAt.UTC().Format(time.RFC3339)
		resp.CompletedAt = &s
	}
	return resp
}

func ToStatsResponse(s *ports.WebhookStats) StatsResponse {
	return StatsResponse{
		Window:       s.Window.String(),
		Total:        s.Deliveries.Total,
		Succeeded:    s.Deliveries.Succeeded,
		Failed:       s.Deliveries.Failed,
		SuccessRate:  s.Deliveries.SuccessRate(),
		AvgLatencyMs: s.Deliveries.AvgLatencyMs,
		AvgAttempts:  s.Deliveries.AvgAttempts,
		QueueDepth:   s.QueueDepth,
	}
}
