package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryStatus represents the state of a webhook delivery.
type DeliveryStatus string

const (
	DeliveryStatusPending DeliveryStatus = "pending"
	DeliveryStatusSuccess DeliveryStatus = "success"
	DeliveryStatusFailed  DeliveryStatus = "failed"
)

// MaxErrorMessageLength bounds the error text stored per delivery.
const MaxErrorMessageLength = 500

// DeliveryOutcome classifies one HTTP attempt.
type DeliveryOutcome int

const (
	OutcomeSuccess DeliveryOutcome = iota
	OutcomeRetryable
	OutcomePermanent
)

func (o DeliveryOutcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRetryable:
		return "retryable"
	case OutcomePermanent:
		return "permanent"
	default:
		return "unknown"
	}
}

// ClassifyStatus maps an HTTP status code to a delivery outcome.
// 2xx succeeds, 4xx is a permanent rejection, anything else is retried.
func ClassifyStatus(code int) DeliveryOutcome {
	switch {
	case code >= 200 && code < 300:
		return OutcomeSuccess
	case code >= 400 && code < 500:
		return OutcomePermanent
	default:
		return OutcomeRetryable
	}
}

// WebhookDelivery is the terminal outcome of one endpoint's attempt sequence
// for one event.
type WebhookDelivery struct {
	ID           uuid.UUID      `json:"id"`
	EventID      uuid.UUID      `json:"event_id"`
	EventType    string         `json:"event_type"`
	EndpointID   string         `json:"endpoint_id"`
	EndpointURL  string         `json:"endpoint_url"`
	Status       DeliveryStatus `json:"status"`
	HTTPStatus   *int           `json:"http_status"`
	ErrorMessage *string        `json:"error_message"`
	AttemptCount int            `json:"attempt_count"`
	LatencyMs    *int           `json:"latency_ms"`
	CreatedAt    time.Time      `json:"created_at"`
	CompletedAt  *time.Time     `json:"completed_at"`
}

// IsSuccess reports whether the delivery reached the endpoint.
func (d *WebhookDelivery) IsSuccess() bool {
	return d.Status == DeliveryStatusSuccess
}

// DeliveryFilter narrows a delivery listing. Empty fields match everything.
type DeliveryFilter struct {
	EventType  string
	EndpointID string
	Limit      int
}

// Delivery listing limits.
const (
	DefaultDeliveryLimit = 100
	MaxDeliveryLimit     = 1000
)

// NormalisedLimit clamps the filter limit into [1, MaxDeliveryLimit].
func (f DeliveryFilter) NormalisedLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultDeliveryLimit
	case f.Limit > MaxDeliveryLimit:
		return MaxDeliveryLimit
	default:
		return f.Limit
	}
}

// DeliveryStats aggregates delivery outcomes over a window.
type DeliveryStats struct {
	Total        int64   `json:"total"`
	Succeeded    int64   `json:"succeeded"`
	Failed       int64   `json:"failed"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
	AvgAttempts  float64 `json:"avg_attempts"`
}

// SuccessRate is the share of successful deliveries, or 0 without data.
func (s DeliveryStats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Total)
}

// TruncateError bounds msg to MaxErrorMessageLength characters.
func TruncateError(msg string) string {
	r := []rune(msg)
	if len(r) <= MaxErrorMessageLength {
		return msg
	}
	return string(r[:MaxErrorMessageLength])
}
