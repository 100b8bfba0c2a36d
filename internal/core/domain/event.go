package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types raised by the authentication service.
const (
	EventUserCreated       = "user.created"
	EventUserUpdated       = "user.updated"
	EventUserDeleted       = "user.deleted"
	EventUserLogin         = "user.login"
	EventUserOAuthLinked   = "user.oauth_linked"
	EventUserOAuthUnlinked = "user.oauth_unlinked"
)

// EventData is the schema-less JSON object carried by an event.
type EventData map[string]any

// WebhookEvent is an immutable record of something that happened to a user.
type WebhookEvent struct {
	ID        uuid.UUID `json:"event_id"`
	Type      string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
	Data      EventData `json:"data"`
}

// eventPayload is the wire form of an event. WebhookID is only set on the
// per-endpoint request body.
type eventPayload struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp string    `json:"timestamp"`
	Data      EventData `json:"data"`
	WebhookID string    `json:"webhook_id,omitempty"`
}

// NewWebhookEvent creates an event with a fresh ID and a UTC timestamp.
// Data is normalised to its JSON form so that it survives the queue unchanged.
func NewWebhookEvent(eventType string, data map[string]any) (*WebhookEvent, error) {
	if eventType == "" {
		return nil, errors.New("event type is required")
	}

	normalised, err := normaliseData(data)
	if err != nil {
		return nil, err
	}

	return &WebhookEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      normalised,
	}, nil
}

// ToPayload serializes the event for the queue.
func (e *WebhookEvent) ToPayload() ([]byte, error) {
	return json.Marshal(e.payload(""))
}

// BodyFor returns the request body sent to one endpoint: the queue payload
// plus the endpoint's webhook_id.
func (e *WebhookEvent) BodyFor(webhookID string) ([]byte, error) {
	return json.Marshal(e.payload(webhookID))
}

func (e *WebhookEvent) payload(webhookID string) eventPayload {
	data := e.Data
	if data == nil {
		data = EventData{}
	}
	return eventPayload{
		EventID:   e.ID.String(),
		EventType: e.Type,
		Timestamp: e.Timestamp.UTC().Format(time.RFC3339Nano),
		Data:      data,
		WebhookID: webhookID,
	}
}

// WebhookEventFromPayload decodes an event serialized by ToPayload.
func WebhookEventFromPayload(raw []byte) (*WebhookEvent, error) {
	var p eventPayload
	if err := decodeJSON(raw, &p); err != nil {
		return nil, fmt.Errorf("decoding event payload: %w", err)
	}

	id, err := uuid.Parse(p.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event_id %q: %w", p.EventID, err)
	}
	if p.EventType == "" {
		return nil, errors.New("missing event_type")
	}
	ts, err := time.Parse(time.RFC3339Nano, p.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: %w", p.Timestamp, err)
	}

	data := p.Data
	if data == nil {
		data = EventData{}
	}

	return &WebhookEvent{
		ID:        id,
		Type:      p.EventType,
		Timestamp: ts.UTC(),
		Data:      data,
	}, nil
}

func normaliseData(data map[string]any) (EventData, error) {
	if len(data) == 0 {
		return EventData{}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("event data is not JSON-serializable: %w", err)
	}
	var out EventData
	if err := decodeJSON(raw, &out); err != nil {
		return nil, fmt.Errorf("normalising event data: %w", err)
	}
	return out, nil
}

// decodeJSON keeps numbers as json.Number so integers beyond 2^53 are not
// rounded through float64.
func decodeJSON(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}
