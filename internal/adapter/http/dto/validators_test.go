package dto

import (
	"testing"
	"time"

	"github.com/mashirou1234/yesod-auth/internal/core/domain"
	"github.com/mashirou1234/yesod-auth/internal/core/ports"

	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int { return &i }

func TestTrimStrings(t *testing.T) {
	desc := "  crm  "
	v := struct {
		Name  string
		Desc  *string
		Empty *string
		Count int
	}{Name: "  user.created ", Desc: &desc, Count: 3}

	TrimStrings(&v)

	assert.Equal(t, "user.created", v.Name)
	assert.Equal(t, "crm", *v.Desc)
	assert.Nil(t, v.Empty)
	assert.Equal(t, 3, v.Count)
}

func TestTrimStrings_NonStructIsNoOp(t *testing.T) {
	s := " x "
	TrimStrings(&s)
	TrimStrings(nil)
	assert.Equal(t, " x ", s)
}

func TestDeliveryListQuery_Validation(t *testing.T) {
	tests := []struct {
		name  string
		query DeliveryListQuery
		ok    bool
	}{
		{"empty", DeliveryListQuery{}, true},
		{"full", DeliveryListQuery{EventType: "user.created", EndpointID: "crm main", Limit: intPtr(50)}, true},
		{"limit lower bound", DeliveryListQuery{Limit: intPtr(1)}, true},
		{"limit upper bound", DeliveryListQuery{Limit: intPtr(1000)}, true},
		{"limit zero", DeliveryListQuery{Limit: intPtr(0)}, false},
		{"limit too large", DeliveryListQuery{Limit: intPtr(1001)}, false},
		{"unsafe event type", DeliveryListQuery{EventType: "user created;"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(tt.query)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestDeliveryListQuery_Filter(t *testing.T) {
	f := DeliveryListQuery{EventType: "user.login", Limit: intPtr(5)}.Filter()
	assert.Equal(t, domain.DeliveryFilter{EventType: "user.login", Limit: 5}, f)

	assert.Equal(t, 0, DeliveryListQuery{}.Filter().Limit)
}

func TestToDeliveryResponse(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	status := 200
	d := domain.WebhookDelivery{
		ID:           uuid.New(),
		EventID:      uuid.New(),
		EventType:    domain.EventUserCreated,
		EndpointID:   "crm",
		EndpointURL:  "https://crm.example.com",
		Status:       domain.DeliveryStatusSuccess,
		HTTPStatus:   &status,
		AttemptCount: 1,
		CreatedAt:    created,
		CompletedAt:  &created,
	}

	resp := ToDeliveryResponse(&d)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "2026-01-02T03:04:05Z", resp.CreatedAt)
	assert.Equal(t, "2026-01-02T03:04:05Z", *resp.CompletedAt)
	assert.Nil(t, resp.ErrorMessage)

	d.CompletedAt = nil
	assert.Nil(t, ToDeliveryResponse(&d).CompletedAt)
}

func TestToEndpointResponses(t *testing.T) {
	out := ToEndpointResponses([]ports.EndpointView{{ID: "crm", Secret: "********"}})
	assert.Equal(t, []string{}, out[0].Events)
	assert.Equal(t, "********", out[0].Secret)
}

func TestToStatsResponse(t *testing.T) {
	resp := ToStatsResponse(&ports.WebhookStats{
		Window:     24 * time.Hour,
		Deliveries: domain.DeliveryStats{Total: 4, Succeeded: 3, Failed: 1},
		QueueDepth: 2,
	})
	assert.Equal(t, "24h0m0s", resp.Window)
	assert.InDelta(t, 0.75, resp.SuccessRate, 0.0001)
	assert.Equal(t, int64(2), resp.QueueDepth)
}
