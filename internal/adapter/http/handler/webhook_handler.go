package handler

import (
	"time"

	"github.com/mashirou1234/yesod-auth/internal/adapter/http/dto"
	"github.com/mashirou1234/yesod-auth/internal/core/ports"
	"github.com/mashirou1234/yesod-auth/pkg/apperror"
	"github.com/mashirou1234/yesod-auth/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultStatsWindow = 24 * time.Hour
	maxStatsWindow     = 90 * 24 * time.Hour
)

// WebhookHandler serves the webhook admin API.
type WebhookHandler struct {
	admin ports.WebhookAdminService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(admin ports.WebhookAdminService) *WebhookHandler {
	return &WebhookHandler{admin: admin}
}

// Reload handles POST /api/v1/admin/webhooks/reload.
func (h *WebhookHandler) Reload(c *gin.Context) {
	n, err := h.admin.Reload(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ReloadResponse{
		Endpoints: n,
		Message:   "webhook configuration reloaded",
	})
}

// ListEndpoints handles GET /api/v1/admin/webhooks/endpoints.
func (h *WebhookHandler) ListEndpoints(c *gin.Context) {
	response.List(c, dto.ToEndpointResponses(h.admin.ListEndpoints()))
}

// ListDeliveries handles GET /api/v1/admin/webhooks/deliveries.
func (h *WebhookHandler) ListDeliveries(c *gin.Context) {
	var q dto.DeliveryListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.TrimStrings(&q)

	rows, err := h.admin.ListDeliveries(c.Request.Context(), q.Filter())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, dto.ToDeliveryResponses(rows))
}

// EventDeliveries handles GET /api/v1/admin/webhooks/events/:event_id/deliveries.
func (h *WebhookHandler) EventDeliveries(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("event_id"))
	if err != nil {
		response.Error(c, apperror.Validation("event_id must be a UUID"))
		return
	}

	rows, err := h.admin.EventDeliveries(c.Request.Context(), eventID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, dto.ToDeliveryResponses(rows))
}

// Stats handles GET /api/v1/admin/webhooks/stats.
func (h *WebhookHandler) Stats(c *gin.Context) {
	var q dto.StatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	window := defaultStatsWindow
	if q.Window != "" {
		d, err := time.ParseDuration(q.Window)
		if err != nil || d <= 0 || d > maxStatsWindow {
			response.Error(c, apperror.Validation("window must be a positive duration up to 2160h, e.g. 24h"))
			return
		}
		window = d
	}

	stats, err := h.admin.Stats(c.Request.Context(), window)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToStatsResponse(stats))
}
