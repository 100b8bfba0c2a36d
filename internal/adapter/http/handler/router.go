package handler

import (
	"github.com/mashirou1234/yesod-auth/internal/adapter/http/middleware"
	redisStore "github.com/mashirou1234/yesod-auth/internal/adapter/storage/redis"
	"github.com/mashirou1234/yesod-auth/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const maxRequestBody = 1 << 20

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AdminSvc       ports.WebhookAdminService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	OpenAPISpec    []byte
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(maxRequestBody))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	swagger := NewSwaggerHandler(deps.OpenAPISpec)
	docs := r.Group("/swagger")
	{
		docs.GET("", swagger.UI)
		docs.GET("/spec", swagger.Spec)
	}

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		rule, ok := rules[group]
		if deps.RateLimitStore == nil || !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	webhooks := NewWebhookHandler(deps.AdminSvc)

	admin := r.Group("/api/v1/admin/webhooks", jwtAuth, middleware.AdminAudit(deps.Logger))
	{
		admin.POST("/reload", rl(middleware.GroupAdminReload), webhooks.Reload)
		admin.GET("/endpoints", rl(middleware.GroupAdminRead), webhooks.ListEndpoints)
		admin.GET("/deliveries", rl(middleware.GroupAdminRead), webhooks.ListDeliveries)
		admin.GET("/events/:event_id/deliveries", rl(middleware.GroupAdminRead), webhooks.EventDeliveries)
		admin.GET("/stats", rl(middleware.GroupAdminRead), webhooks.Stats)
	}

	return r
}
