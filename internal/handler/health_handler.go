package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"contact-intake-api/internal/config"
)

// HealthHandler reports process liveness and dependency reachability
type HealthHandler struct {
	db       *gorm.DB
	redis    *redis.Client
	emailCfg config.EmailConfig
	chatCfg  config.ChatConfig
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client, emailCfg config.EmailConfig, chatCfg config.ChatConfig) *HealthHandler {
	return &HealthHandler{
		db:       db,
		redis:    redisClient,
		emailCfg: emailCfg,
		chatCfg:  chatCfg,
	}
}

// Health handles GET /health. It always returns 200 when the process is
// serving; dependency state is reported in the body so operators can see a
// degraded configuration without failing the probe.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
		"emailConfigured":   h.emailCfg.Configured(),
		"notificationEmail": h.emailCfg.NotificationEmail,
		"chatConfigured":    h.chatCfg.WebhookURL != "",
	})
}

// Ready handles GET /ready. It pings each attached dependency and returns 503
// when one is unreachable.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = "unreachable"
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	}

	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			checks["database"] = "unreachable"
			healthy = false
		} else {
			checks["database"] = "ok"
		}
	}

	status := http.StatusOK
	state := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}

	c.JSON(status, gin.H{
		"status": state,
		"checks": checks,
	})
}
