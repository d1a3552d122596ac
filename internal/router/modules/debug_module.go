package modules

import (
	"expvar"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/task-manager-api/internal/interface/http"
	"github.com/oksasatya/task-manager-api/internal/interface/middleware"
)

// DebugModule serves health, Prometheus metrics and, optionally, expvar.
type DebugModule struct {
	Health    handlers.HealthHandler
	Metrics   http.Handler // nil disables /metrics
	DebugVars bool
	RDB       *redis.Client
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", m.Health.Health)

	// public endpoints rate-limited per IP; in-cluster scrapers bypass
	rl := middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	if m.Metrics != nil {
		rg.GET("/metrics", rl, gin.WrapH(m.Metrics))
	}
	if m.DebugVars {
		rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	}
}
