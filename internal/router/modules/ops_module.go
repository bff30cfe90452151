package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/mesto-api/internal/interface/http"
	"github.com/oksasatya/mesto-api/internal/interface/middleware"
)

// OpsModule serves the health probe and, when enabled, expvar metrics.
type OpsModule struct {
	Health  *handlers.HealthHandler
	Redis   *redis.Client
	Metrics bool
}

func NewOpsModule(h *handlers.HealthHandler, rdb *redis.Client, metrics bool) *OpsModule {
	return &OpsModule{Health: h, Redis: rdb, Metrics: metrics}
}

func (m *OpsModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", m.Health.Health)
	if !m.Metrics {
		return
	}
	rl := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
