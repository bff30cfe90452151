package router

import (
	"path"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/mesto-api/internal/interface/middleware"
)

// EngineOptions configures the global middleware chain. AppLogger receives
// internal error causes; Logger is the access log and ErrLogger the error
// log file.
type EngineOptions struct {
	AppLogger   *logrus.Logger
	Logger      *logrus.Logger
	ErrLogger   *logrus.Logger
	APIPrefix   string
	ShowStack   bool
	TrustProxy  bool
	CORSOrigins []string
	HTTPLog     bool

	Redis           *redis.Client
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// NewEngine returns a gin engine with the global middleware installed in
// order: request id, client ip, access log, error rendering, panic recovery,
// security headers, CORS, the global rate limit and body sanitising.
func NewEngine(o EngineOptions) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	if !o.TrustProxy {
		_ = r.SetTrustedProxies(nil)
	}

	r.Use(middleware.RequestIDMiddleware(), middleware.RealIP(o.TrustProxy))
	if o.HTTPLog && o.Logger != nil {
		r.Use(middleware.RequestLogger(o.Logger))
	}
	r.Use(
		middleware.ErrorHandler(o.AppLogger, o.ErrLogger, o.ShowStack),
		middleware.Recovery(),
		middleware.SecureHeaders(),
		cors.New(corsConfig(o.CORSOrigins)),
		middleware.RateLimit(o.Redis, o.RateLimitMax, o.RateLimitWindow, middleware.KeyByIP(), middleware.AllowPaths(HealthPath(o.APIPrefix))),
		middleware.SanitizeBody("avatar", "link", "password"),
	)
	r.NoRoute(middleware.NoRoute)
	r.NoMethod(middleware.NoMethod)
	return r
}

// HealthPath is where the ops module mounts the health check.
func HealthPath(prefix string) string {
	return path.Join("/", prefix, "healthz")
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		// credentials cannot be combined with a wildcard origin
		cfg.AllowOriginFunc = func(string) bool { return true }
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
