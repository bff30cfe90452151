package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/oksasatya/mesto-api/config"
	"github.com/oksasatya/mesto-api/internal/bootstrap"
	"github.com/oksasatya/mesto-api/internal/container"
	"github.com/oksasatya/mesto-api/internal/infrastructure/objectstore"
	"github.com/oksasatya/mesto-api/internal/infrastructure/search"
	"github.com/oksasatya/mesto-api/internal/router"
	"github.com/oksasatya/mesto-api/pkg/helpers"
	"github.com/oksasatya/mesto-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	reqLog, reqLogCloser := helpers.NewFileLogger(cfg.LogDir, "request.log")
	defer func() { _ = reqLogCloser.Close() }()
	errLog, errLogCloser := helpers.NewFileLogger(cfg.LogDir, "error.log")
	defer func() { _ = errLogCloser.Close() }()

	ctx := context.Background()

	stores, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("store: %v", err)
	}
	defer stores.Close()

	// Optional services; each one disables its feature when unset.
	rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.WithError(err).Warn("redis unavailable; rate limiting disabled")
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := search.NewClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err == nil {
			c, cancel := context.WithTimeout(ctx, 10*time.Second)
			err = search.NewUserIndex(es, cfg.ESUsersIndex).EnsureIndex(c)
			cancel()
		}
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable; search falls back to a scan")
		} else {
			container.SetES(es)
		}
	}

	if cfg.GCSBucket != "" {
		gcsClient, err := objectstore.NewClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.WithError(err).Warn("gcs unavailable; avatar upload disabled")
		} else {
			defer func() { _ = gcsClient.Close() }()
			container.SetGCS(gcsClient)
		}
	}

	if cfg.MailSendEnabled && cfg.RabbitMQURL != "" {
		q, err := helpers.DialRabbitQueue(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; emails disabled")
		} else {
			defer q.Close()
			container.SetEmailQueue(q)
		}
	}

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetErrorLogger(errLog)
	container.SetRedis(rdb)
	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL))
	container.SetUsers(stores.Users)
	container.SetCards(stores.Cards)

	r := router.NewEngine(router.EngineOptions{
		AppLogger:       logger,
		Logger:          reqLog,
		APIPrefix:       cfg.APIPrefix,
		ErrLogger:       container.GetErrorLogger(),
		ShowStack:       !cfg.IsProduction(),
		TrustProxy:      cfg.TrustProxyHeaders,
		CORSOrigins:     cfg.CORSOrigins(),
		HTTPLog:         true,
		Redis:           rdb,
		RateLimitMax:    cfg.RateLimitMax,
		RateLimitWindow: cfg.RateLimitWindow,
	})
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r, cfg.APIPrefix)
	router.InitModules(reg, router.DepsFromContainer())
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
