package main

import (
	"context"
	"encoding/base64"
	"log"
	"time"

	"bluemark.com/bluemark/core/attendance"
	"bluemark.com/bluemark/identity"
	"bluemark.com/bluemark/infrastructure/cache"
	"bluemark.com/bluemark/infrastructure/devops"
	"bluemark.com/bluemark/insight"
	"bluemark.com/bluemark/reporting"
	"bluemark.com/bluemark/web/handlers"
	"bluemark.com/bluemark/web/middlewares"
	"github.com/gin-gonic/gin"
)

func main() {
	ctx := context.Background()

	cfg, err := devops.LoadConfig(ctx)
	if err != nil {
		log.Fatal(err)
	}

	jwtSecret, err := base64.StdEncoding.DecodeString(cfg.SigningSecret)
	if err != nil {
		log.Fatal("Failed to decode JWT secret:", err)
	}

	store, closeCache, err := openStore(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()

	h := handlers.New(store, cfg.Company)
	h.Identity = identity.NewClient(cfg.Webhooks.LoginURL)
	h.Sink = reporting.NewSink(cfg.Webhooks.CheckInURL, cfg.Webhooks.CheckOutURL)
	h.Insight = insight.NewProvider(ctx, cfg.GeminiAPIKey)
	h.JWTSecret = cfg.SigningSecret
	h.TokenTTL = cfg.TokenTTLSeconds

	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	r.POST("/api/v1/auth/login", h.LoginHandler())

	protected := r.Group("/api/v1")
	protected.Use(middlewares.Authentication(jwtSecret))
	{
		protected.POST("/attendance/checkin", h.CheckInHandler())
		protected.POST("/attendance/checkout", h.CheckOutHandler())
		protected.GET("/attendance/today", h.TodayHandler())
		protected.GET("/attendance/logs", h.LogsHandler())
		protected.GET("/attendance/insight", h.InsightHandler())

		admin := protected.Group("/admin")
		admin.Use(middlewares.RequireAdmin())
		{
			admin.GET("/logs", h.SearchLogsHandler())
			admin.GET("/stats", h.StatsHandler())
			admin.PUT("/logs/:id/approve", h.ApproveHandler())
			admin.GET("/export", h.ExportHandler())
		}
	}

	r.Run(cfg.Addr)
}

// openStore wires the durable cache behind the attendance store: MySQL when
// a DSN is configured, local snapshot files otherwise.
func openStore(cfg devops.Config) (*attendance.Store, func(), error) {
	if cfg.CacheDSN != "" {
		dbCache, err := cache.NewDBCache(cfg.CacheDSN, 10)
		if err != nil {
			return nil, nil, err
		}
		return attendance.NewStore(dbCache, time.Now()), func() { dbCache.Close() }, nil
	}

	fileCache, err := cache.NewFileCache(cfg.CacheDir)
	if err != nil {
		return nil, nil, err
	}
	return attendance.NewStore(fileCache, time.Now()), func() {}, nil
}
