package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"p2pmonitor/internal/client/p2p"
	"p2pmonitor/internal/config"
	cronrunner "p2pmonitor/internal/cron"
	"p2pmonitor/internal/db"
	"p2pmonitor/internal/handler"
	"p2pmonitor/internal/logger"
	gormrepository "p2pmonitor/internal/repository/gorm"
	"p2pmonitor/internal/service"

	_ "p2pmonitor/docs"
)

func main() {
	cfgPath := os.Getenv("P2P_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("P2P_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	upstreamHTTP := &http.Client{Timeout: cfg.Upstream.Timeout}
	upstream := p2p.NewClient(upstreamHTTP, cfg.Upstream.BaseURL)
	store := gormrepository.New(dbConn.Gorm)

	normalizer := &service.Normalizer{
		Methods: cfg.PaymentMethods,
		Logger:  logger,
	}
	ingestSvc := &service.IngestService{
		Store:      store,
		Client:     upstream,
		Normalizer: normalizer,
		Logger:     logger,
		PageSize:   cfg.Ingest.PageSize,
		MaxPages:   cfg.Ingest.MaxPages,
		SidePause:  cfg.Ingest.SidePause,
	}
	querySvc := &service.MarketQueryService{Repo: store, Logger: logger}
	retentionSvc := &service.RetentionService{Repo: store, Logger: logger}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	marketHandler := &handler.MarketHandler{
		Ingest:    ingestSvc,
		Query:     querySvc,
		Retention: retentionSvc,
		Defaults:  handler.MarketDefaults{RetentionDays: cfg.Retention.Days},
		Logger:    logger,
	}
	marketHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled {
		pairs := cfg.Ingest.Pairs
		_, err = cronRunner.Add(cfg.Cron.Ingest, func(ctx context.Context) {
			for _, pair := range pairs {
				result, err := ingestSvc.IngestPair(ctx, pair.Token, pair.Currency)
				if err != nil {
					logger.Warn("cron ingest failed",
						zap.String("token", pair.Token),
						zap.String("currency", pair.Currency),
						zap.Error(err),
					)
					continue
				}
				logger.Info("cron ingest ok",
					zap.String("token", result.TokenID),
					zap.String("currency", result.CurrencyID),
					zap.Int("pages", result.Pages),
					zap.Int("fetched", result.Fetched),
					zap.Int("inserted", result.Inserted),
					zap.Int("dropped", result.Dropped),
					zap.Int("duplicates", result.Duplicates),
				)
			}
		})
		if err != nil {
			logger.Warn("cron register ingest failed", zap.Error(err))
		}

		_, err = cronRunner.Add(cfg.Cron.Cleanup, func(ctx context.Context) {
			result, err := retentionSvc.Sweep(ctx, cfg.Retention.Days)
			if err != nil {
				logger.Warn("cron cleanup failed", zap.Error(err))
				return
			}
			logger.Info("cron cleanup ok",
				zap.Int64("snapshots", result.Snapshots),
				zap.Int64("payments", result.Payments),
				zap.Int64("preferences", result.Preferences),
			)
		})
		if err != nil {
			logger.Warn("cron register cleanup failed", zap.Error(err))
		}
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
