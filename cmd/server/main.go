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
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"gexwatch/internal/chart"
	"gexwatch/internal/config"
	cronrunner "gexwatch/internal/cron"
	"gexwatch/internal/db"
	"gexwatch/internal/fetch"
	"gexwatch/internal/gex"
	"gexwatch/internal/handler"
	"gexwatch/internal/logger"
	"gexwatch/internal/marketdata"
	"gexwatch/internal/metrics"
	gormrepository "gexwatch/internal/repository/gorm"
	"gexwatch/internal/service"

	_ "gexwatch/docs"
)

func main() {
	// .env.local mirrors local-dev convention; both are optional.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	cfgPath := os.Getenv("GW_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("GW_ENV_ONLY"); envOnlyRaw != "" {
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

	if cfg.DB.DSN == "" {
		logger.Fatal("db.dsn is required (set GW_DB_DSN or config)")
	}

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

	store := gormrepository.New(dbConn.Gorm)

	watchlistSvc := &service.WatchlistService{Repo: store, Logger: logger}
	querySvc := &service.GexQueryService{Repo: store}
	fetchSvc := &service.FetchTriggerService{
		Fetcher: &fetch.ScriptFetcher{
			ScriptPath: cfg.Fetch.ScriptPath,
			Timeout:    cfg.Fetch.Timeout,
		},
		Repo:   store,
		Logger: logger,
	}
	session := chart.NewSession(querySvc, cfg.Chart.LookbackDays, cfg.Chart.CacheSize)

	chainHTTP := &http.Client{Timeout: cfg.MarketData.Chain.Timeout}
	refreshSvc := &service.RefreshService{
		Repo:   store,
		Chain:  marketdata.NewChainClient(chainHTTP, cfg.MarketData.Chain.BaseURL),
		Spot:   marketdata.NewAlpacaSpot(cfg.MarketData.Spot),
		Logger: logger,
		Opts: gex.Options{
			RiskFreeRate:  cfg.Gex.RiskFreeRate,
			MaxExpiries:   cfg.Gex.MaxExpiries,
			StrikeBandPct: cfg.Gex.StrikeBandPct,
		},
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm, FetchScript: cfg.Fetch.ScriptPath}
	healthHandler.Register(engine)
	watchlistHandler := &handler.WatchlistHandler{
		Service: watchlistSvc,
		Fetch:   fetchSvc,
		Logger:  logger,
	}
	watchlistHandler.Register(engine)
	gexHandler := &handler.GexHandler{Query: querySvc, Session: session, Logger: logger}
	gexHandler.Register(engine)
	fetchHandler := &handler.FetchHandler{Trigger: fetchSvc, Repo: store, Logger: logger}
	fetchHandler.Register(engine)

	metrics.Register(engine)
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled {
		_, err := cronRunner.Add(cfg.Cron.RefreshSpec, func(ctx context.Context) {
			if err := refreshSvc.RefreshAll(ctx); err != nil {
				logger.Warn("scheduled refresh failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register refresh failed", zap.Error(err))
		}
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	errCh := make(chan error, 1)
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
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
