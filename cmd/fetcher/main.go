// Command fetcher computes and stores gamma exposure for a single ticker.
// It is the external fetch process the server triggers: invoked with the
// ticker symbol as its sole argument, it exits 0 on success and 1 on
// failure with diagnostics on stderr.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"gexwatch/internal/config"
	"gexwatch/internal/db"
	"gexwatch/internal/gex"
	"gexwatch/internal/logger"
	"gexwatch/internal/marketdata"
	gormrepository "gexwatch/internal/repository/gorm"
	"gexwatch/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 || strings.TrimSpace(os.Args[1]) == "" {
		return fmt.Errorf("usage: fetcher TICKER")
	}
	ticker := service.NormalizeTicker(os.Args[1])

	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	// Without an explicit config file the fetcher runs env-only, matching
	// how the server invokes it from arbitrary working directories.
	cfgPath := os.Getenv("GW_CONFIG")
	envOnly := cfgPath == ""
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.DB.DSN == "" {
		return fmt.Errorf("db.dsn is required (set GW_DB_DSN)")
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("opening db: %w", err)
	}
	defer db.Close(dbConn)
	if err := db.AutoMigrate(dbConn); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	store := gormrepository.New(dbConn.Gorm)
	ctx := context.Background()

	entry, err := store.GetWatchlistEntryByTicker(ctx, ticker)
	if err != nil {
		return fmt.Errorf("looking up %s: %w", ticker, err)
	}
	if entry == nil {
		return fmt.Errorf("ticker %s not in watchlist", ticker)
	}

	chainHTTP := &http.Client{Timeout: cfg.MarketData.Chain.Timeout}
	refresh := &service.RefreshService{
		Repo:   store,
		Chain:  marketdata.NewChainClient(chainHTTP, cfg.MarketData.Chain.BaseURL),
		Spot:   marketdata.NewAlpacaSpot(cfg.MarketData.Spot),
		Logger: log,
		Opts: gex.Options{
			RiskFreeRate:  cfg.Gex.RiskFreeRate,
			MaxExpiries:   cfg.Gex.MaxExpiries,
			StrikeBandPct: cfg.Gex.StrikeBandPct,
		},
	}

	log.Info("processing ticker", zap.String("ticker", ticker))
	if err := refresh.RefreshTicker(ctx, *entry); err != nil {
		return fmt.Errorf("refreshing %s: %w", ticker, err)
	}

	fmt.Printf("Data saved for %s\n", ticker)
	return nil
}
