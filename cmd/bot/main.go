package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ClaimSentinel/internal/abi"
	"ClaimSentinel/internal/chain"
	"ClaimSentinel/internal/collected"
	"ClaimSentinel/internal/config"
	"ClaimSentinel/internal/endpoint"
	"ClaimSentinel/internal/engine"
	"ClaimSentinel/internal/logging"
	"ClaimSentinel/internal/metrics"
	"ClaimSentinel/internal/notifier"
	"ClaimSentinel/internal/recorder"
	"ClaimSentinel/internal/scheduler"
	"ClaimSentinel/internal/txn"
)

func main() {
	// Optional .env for local runs; real deployments set the environment.
	_ = godotenv.Load()

	logger, err := logging.New()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()
	logger.Info("ClaimSentinel starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("config validation: %v", err)
	}

	// Parse account keys; malformed keys exclude the account, not the process.
	accounts := cfg.ValidAccounts(logger)
	if len(accounts) == 0 {
		logger.Fatal("no usable accounts after key validation")
	}
	logger.Infof("%d account(s) configured, dry_run=%v", len(accounts), cfg.DryRun)

	// Endpoint pool
	pool, err := endpoint.NewPool(cfg.RPC.Endpoints)
	if err != nil {
		logger.Fatalf("init endpoint pool: %v", err)
	}

	// Chain client
	table := chain.TableConfig{
		Code:          cfg.Chain.GameContract,
		Table:         cfg.Chain.LimitTable,
		Scope:         cfg.Chain.TableScope,
		IndexPosition: cfg.Chain.IndexPosition,
		KeyType:       cfg.Chain.KeyType,
	}
	chainClient := chain.NewClient(table, cfg.Chain.TokenContract, cfg.Chain.TokenSymbol, cfg.RPC.RequestsPerSecond, logger)

	// Game API client
	collector := collected.NewClient(cfg.GameAPI.CollectedURL, logger)

	// Transaction submitter
	submitter := txn.NewSubmitter(chainClient, pool, cfg.DryRun, logger)

	// Telegram notifier (nil when unconfigured)
	tg := notifier.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, logger)

	// Recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warnf("init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Economics engine
	eng := engine.New(engine.Config{
		MinClaim:       cfg.Strategy.MinClaim,
		MaxWaste:       cfg.Strategy.MaxWaste,
		MaxLimit:       cfg.Strategy.MaxLimit,
		DelayMin:       cfg.Strategy.DelayMin,
		DelayMax:       cfg.Strategy.DelayMax,
		GameContract:   cfg.Chain.GameContract,
		TokenContract:  cfg.Chain.TokenContract,
		ServiceAccount: cfg.Chain.ServiceAccount,
		IncreaseMemo:   cfg.Chain.IncreaseMemo,
		Symbol:         abi.Symbol{Precision: uint8(cfg.Chain.TokenPrecision), Code: cfg.Chain.TokenSymbol},
	}, pool, chainClient, collector, submitter, rec, tg, logger)

	// Scheduler
	sched := scheduler.NewScheduler(ctx, accounts, pool, eng, tg, logger)
	if err := sched.Register(cfg.Schedule.IntervalMinutes); err != nil {
		logger.Fatalf("register cycle task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional metrics endpoint
	if cfg.Metrics.ListenAddr != "" {
		go metrics.Serve(cfg.Metrics.ListenAddr, logger)
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		logger.Info("RUN_ON_START enabled, executing cycle now")
		go sched.RunCycle()
	}

	logger.Infof("ClaimSentinel is running, cycle every %dm. Press Ctrl+C to stop.", cfg.Schedule.IntervalMinutes)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutdown signal received, stopping...")
	cancel()
	logger.Info("ClaimSentinel stopped")
}
