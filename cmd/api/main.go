package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	goredis "github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/armaan-gp-school/ossf-scada/internal/config"
	"github.com/armaan-gp-school/ossf-scada/internal/httpapi"
	apimw "github.com/armaan-gp-school/ossf-scada/internal/httpapi/middleware"
	"github.com/armaan-gp-school/ossf-scada/internal/logging"
	"github.com/armaan-gp-school/ossf-scada/internal/notify"
	"github.com/armaan-gp-school/ossf-scada/internal/registry"
	"github.com/armaan-gp-school/ossf-scada/internal/repo"
	"github.com/armaan-gp-school/ossf-scada/internal/repo/memory"
	"github.com/armaan-gp-school/ossf-scada/internal/repo/postgres"
	redisrepo "github.com/armaan-gp-school/ossf-scada/internal/repo/redis"
	"github.com/armaan-gp-school/ossf-scada/internal/scheduler"
	"github.com/armaan-gp-school/ossf-scada/internal/vault"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Stores: postgres when DATABASE_URL is set, in-memory otherwise.
	var (
		devices    repo.DeviceStore
		thresholds repo.ThresholdStore
		smsCfg     repo.SMSConfigStore
		history    repo.HistoryStore
		markers    repo.MarkerStore
	)
	if cfg.DatabaseURL != "" {
		pg, err := postgres.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			logger.Fatal("postgres_connect_failed", zap.Error(err))
		}
		defer pg.Close()
		devices, thresholds, smsCfg, history, markers = pg, pg, pg, pg, pg
		logger.Info("store_backend", zap.String("kind", "postgres"))
	} else {
		mem := memory.New()
		devices, thresholds, smsCfg, history, markers = mem, mem, mem, mem, mem
		logger.Info("store_backend", zap.String("kind", "memory"))
	}

	// Markers can live in redis so several instances share episode state.
	if cfg.RedisAddr != "" {
		rdb := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("redis_connect_failed", zap.Error(err))
		}
		defer rdb.Close()
		markers = redisrepo.NewMarkerStore(rdb, logger)
		logger.Info("marker_backend", zap.String("kind", "redis"))
	}

	if cfg.EncryptionKey == "" {
		logger.Warn("encryption_key_missing",
			zap.String("hint", "set SMS_ENCRYPTION_KEY; running on the insecure built-in default"),
		)
	}
	v := vault.New(cfg.EncryptionKey)

	var source registry.Source = registry.NewHTTPSource(cfg.RegistryBaseURL, cfg.RegistryToken, cfg.EvalTimeout)
	if cfg.RetryAttempts > 1 {
		source = &registry.RetrySource{Inner: source, Attempts: cfg.RetryAttempts, Backoff: cfg.RetryBackoff}
	}

	notifier := notify.NewSMSMailer(smsCfg, v, logger, cfg.SMTPHost, cfg.SMTPPort)

	orch := &scheduler.Orchestrator{
		Logger:     logger,
		Source:     source,
		Thresholds: thresholds,
		Markers:    markers,
		History:    history,
		Notifier:   notifier,
	}

	poller := scheduler.NewPoller(logger, devices, orch, cfg.EvalInterval, cfg.EvalTimeout, cfg.MaxConcurrentDevices)
	go poller.Run(ctx)

	api := httpapi.NewServer(logger, devices, thresholds, smsCfg, history, orch, notifier, v)
	keys := apimw.Keys{Public: cfg.PublicAPIKeys, Admin: cfg.AdminAPIKeys}
	handler := api.Router(keys, cfg.AllowedOrigins, cfg.PublicRPM, cfg.PublicBurst, cfg.AdminRPM, cfg.AdminBurst)

	srv := &http.Server{Addr: cfg.Addr, Handler: handler}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	logger.Info("api_listen", zap.String("addr", cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("api_serve_failed", zap.Error(err))
	}
}
