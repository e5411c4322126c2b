package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"formgate/middleware/ratelimit"
	rldomain "formgate/middleware/ratelimit/domain"
	rlinfra "formgate/middleware/ratelimit/infra"
	"formgate/middleware/requestlog"
	"formgate/submission"
	"formgate/submission/application"
	"formgate/submission/domain"
	"formgate/submission/infra"

	"github.com/redis/go-redis/v9"
)

func runServe(parent context.Context) error {
	cfg, err := readConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	logger := setupLogger(os.Stderr, cfg.logLevel, cfg.logFormat)

	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	storage, err := infra.OpenStorage(ctx, cfg.storage)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := storage.Close(closeCtx); err != nil {
			logger.Warn("storage close failed", "error", err)
		}
	}()

	svc := application.NewService(storage, application.Dispatcher{
		Notifier: buildNotifier(logger, cfg.notifier),
		Timeout:  cfg.notifyTimeout,
	}, application.WithLogger(logger))

	handler := submission.NewHandler(svc, cfg.origins,
		submission.WithMaxBodyBytes(cfg.maxBodyBytes),
		submission.WithHandlerLogger(logger),
	)

	var submitMW []submission.Middleware
	if cfg.rateEnabled {
		store := rlinfra.NewStoreForRate(cfg.rate)
		store.StartJanitor(ctx)

		stats, closeStats, err := buildStats(ctx, logger, cfg)
		if err != nil {
			return err
		}
		defer closeStats()

		submitMW = append(submitMW, ratelimit.Middleware(ratelimit.Options{
			Store:               store,
			Stats:               stats,
			KeyHeader:           cfg.rateKeyHeader,
			TrustXForwardedFor:  cfg.trustXFF,
			RejectStatus:        http.StatusTooManyRequests,
			RetryAfter:          cfg.retryAfter,
			AddRateLimitHeaders: cfg.addHeaders,
			Limit:               cfg.rate.String(),
		}))
	}

	// o rate limit vem antes: requisições bloqueadas não ocupam vaga
	submitMW = append(submitMW, ratelimit.ConcurrencyMiddleware(ratelimit.ConcurrencyOptions{
		Max:            cfg.concurrencyMax,
		RejectStatus:   http.StatusServiceUnavailable,
		AcquireTimeout: cfg.concurrencyTimeout,
	}))

	router := submission.NewRouter(submission.RouterOptions{
		Handler:        handler,
		AllowedOrigins: cfg.origins,
		Global:         []submission.Middleware{requestlog.Middleware(logger)},
		Submit:         submitMW,
	})

	srv := &http.Server{
		Addr:              cfg.listenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("formgate listening", "addr", cfg.listenAddr, "version", Version)
	logger.Info("storage", "backend", cfg.storage.Backend)
	logger.Info("notifier", "provider", cfg.notifier.Provider, "timeout", cfg.notifyTimeout)
	logger.Info("rate", "enabled", cfg.rateEnabled, "limit", cfg.rate.String(), "keyHeader", cfg.rateKeyHeader, "trustXFF", cfg.trustXFF)
	logger.Info("rate-stats", "enabled", cfg.rateStatsEnabled, "redisAddr", cfg.rateStatsRedisAddr, "bucket", cfg.rateStatsBucket, "ttl", cfg.rateStatsTTL, "trackKeys", cfg.rateStatsTrackKeys)
	logger.Info("concurrency", "max", cfg.concurrencyMax, "acquireTimeout", cfg.concurrencyTimeout)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("formgate stopped")
	return nil
}

// buildNotifier nunca falha: um canal mal configurado vira FailingNotifier e
// cada submissão registra o erro no log, sem afetar a resposta.
func buildNotifier(logger *slog.Logger, cfg infra.NotifierConfig) domain.Notifier {
	n, err := infra.NewNotifier(cfg)
	if err != nil {
		logger.Warn("notifier unavailable, submissions will not be notified", "provider", cfg.Provider, "error", err)
		return infra.FailingNotifier{Err: err}
	}
	if n == nil {
		logger.Info("notifications disabled")
	}
	return n
}

// buildStats escolhe onde gravar as decisões do limiter: Redis quando há
// endereço, memória caso contrário (totais vão para o log no encerramento).
func buildStats(ctx context.Context, logger *slog.Logger, cfg config) (rldomain.StatsStore, func(), error) {
	if !cfg.rateStatsEnabled {
		return nil, func() {}, nil
	}

	if cfg.rateStatsRedisAddr == "" {
		mem := rlinfra.NewMemoryStatsStore(rlinfra.WithTrackKeys(cfg.rateStatsTrackKeys))
		return mem, func() {
			t := mem.Total()
			logger.Info("rate-stats totals", "allowed", t.Allowed, "denied", t.Denied, "routes", len(mem.ByRoute()))
		}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.rateStatsRedisAddr,
		Password: cfg.rateStatsRedisPassword,
		DB:       cfg.rateStatsRedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	_, err := rdb.Ping(pingCtx).Result()
	cancel()
	if err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis stats ping error: %w", err)
	}

	stats := rlinfra.NewRedisStatsStore(
		rdb,
		rlinfra.WithStatsPrefix(cfg.rateStatsPrefix),
		rlinfra.WithStatsTTL(cfg.rateStatsTTL),
		rlinfra.WithStatsBucket(cfg.rateStatsBucket),
		rlinfra.WithStatsTrackKeys(cfg.rateStatsTrackKeys),
	)
	return stats, func() {
		totalCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if t, err := stats.Total(totalCtx); err == nil {
			logger.Info("rate-stats totals", "allowed", t.Allowed, "denied", t.Denied)
		}
		_ = rdb.Close()
	}, nil
}
