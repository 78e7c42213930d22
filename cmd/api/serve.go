package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	mw "github.com/5w1tchy/library-api/internal/api/middlewares"
	"github.com/5w1tchy/library-api/internal/api/router"
	"github.com/5w1tchy/library-api/internal/config"
	"github.com/5w1tchy/library-api/internal/metrics"
	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/repository/sqlconnect"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}
	for _, w := range cfg.HardeningWarnings() {
		log.Warn().Msg(w)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sqlconnect.ConnectDB(ctx, cfg.DatabaseURL, sqlconnect.Pool(cfg.DB))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()
	log.Info().Msg("connected to database")

	reg, err := models.NewRegistry()
	if err != nil {
		return err
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewWithRegistry(promReg)

	limiters, closeRedis, err := rateLimiters(ctx, cfg, log, m)
	if err != nil {
		return err
	}
	defer closeRedis()

	api := router.Router(router.Deps{DB: db, Registry: reg, Metrics: m, Gatherer: promReg, Log: log})
	outer := []mw.Middleware{
		mw.Recovery(log),
		mw.RequestID,
		mw.AccessLog(log),
		mw.ResponseTime,
		mw.SecurityHeaders(cfg.StrictSecurity),
		mw.Cors(cfg.CORSOrigins, log),
		mw.HPP(mw.DefaultHPPOptions()),
	}
	outer = append(outer, limiters...)
	outer = append(outer, mw.BodySizeLimit(cfg.MaxBodyBytes), mw.Compression)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mw.Chain(api, outer...),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Bool("tls", cfg.TLSCert != "").Msg("server listening")
		if cfg.TLSCert != "" {
			errc <- srv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
			return
		}
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// rateLimiters connects to Redis when configured and returns the token
// bucket and sliding window middlewares. Without Redis no limiter runs.
func rateLimiters(ctx context.Context, cfg config.Config, log zerolog.Logger, m *metrics.Collector) ([]mw.Middleware, func(), error) {
	if !cfg.RedisEnabled() {
		return nil, func() {}, nil
	}
	opt, err := cfg.RedisOptions()
	if err != nil {
		return nil, nil, err
	}
	rdb := redis.NewClient(opt)
	if err := config.PingRedis(ctx, rdb, 3*time.Second); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("redis: %w", err)
	}
	log.Info().Msg("connected to redis")

	rl := cfg.RateLimit
	tb := mw.NewRedisTokenBucket(rdb, rl.PerSecond, rl.Burst, mw.PerIPKey("tb", cfg.TrustedProxies), log, m)
	sw := mw.NewRedisSlidingWindow(rdb, rl.WindowLimit, rl.Window, mw.PerIPKey("sw", cfg.TrustedProxies), log, m)
	return []mw.Middleware{tb.Middleware, sw.Middleware}, func() { rdb.Close() }, nil
}
