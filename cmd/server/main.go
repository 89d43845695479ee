package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/text/language"

	"github.com/AngelCh415/wb-ads-analytics/internal/analytics"
	"github.com/AngelCh415/wb-ads-analytics/internal/cache"
	"github.com/AngelCh415/wb-ads-analytics/internal/config"
	"github.com/AngelCh415/wb-ads-analytics/internal/httpx"
	"github.com/AngelCh415/wb-ads-analytics/internal/ingest"
	"github.com/AngelCh415/wb-ads-analytics/internal/metrics"
	"github.com/AngelCh415/wb-ads-analytics/internal/models"
	"github.com/AngelCh415/wb-ads-analytics/internal/prefs"
	"github.com/AngelCh415/wb-ads-analytics/internal/store"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("config", slog.String("err", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		prefStore prefs.Store = prefs.NewMemoryStore()
		resCache  cache.Cache = cache.NewMemoryCache(cfg.CacheTTL())
	)
	if cfg.UseRedis() {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("redis url", slog.String("err", err.Error()))
			os.Exit(1)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Error("redis ping", slog.String("err", err.Error()))
			os.Exit(1)
		}
		prefStore = prefs.NewRedisStore(rdb, cfg.CachePrefix)
		resCache = cache.NewRedisCache(rdb, cfg.CachePrefix, cfg.CacheTTL())
		logger.Info("using redis", slog.String("addr", opts.Addr))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	col := metrics.NewCollectors(reg)

	st := store.NewMemoryStore()
	cl := ingest.NewHTTPClient(cfg.HTTPTimeout())
	etl := ingest.NewETL(cl, st, logger, cfg, col)

	mgr := prefs.NewManager(prefStore, prefs.Defaults{
		Config: models.AnalyticsConfig{
			MarginPct:      cfg.DefaultMarginPct,
			MinClicksForCR: cfg.DefaultMinClicks,
		},
		LookbackDays: cfg.LookbackDays,
	})
	mSvc := metrics.NewService(metrics.Options{
		Store:    st,
		Engine:   analytics.NewEngine(language.Make(cfg.DisplayLocale)),
		Prefs:    mgr,
		Cache:    resCache,
		CacheTTL: cfg.CacheTTL(),
		Metrics:  col,
		Logger:   logger,
	})

	r := httpx.NewRouter(httpx.Deps{
		Log:         logger,
		ETL:         etl,
		Ready:       st,
		Service:     mSvc,
		Prefs:       mgr,
		Gatherer:    reg,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// initial load; readiness flips once it finishes either way
	go func() {
		if _, err := etl.Run(ctx); err != nil {
			logger.Warn("initial ingest failed", slog.String("err", err.Error()))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", slog.String("err", err.Error()))
		}
	}()

	logger.Info("starting server", slog.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
