package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"JournalFeed/internal/config"
	"JournalFeed/internal/domain"
	"JournalFeed/internal/infrastructure/cache"
	"JournalFeed/internal/infrastructure/ieee"
	"JournalFeed/internal/infrastructure/output"
	"JournalFeed/internal/infrastructure/render"
	"JournalFeed/internal/infrastructure/scheduler"
	"JournalFeed/internal/logging"
	"JournalFeed/internal/ports"
	"JournalFeed/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	registry *prometheus.Registry
	closers  []io.Closer
}

// New builds the application. Backends that need a connection are dialed here.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	a := &Application{cfg: cfg, logger: baseLogger, registry: prometheus.NewRegistry()}

	store, err := a.buildStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	jar, err := ieee.NewCookieJar()
	if err != nil {
		a.Close()
		return nil, err
	}

	renderer, err := render.NewDescriptionRenderer()
	if err != nil {
		a.Close()
		return nil, err
	}

	platform := ieee.NewClient(jar, ieee.Options{
		BaseURL:   cfg.Platform.BaseURL,
		UserAgent: cfg.Platform.UserAgent,
		Timeout:   cfg.Platform.Timeout,
		Logger:    baseLogger.With("component", "ieee"),
	})

	memo := cache.NewMemo(store, cache.NewMetrics(a.registry), baseLogger.With("component", "cache"))

	enricher := usecase.NewEnricher(usecase.EnricherDeps{
		Fetcher:        platform,
		Parser:         ieee.PageParser{},
		Renderer:       renderer,
		Cache:          memo,
		Policy:         usecase.FailurePolicy(cfg.Enrich.FailurePolicy),
		MaxConcurrency: cfg.Enrich.MaxConcurrency,
		Logger:         baseLogger.With("component", "enricher"),
	})

	a.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Resolver:   platform,
		TOC:        platform,
		Normalizer: ieee.RecordNormalizer{},
		Enricher:   enricher,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	return a, nil
}

func (a *Application) buildStore(ctx context.Context) (ports.ArticleStore, error) {
	switch a.cfg.Cache.Backend {
	case config.CacheRedis:
		client, err := cache.ConnectRedis(ctx, a.cfg.Cache.Redis.Addr, a.cfg.Cache.Redis.Password, a.cfg.Cache.Redis.DB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client)
		a.logger.Info("article cache", "backend", "redis", "addr", a.cfg.Cache.Redis.Addr)
		return cache.NewRedisStore(client, a.cfg.Cache.Redis.Prefix, a.cfg.Cache.TTL), nil

	case config.CachePostgres:
		db, err := cache.OpenPostgres(ctx, a.cfg.Cache.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db)
		store, err := cache.NewPostgresStore(db, a.cfg.Cache.Postgres.Table, a.cfg.Cache.TTL)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		a.logger.Info("article cache", "backend", "postgres", "table", a.cfg.Cache.Postgres.Table)
		return store, nil

	default:
		a.logger.Info("article cache", "backend", "memory")
		return cache.NewMemoryStoreTTL(a.cfg.Cache.TTL), nil
	}
}

// Run builds one journal's feed and writes it to w.
func (a *Application) Run(ctx context.Context, journalID, sortType string, w ports.FeedWriter) error {
	feed, err := a.pipeline.Run(ctx, journalID, config.SortTypeOrDefault(sortType))
	var partial *usecase.PartialError
	if err != nil && !errors.As(err, &partial) {
		return err
	}
	if partial != nil {
		a.logger.Warn("feed built with unenriched articles", "journal", journalID, "error", partial)
	}

	a.logger.Info("feed built", "journal", journalID, "title", feed.Title, "items", len(feed.Items), "enriched", countEnriched(feed.Items))
	return w.WriteFeed(ctx, journalID, feed)
}

// Watch regenerates the configured journals on the cron schedule until ctx is done.
func (a *Application) Watch(ctx context.Context) error {
	driver, err := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, a.cfg.Scheduler.Location())
	if err != nil {
		return err
	}

	journals := make([]usecase.Journal, 0, len(a.cfg.Journals))
	for _, j := range a.cfg.Journals {
		journals = append(journals, usecase.Journal{ID: j.ID, SortType: j.SortTypeOrDefault()})
	}

	sched := usecase.NewScheduler(driver, a.pipeline, journals, output.NewDirWriter(a.cfg.Output.Dir), a.logger.With("component", "scheduler"))

	var metricsServer *http.Server
	if a.cfg.Metrics.Addr != "" {
		metricsServer = a.serveMetrics()
	}

	a.logger.Info("watching journals", "count", len(journals), "cron", a.cfg.Scheduler.CronExpression, "output", a.cfg.Output.Dir)
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if metricsServer != nil {
		_ = metricsServer.Shutdown(shutdownCtx)
	}
	return sched.Stop(shutdownCtx)
}

func (a *Application) serveMetrics() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              a.cfg.Metrics.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", "error", err)
		}
	}()
	return server
}

// Close releases cache backend connections.
func (a *Application) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("close resource", "error", err)
		}
	}
	a.closers = nil
}

func countEnriched(items []domain.Article) int {
	n := 0
	for _, item := range items {
		if item.Enriched() {
			n++
		}
	}
	return n
}
