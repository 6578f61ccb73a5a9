package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"DestinyMap/internal/usecase"
	pkgcache "DestinyMap/pkg/cache"
	pkgch "DestinyMap/pkg/clickhouse"
	"DestinyMap/pkg/config"
	xhttp "DestinyMap/pkg/http"
	pkgkafka "DestinyMap/pkg/kafka"
	applogger "DestinyMap/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	consumer    *pkgkafka.Consumer
	kh          pkgkafka.MessageHandler
	chClient    *pkgch.Client
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	memCache    *pkgcache.MemoryCache
	log         *applogger.Logger

	// RecordProc holds audit resources so shutdown can drain and close them.
	RecordProc *usecase.RecordProcessor
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	handler xhttp.Handler,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	log *applogger.Logger,
) *App {
	return &App{
		cfg:         cfg,
		httpHandler: handler,
		consumer:    consumer,
		kh:          kh,
		chClient:    chClient,
		log:         log,
	}
}

// SetMemoryCache allows DI to hand over the in-process cache so the app can
// run its expiry sweeper.
func (a *App) SetMemoryCache(mc *pkgcache.MemoryCache) { a.memCache = mc }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.log
	if l == nil {
		l, _ = applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	}

	serverOpts := []xhttp.ServerOption{
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	}
	if a.cfg.Metrics.Enabled {
		serverOpts = append(serverOpts, xhttp.WithMetricsMiddleware(l, time.Second))
	}
	a.httpServer = xhttp.NewServer(a.httpHandler, serverOpts...)

	// Background sweep of expired aggregates
	if a.memCache != nil {
		a.memCache.StartSweeper(ctx, a.cfg.Cache.CleanupInterval)
		l.Info("cache sweeper started", applogger.Duration("interval", a.cfg.Cache.CleanupInterval))
	}

	// Start precompute consumer if configured
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}
	l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx, l)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context, l *applogger.Logger) error {
	// Shutdown HTTP server first so no new computations start
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Drain audit records (closes publisher/store)
	if a.RecordProc != nil {
		a.RecordProc.Close()
	}

	// Close infrastructure clients
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	if a.memCache != nil {
		if err := a.memCache.Close(); err != nil {
			l.Warn("cache close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")
	return nil
}
