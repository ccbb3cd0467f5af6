package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phoen88/TwitchBAPL-logs/internal/config"
	"github.com/phoen88/TwitchBAPL-logs/internal/discord"
	httpapi "github.com/phoen88/TwitchBAPL-logs/internal/http"
	"github.com/phoen88/TwitchBAPL-logs/internal/ledger"
	"github.com/phoen88/TwitchBAPL-logs/internal/logger"
	"github.com/phoen88/TwitchBAPL-logs/internal/metrics"
	"github.com/phoen88/TwitchBAPL-logs/internal/scheduler"
	"github.com/phoen88/TwitchBAPL-logs/internal/twitch"
	"github.com/phoen88/TwitchBAPL-logs/internal/worker"
)

func main() {
	var exitCode int
	defer func() {
		os.Exit(exitCode)
	}()

	cfg, err := config.Load()
	if err != nil {
		// Logger config may itself be missing; use a bare logger here.
		logger.New("info", "").WithError(err).Error("configuration")
		exitCode = 1
		return
	}
	log := logger.New(cfg.LogLevel, cfg.Environment)

	rootCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// ---- Ledger ----
	var led ledger.Ledger
	var ping func(ctx context.Context) error
	if cfg.DatabaseURL != "" {
		pg, err := ledger.NewPostgres(rootCtx, cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Error("postgres ledger")
			exitCode = 1
			return
		}
		defer pg.Close()
		ping = pg.Pool.Ping
		led = pg
		log.Info("using postgres delivery ledger")
	} else {
		led = ledger.NewMemory()
		log.Info("using in-memory delivery ledger")
	}

	// ---- Pipeline ----
	source := twitch.NewClient(cfg.HelixURL, cfg.BearerToken, cfg.ClientID, log)
	webhook := discord.NewWebhook(cfg.WebhookURL)
	notifier := worker.NewNotifier(webhook, source, led, log)
	dispatcher := worker.NewDispatcher(notifier, worker.DispatchOptions{
		ChunkSize:       cfg.ChunkSize,
		ChunksPerMinute: cfg.ChunksPerMinute,
	})
	runner := worker.NewRunner(source, dispatcher, cfg.ModeratorID, cfg.Broadcasters, log)

	// ---- Ops surface ----
	metrics.MustRegister()
	ops := &httpapi.Server{Ping: ping}
	go func() {
		srv := &http.Server{
			Addr:         cfg.HealthAddr,
			Handler:      ops.Router(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Warn("ops server")
		}
	}()

	// ---- Run ----
	if cfg.PollCron == "" {
		runner.Run(rootCtx)
		return
	}

	sched, err := scheduler.New(cfg.PollCron, func() { runner.Run(rootCtx) }, log)
	if err != nil {
		log.WithError(err).Errorf("invalid POLL_CRON %q", cfg.PollCron)
		exitCode = 1
		return
	}
	log.WithField("cron", cfg.PollCron).Info("running on schedule")
	runner.Run(rootCtx) // first pass immediately, then on schedule
	sched.Start()

	<-rootCtx.Done()
	sched.Stop()
	log.Info("shut down")
}
