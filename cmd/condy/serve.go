package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/condyapp/portal/internal/action"
	"github.com/condyapp/portal/internal/audit"
	"github.com/condyapp/portal/internal/config"
	"github.com/condyapp/portal/internal/gateway"
	"github.com/condyapp/portal/internal/metrics"
	"github.com/condyapp/portal/internal/ratelimit"
	"github.com/condyapp/portal/internal/session"
	"github.com/condyapp/portal/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Condy portal server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()

	gw := gateway.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)
	gw.SetMetrics(m)
	actions := action.NewService(gw)

	codec, err := session.NewCodec(cfg.Session.Password)
	if err != nil {
		return err
	}
	sessions := session.NewManager(codec, cfg.Session.CookieName, cfg.Session.MaxAge, cfg.Session.Secure)

	limiter := ratelimit.New(cfg.RateLimit.LoginAttempts, cfg.RateLimit.Window)

	// The audit trail is optional: without a database URL the portal runs
	// with a no-op recorder and the admin audit page answers 503.
	var recorder audit.Recorder = audit.Nop{}
	var collector *audit.Collector
	var store *audit.Store
	if cfg.Database.URL != "" {
		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			return err
		}
		slog.Info("connected to audit database")

		m.RegisterDBPoolCollector(func() (total, idle, acquired int32) {
			st := pool.Stat()
			return st.TotalConns(), st.IdleConns(), st.AcquiredConns()
		})

		store = audit.NewStore(pool)
		collector = audit.NewCollector(store, cfg.Audit.BatchSize, cfg.Audit.FlushInterval)
		go collector.Start(ctx)
		go sampleAuditBuffer(ctx, m, collector)
		recorder = collector
	} else {
		slog.Info("audit disabled, no database configured")
	}

	handler := web.NewHandler(actions, sessions, gw, recorder, m, limiter, cfg.Upload, cfg.Contact.WhatsApp, cfg.PublicAPIBaseURL())
	if store != nil {
		handler.SetAuditLog(store)
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler.NewRouter(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", cfg.Addr(), "upstream", cfg.Upstream.BaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if collector != nil {
		collector.Stop()
	}

	return srv.Shutdown(shutdownCtx)
}

// sampleAuditBuffer feeds the audit buffer gauge for the status page.
func sampleAuditBuffer(ctx context.Context, m *metrics.Metrics, c *audit.Collector) {
	t := time.NewTicker(10 * time.Second)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.AuditBufferSize.Set(float64(c.BufferLen()))
		}
	}
}
