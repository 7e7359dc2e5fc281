package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/owoyelepatrick51-droid/OG-MEDIA/api"
	"github.com/owoyelepatrick51-droid/OG-MEDIA/auth"
	"github.com/owoyelepatrick51-droid/OG-MEDIA/config"
	"github.com/owoyelepatrick51-droid/OG-MEDIA/news"
	"github.com/owoyelepatrick51-droid/OG-MEDIA/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "Path to config file (default: $OGNEWS_CONFIG or ognews.yaml)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	slog.SetDefault(cfg.Log.NewLogger(os.Stderr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Info("Storage ready", "type", cfg.Storage.Type)

	core := news.NewFromConfig(cfg.News)

	server := api.NewServer(api.Options{
		News:      core.Service,
		Regions:   core.Regional,
		Bookmarks: db,
		Auth:      auth.NewManager(db, auth.Options{SessionTTL: cfg.Auth.SessionTTL}),
		Cookie: auth.CookieConfig{
			Name:   cfg.Auth.CookieName,
			Secure: cfg.Auth.SecureCookie,
		},
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.SetupRouter(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting API server", "addr", cfg.Server.Addr, "regions", core.Regional.Regions())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutdown started")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("Server stopped")
	return nil
}
