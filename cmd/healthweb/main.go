package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"healthweb/internal/adapter/backend"
	adapthttp "healthweb/internal/adapter/http"
	"healthweb/internal/adapter/memory"
	"healthweb/internal/adapter/postgres"
	"healthweb/internal/app"
	"healthweb/internal/config"
	"healthweb/internal/domain"
	"healthweb/internal/render"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := backend.New(cfg.BackendURL, cfg.RequestTimeout, nil)
	if err != nil {
		log.Fatalf("backend: %v", err)
	}

	var state domain.StateRepository
	switch cfg.StateBackend {
	case config.StateMemory:
		state = memory.New()
	case config.StatePostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		defer func() { _ = db.Close() }()
		state = db
	}

	rdr, err := render.New()
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	backendFor := func(token string) domain.Backend {
		if token == "" {
			return client
		}
		return client.WithToken(token)
	}
	h := adapthttp.New(client, backendFor, rdr, adapthttp.Options{
		WebDir:       cfg.WebDir,
		HashKey:      cfg.HashKey,
		BlockKey:     cfg.BlockKey,
		OldKeys:      cfg.OldKeys,
		CookieSecure: cfg.CookieSecure,
		State:        state,
		LegacyKeys:   cfg.LegacyKeys,
		Offline:      cfg.Offline,
	}).Handler()

	if state != nil {
		go app.RunStatePurge(ctx, state, cfg.StateTTL, time.Hour)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("listening on %s (backend %s, state %s)", cfg.Addr, cfg.BackendURL, cfg.StateBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
