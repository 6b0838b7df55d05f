package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"rendezvous/internal/cart"
	"rendezvous/internal/config"
	"rendezvous/internal/env"
	"rendezvous/internal/infrastructure/authapi"
	"rendezvous/internal/infrastructure/catalogapi"
	"rendezvous/internal/infrastructure/repo"
	"rendezvous/internal/infrastructure/wsconn"
	"rendezvous/internal/logger"
	"rendezvous/internal/realtime"
	"rendezvous/internal/server"
	"rendezvous/internal/usecase"
)

var errNoKioskID = errors.New("RENDEZVOUS_KIOSK_ID is required with RENDEZVOUS_DATABASE_URL")

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "rendezvous:", err)
		os.Exit(1)
	}
}

func run() error {
	if err := env.Load(".env", ".env.local"); err != nil {
		fmt.Fprintln(os.Stderr, "env:", err)
	}
	envDefaults := config.EnvDefaults()

	envName := flag.String("env", envDefaults.Env, "")
	port := flag.Int("port", envDefaults.Port, "")
	apiURL := flag.String("api-url", envDefaults.APIURL, "")
	authURL := flag.String("auth-url", envDefaults.AuthURL, "")
	socketURL := flag.String("socket-url", envDefaults.SocketURL, "")
	jwtSecret := flag.String("auth-jwt-secret", envDefaults.AuthJWTSecret, "")
	dbURL := flag.String("database-url", envDefaults.DatabaseURL, "")
	kioskID := flag.String("kiosk-id", envDefaults.KioskID, "")
	logJSON := flag.Bool("log-json", envDefaults.LogJSON, "")
	logLevel := flag.String("log-level", envDefaults.LogLevel, "")
	reconnect := flag.Duration("reconnect-delay", envDefaults.ReconnectDelay, "")
	httpTimeout := flag.Duration("http-timeout", envDefaults.HTTPTimeout, "")

	flag.Parse()

	cfg := config.Config{
		Env:            *envName,
		Port:           *port,
		APIURL:         *apiURL,
		AuthURL:        *authURL,
		SocketURL:      *socketURL,
		AuthJWTSecret:  *jwtSecret,
		DatabaseURL:    *dbURL,
		KioskID:        *kioskID,
		LogJSON:        *logJSON,
		LogLevel:       *logLevel,
		ReconnectDelay: *reconnect,
		HTTPTimeout:    *httpTimeout,
	}
	store, closeStore, err := openStore(&cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	log := logger.New(logger.Options{JSON: cfg.LogJSON, Level: cfg.LogLevel, Env: cfg.Env})
	log = log.With("kiosk_id", cfg.KioskID)

	transport := wsconn.New(cfg.Socket())
	transport.Query = func() url.Values {
		q := url.Values{}
		if sess, ok := store.Get(); ok {
			q.Set("userId", sess.UserID)
			q.Set("userName", sess.CustomerName)
			q.Set("sessionId", sess.SessionID)
		}
		return q
	}
	ch := realtime.New(transport,
		realtime.WithLogger(logger.Component(log, "realtime")),
		realtime.WithRetryDelay(cfg.ReconnectDelay),
	)
	defer ch.Close()

	catalog := &usecase.CatalogService{
		Client: catalogapi.New(cfg.APIURL, cfg.HTTPTimeout),
		Log:    logger.Component(log, "catalog"),
	}
	sessions := &usecase.SessionService{
		Store:   store,
		Auth:    authapi.New(cfg.AuthURL, cfg.HTTPTimeout, cfg.AuthJWTSecret),
		Catalog: catalog,
		Log:     logger.Component(log, "session"),
	}
	items := cart.NewStore()
	checkout := &usecase.CheckoutService{
		Cart:     items,
		Channel:  ch,
		Sessions: store,
		Log:      logger.Component(log, "checkout"),
	}
	srv := server.New(cfg, server.Deps{
		Sessions: sessions,
		Catalog:  catalog,
		Cart:     items,
		Checkout: checkout,
		Channel:  ch,
		Log:      logger.Component(log, "http"),
	})
	defer srv.Close()

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := catalog.Load(ctx); err != nil {
		log.Warn("menu unavailable at startup", "error", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ch.Run(ctx)
	})
	g.Go(func() error {
		log.Info("kiosk api listening", "addr", httpSrv.Addr, "socket", cfg.Socket())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = ch.Close()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("kiosk stopped", "error", err)
		return err
	}
	log.Info("kiosk stopped")
	return nil
}

// openStore picks Postgres when a database is configured. The kiosk id keys
// the stored session, so it must be stable across restarts there; a memory
// store gets a throwaway one.
func openStore(cfg *config.Config) (usecase.SessionStore, func(), error) {
	if cfg.DatabaseURL == "" {
		if cfg.KioskID == "" {
			cfg.KioskID = uuid.NewString()
		}
		return repo.NewMemorySessionStore(), func() {}, nil
	}
	if cfg.KioskID == "" {
		return nil, nil, errNoKioskID
	}
	pg, err := repo.NewPostgresSessionStore(cfg.DatabaseURL, cfg.KioskID)
	if err != nil {
		return nil, nil, fmt.Errorf("session store: %w", err)
	}
	return pg, func() { _ = pg.Close() }, nil
}
