package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/anantaclub/ananta/internal/client/client"
	"github.com/anantaclub/ananta/internal/client/config"
	"github.com/anantaclub/ananta/internal/client/metrics"
	"github.com/anantaclub/ananta/internal/client/profile"
	"github.com/anantaclub/ananta/internal/client/repositories/keyvalue"
	"github.com/anantaclub/ananta/internal/client/services"
	"github.com/anantaclub/ananta/internal/client/session"
	"github.com/anantaclub/ananta/internal/filex"
	"github.com/anantaclub/ananta/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

// Status labels shown in the prompt.
const (
	StatusAuthenticated = "authenticated"
	StatusGuest         = "guest"
)

type App struct {
	config      *config.Config
	db          *sql.DB
	api         client.Client
	session     *session.Store
	resolver    *profile.Resolver
	authService services.AuthService
	registry    *prometheus.Registry
	log         logging.Logger

	status atomic.Value
	reader *bufio.Reader
	out    io.Writer

	// bg tracks background work that must finish before Close.
	bg sync.WaitGroup
}

// NewApp opens the local database and wires the client stack from c.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := filex.EnsureParentDir(c.DBPath); err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	var kv keyvalue.Repository = keyvalue.NewSQLiteRepository(db)
	if c.StorageSecret != "" {
		sealed, err := keyvalue.NewSealedRepository(ctx, kv, []byte(c.StorageSecret))
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("open sealed storage: %w", err)
		}
		kv = sealed
	}

	registry := prometheus.NewRegistry()
	collector, err := metrics.New(registry)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	api, err := client.NewHTTPClient(client.Config{
		BaseURL:  c.APIBaseURL,
		Timeout:  c.RequestTimeout,
		Logger:   logger,
		Observer: collector,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	resolver := profile.NewResolver(api, kv, profile.Options{
		TTL:         c.ProfileTTL,
		WaitTimeout: c.WaitTimeout,
		Logger:      logger,
		Recorder:    collector,
	})
	store := session.NewStore(kv, resolver, logger)
	auth := services.NewAuthService(api, store, services.AuthOptions{
		ResendInterval: c.OTPResendInterval,
		Logger:         logger,
	})

	a := &App{
		config:      c,
		db:          db,
		api:         api,
		session:     store,
		resolver:    resolver,
		authService: auth,
		registry:    registry,
		log:         logger.With("component", "cli"),
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}
	a.status.Store(StatusGuest)
	store.Subscribe(a.onAuthChange)
	return a, nil
}

func (a *App) onAuthChange(authenticated bool) {
	if authenticated {
		a.status.Store(StatusAuthenticated)
	} else {
		a.status.Store(StatusGuest)
	}
}

func (a *App) isAuthenticated() bool {
	return a.session.IsAuthenticated()
}

// Run restores the session, starts the metrics listener when configured and
// blocks in the REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.start(ctx)

	if a.config.MetricsAddr != "" {
		go a.serveMetrics(ctx, a.config.MetricsAddr)
	}

	a.Root(ctx)
}

// start restores the session and, for a signed-in user, warms the profile
// cache in the background.
func (a *App) start(ctx context.Context) {
	a.session.Bootstrap(ctx)
	if !a.isAuthenticated() {
		return
	}

	a.bg.Add(1)
	go func() {
		defer a.bg.Done()
		if _, err := a.resolver.Fetch(ctx, false); err != nil {
			a.log.Warn(ctx, "profile prefetch failed", "error", err)
			return
		}
		a.log.Debug(ctx, "profile prefetched")
	}()
}

func (a *App) Close() {
	a.bg.Wait()
	if a.db != nil {
		_ = a.db.Close()
		a.db = nil
	}
}

func (a *App) serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(a.registry))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	a.log.Info(ctx, "metrics listener started", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.log.Error(ctx, "metrics listener stopped", "error", err)
	}
}
