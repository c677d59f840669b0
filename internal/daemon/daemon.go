package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sparfuchs-app/sparfuchs/internal/api"
	"github.com/sparfuchs-app/sparfuchs/internal/app/finance"
	"github.com/sparfuchs-app/sparfuchs/internal/app/xp"
	"github.com/sparfuchs-app/sparfuchs/internal/domain"
	"github.com/sparfuchs-app/sparfuchs/internal/health"
	"github.com/sparfuchs-app/sparfuchs/internal/infra/memstore"
	"github.com/sparfuchs-app/sparfuchs/internal/infra/metrics"
	"github.com/sparfuchs-app/sparfuchs/internal/infra/sqlite"
)

// Daemon is the core Sparfuchs runtime. It wires together all services.
type Daemon struct {
	Config Config
	Store  domain.Store
	Engine *xp.Engine
	Ledger *finance.Ledger
	Reset  *finance.ResetService
	Server *api.Server
	Health *health.Checker
	cancel context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
// When the SQLite store cannot be opened the daemon escalates to the
// in-memory fallback for the rest of the session — logged, never
// surfaced as a user-facing error.
func NewWithConfig(cfg Config) (*Daemon, error) {
	var store domain.Store
	db, err := sqlite.Open(cfg.Store.Dir)
	if err != nil {
		log.Printf("[daemon] open store: %v (falling back to in-memory store)", err)
		metrics.StoreFallbacks.Inc()
		store = memstore.New()
	} else {
		store = db
	}

	engine := xp.NewEngine(store)
	if _, err := engine.StartSession(cfg.Profile.UserID); err != nil {
		store.Close()
		return nil, fmt.Errorf("start xp session: %w", err)
	}

	ledger, err := finance.NewLedger(store)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	reset := finance.NewResetService(store)

	checker := health.NewChecker(store, cfg.Store.Dir)

	srv := api.NewServer(store, engine, ledger, reset)
	srv.SetHealthChecker(checker)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config: cfg,
		Store:  store,
		Engine: engine,
		Ledger: ledger,
		Reset:  reset,
		Server: srv,
		Health: checker,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	go d.Health.Run(ctx)

	// The daemon start counts as a foreground transition.
	d.Engine.OnForeground()
	if _, err := d.Reset.ApplyMonthlyReset(time.Now()); err != nil {
		log.Printf("[daemon] monthly reset: %v", err)
	}

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)
	httpSrv := &http.Server{
		Addr:    addr,
		Handler: d.Server.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[daemon] listening on http://%s", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
	case sig := <-sigCh:
		log.Printf("[daemon] received %s, shutting down", sig)
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[daemon] shutdown: %v", err)
	}
	return d.Close()
}

// Close drains the ledger write queue and closes the store.
func (d *Daemon) Close() error {
	if d.cancel != nil {
		d.cancel()
	}
	if d.Ledger != nil {
		d.Ledger.Close()
	}
	return d.Store.Close()
}
