// Package app wires the environment server together and runs it.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-gym/internal/config"
	"github.com/vancomm/minesweeper-gym/internal/database"
	"github.com/vancomm/minesweeper-gym/internal/hub"
	"github.com/vancomm/minesweeper-gym/internal/middleware"
	"github.com/vancomm/minesweeper-gym/internal/repository"
	"github.com/vancomm/minesweeper-gym/internal/telemetry"
)

type App struct {
	cfg        *config.Config
	log        *logrus.Logger
	router     *http.ServeMux
	migrations fs.FS

	db       *pgxpool.Pool
	store    repository.Store
	hub      *hub.Hub
	recorder *telemetry.Recorder
	jwt      *config.JWT
	ws       *config.WebSocket
}

func New(cfg *config.Config, log *logrus.Logger, migrations fs.FS) *App {
	return &App{
		cfg:        cfg,
		log:        log,
		router:     http.NewServeMux(),
		migrations: migrations,
	}
}

func (a *App) setupStore(ctx context.Context) error {
	if a.cfg.Store != config.StorePostgres {
		a.log.Warn("using in-memory store, episodes are lost on restart")
		a.store = repository.NewMemory()
		return nil
	}

	db, migrator, err := database.ConnectAndMigrate(ctx, a.migrations)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	version, dirty, err := migrator.Version()
	if err != nil {
		a.log.WithError(err).Warn("unable to check migration version")
	} else {
		a.log.WithFields(logrus.Fields{
			"version": version,
			"dirty":   dirty,
		}).Info("database migrated")
	}
	a.db = db
	a.store = repository.New(db)
	return nil
}

func (a *App) setupJWT() error {
	j, err := config.NewJWT(a.cfg.JWT.TokenLifetime)
	if err == nil {
		a.jwt = j
		return nil
	}
	if !a.cfg.Development() {
		return fmt.Errorf("unable to load JWT keys: %w", err)
	}
	a.log.WithError(err).Warn("signing tokens with an ephemeral key")
	a.jwt, err = config.NewEphemeralJWT(a.cfg.JWT.TokenLifetime)
	return err
}

// Setup connects every dependency and registers the routes. Start calls it.
func (a *App) Setup(ctx context.Context) error {
	if err := a.setupStore(ctx); err != nil {
		return err
	}
	if err := a.setupJWT(); err != nil {
		return err
	}

	recorder, err := telemetry.OpenRecorder(a.cfg.Telemetry.Dir)
	if err != nil {
		return err
	}
	a.recorder = recorder

	a.ws = config.NewWebSocket(a.cfg.WebSocket, a.cfg.Development())
	a.hub = hub.New(a.log)

	a.loadRoutes()
	return nil
}

func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Auth(a.log, a.jwt),
		middleware.Logging(a.log),
		middleware.Cors(),
	)
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if err := a.recorder.Close(); err != nil {
		a.log.WithError(err).Warn("unable to close episode recorder")
	}
}

// Start serves until ctx is done or the listener fails. Idle sessions are
// evicted in the background.
func (a *App) Start(ctx context.Context) error {
	if err := a.Setup(ctx); err != nil {
		return err
	}
	defer a.Close()

	server := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: a.cfg.Server.ReadHeaderTimeout,
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	a.log.Infof("ready to serve @ %s", a.cfg.Server.Addr)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return a.hub.Run(gCtx, a.cfg.Hub.Interval, a.cfg.Hub.TTL)
	})

	return g.Wait()
}
