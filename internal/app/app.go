package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/lifesweeper/internal/config"
	"github.com/vancomm/lifesweeper/internal/database"
	"github.com/vancomm/lifesweeper/internal/handlers"
	"github.com/vancomm/lifesweeper/internal/logging"
	"github.com/vancomm/lifesweeper/internal/middleware"
	"github.com/vancomm/lifesweeper/internal/mines"
	"github.com/vancomm/lifesweeper/internal/repository"
	"github.com/vancomm/lifesweeper/internal/store"
)

const shutdownTimeout = time.Second * 15

type App struct {
	cfg      *config.Config
	log      *logrus.Logger
	sessions *store.Store
	cookies  *config.Cookies
	ws       *config.WebSocket
}

func New(cfg *config.Config, log *logrus.Logger) *App {
	logging.Mirror(mines.Log, log)
	return &App{
		cfg:      cfg,
		log:      log,
		sessions: store.New(log, cfg.Session.TTL),
		ws:       config.NewWebSocket(cfg.Cors.AllowedOrigins),
	}
}

func (a *App) handler(queries *repository.Queries) http.Handler {
	game := handlers.NewGameHandler(a.log, a.sessions, queries, a.ws, a.cfg.Board)
	auth := handlers.NewAuth(a.log, queries, a.cookies)

	return middleware.Wrap(
		routes(a.cfg.BasePath, game, auth),
		middleware.Auth(a.log, a.cookies),
		middleware.Cors(a.cfg.Cors.AllowedOrigins),
		middleware.Logging(a.log),
	)
}

// Start connects to the database, serves until ctx is cancelled, and then
// shuts the server down.
func (a *App) Start(ctx context.Context) error {
	jwt, err := config.NewJWT(a.cfg.JWT)
	if err != nil {
		return fmt.Errorf("unable to read jwt config: %w", err)
	}
	a.cookies = config.NewCookies(a.cfg.Cookies, jwt)

	db, migrator, err := database.ConnectAndMigrate(ctx, a.cfg.Postgres)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	defer db.Close()
	if version, dirty, err := migrator.Version(); err == nil {
		a.log.WithFields(logrus.Fields{
			"version": version,
			"dirty":   dirty,
		}).Info("database migrated")
	}

	server := &http.Server{
		Addr:         a.cfg.Addr,
		Handler:      a.handler(repository.New(db)),
		ReadTimeout:  time.Second * 15,
		WriteTimeout: time.Second * 15,
		IdleTimeout:  time.Second * 60,
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	a.log.Infof("ready to serve @ %s", a.cfg.Addr)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(sCtx)
	})
	g.Go(func() error {
		return a.sessions.Run(gCtx, a.cfg.Session.SweepInterval)
	})

	return g.Wait()
}
