package app

import (
	"context"
	"net/http"
	"time"

	"gamevault/internal/config"
)

// App owns the HTTP server and the teardown for the stores behind it.
type App struct {
	srv     *http.Server
	cleanup func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	router, cleanup, err := setupHTTP(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &App{
		srv: &http.Server{
			Addr:              ":" + cfg.AppPort,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
		cleanup: cleanup,
	}, nil
}

// Run blocks serving requests until Shutdown is called.
func (a *App) Run() error {
	return a.srv.ListenAndServe()
}

// Shutdown drains in-flight requests within ctx's deadline, then closes
// the Redis and Postgres connections.
func (a *App) Shutdown(ctx context.Context) error {
	if err := a.srv.Shutdown(ctx); err != nil {
		return err
	}
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}
