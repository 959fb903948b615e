// Package server wires the development stub backend: configuration,
// logging, the in-memory user and campaign services and the HTTP API.
// It shuts down gracefully on SIGINT, SIGTERM or SIGQUIT.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vitortiger/utm-tracker-saas/internal/logging"
	"github.com/vitortiger/utm-tracker-saas/internal/server/campaigns"
	"github.com/vitortiger/utm-tracker-saas/internal/server/config"
	"github.com/vitortiger/utm-tracker-saas/internal/server/httpapi"
	"github.com/vitortiger/utm-tracker-saas/internal/server/users"
	"github.com/vitortiger/utm-tracker-saas/internal/shared"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.Server
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	secret := c.SecretKey
	if secret == "" {
		s, err := shared.RandomHex(32)
		if err != nil {
			return nil, fmt.Errorf("generate secret key: %w", err)
		}
		secret = s
		logger.Warn(context.Background(), "no secret key configured, using a random one")
	}

	us := users.NewService(users.NewMemoryRepository(), []byte(secret), c.TokenTTL)
	cs := campaigns.NewService(campaigns.NewMemoryRepository(), "http://"+c.Addr)

	return &App{
		config: c,
		logger: logger,
		server: httpapi.NewServer(c.Addr, logger, us, cs),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run blocks until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting stub API...", "address", app.config.Addr)

	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "server stopped", "error", err)
		return err
	}
	return nil
}
