package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/vitortiger/utm-tracker-saas/internal/client/api"
	"github.com/vitortiger/utm-tracker-saas/internal/client/config"
	"github.com/vitortiger/utm-tracker-saas/internal/client/export"
	"github.com/vitortiger/utm-tracker-saas/internal/client/session"
	"github.com/vitortiger/utm-tracker-saas/internal/client/store"
	"github.com/vitortiger/utm-tracker-saas/internal/logging"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB

	session   *session.Manager
	campaigns *api.CampaignsAPI
	bots      *api.BotsAPI
	dashboard *api.DashboardAPI
	webhooks  *api.WebhooksAPI
	exporter  *export.Service

	reader *bufio.Reader
	out    io.Writer

	// expired is set when the server rejected the session and cleared once
	// the REPL has shown it.
	expired atomic.Bool
}

// NewApp opens the session store and wires the gateway, the session manager
// and the resource APIs.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := store.Open(ctx, c.StorePath)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	creds := store.NewCredentialStore(db, logger)

	gw, err := api.NewGateway(c.APIBaseURL, creds, logger, api.WithTimeout(c.RequestTimeout))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	sink, err := newSink(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	dashboard := api.NewDashboardAPI(gw)
	a := &App{
		config:    c,
		logger:    logger,
		db:        db,
		session:   session.NewManager(creds, api.NewAuthAPI(gw), logger),
		campaigns: api.NewCampaignsAPI(gw),
		bots:      api.NewBotsAPI(gw),
		dashboard: dashboard,
		webhooks:  api.NewWebhooksAPI(gw),
		exporter:  export.NewService(dashboard, sink, logger),
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}

	// the session is dropped before the prompt is switched back
	gw.OnInvalidated(a.session.Invalidate)
	gw.OnInvalidated(a.onSessionExpired)
	return a, nil
}

func newSink(ctx context.Context, c *config.Config) (export.Sink, error) {
	if c.S3Bucket == "" {
		return export.FileSink{Dir: c.ExportDir}, nil
	}
	return export.NewS3Sink(ctx, export.S3Config{
		Bucket:    c.S3Bucket,
		Region:    c.S3Region,
		Endpoint:  c.S3Endpoint,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
	})
}

// Run starts the REPL and closes the store on return.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

// onSessionExpired is the login redirect: it runs once per forced logout.
// The session listener runs first and may have kept a newer login.
func (a *App) onSessionExpired(context.Context, string) {
	if !a.session.IsAuthenticated() {
		a.expired.Store(true)
	}
}

func (a *App) takeExpired() bool {
	return a.expired.Swap(false)
}
