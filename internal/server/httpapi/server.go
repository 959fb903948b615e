// Package httpapi exposes the stub backend over JSON/HTTP under /api, the
// same surface the tracker client talks to.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/vitortiger/utm-tracker-saas/internal/logging"
	"github.com/vitortiger/utm-tracker-saas/internal/server/campaigns"
	"github.com/vitortiger/utm-tracker-saas/internal/server/users"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address   string
	users     *users.Service
	campaigns *campaigns.Service
	logger    logging.Logger
	router    *mux.Router
}

func NewServer(addr string, l logging.Logger, us *users.Service, cs *campaigns.Service) *Server {
	s := &Server{
		address:   addr,
		users:     us,
		campaigns: cs,
		logger:    l.With("module", "http_server"),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", s.register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)
	api.Handle("/auth/me", s.authenticated(s.me)).Methods(http.MethodGet)
	api.Handle("/auth/profile", s.authenticated(s.updateProfile)).Methods(http.MethodPut)
	api.Handle("/auth/logout", s.authenticated(s.logout)).Methods(http.MethodPost)

	api.Handle("/campaigns", s.authenticated(s.listCampaigns)).Methods(http.MethodGet)
	api.Handle("/campaigns", s.authenticated(s.createCampaign)).Methods(http.MethodPost)
	api.Handle("/campaigns/{id}", s.authenticated(s.getCampaign)).Methods(http.MethodGet)
	api.Handle("/campaigns/{id}", s.authenticated(s.updateCampaign)).Methods(http.MethodPut)
	api.Handle("/campaigns/{id}", s.authenticated(s.deleteCampaign)).Methods(http.MethodDelete)
	api.Handle("/campaigns/{id}/leads", s.authenticated(s.campaignLeads)).Methods(http.MethodGet)
	api.Handle("/campaigns/{id}/script", s.authenticated(s.campaignScript)).Methods(http.MethodGet)

	api.Handle("/telegram-bots", s.authenticated(s.listBots)).Methods(http.MethodGet)
	api.Handle("/telegram-bots", s.authenticated(s.createBot)).Methods(http.MethodPost)
	api.Handle("/telegram-bots/{id}", s.authenticated(s.getBot)).Methods(http.MethodGet)
	api.Handle("/telegram-bots/{id}", s.authenticated(s.updateBot)).Methods(http.MethodPut)
	api.Handle("/telegram-bots/{id}", s.authenticated(s.deleteBot)).Methods(http.MethodDelete)
	api.Handle("/telegram-bots/{id}/test", s.authenticated(s.testBot)).Methods(http.MethodPost)

	api.Handle("/dashboard/overview", s.authenticated(s.overview)).Methods(http.MethodGet)
	api.Handle("/dashboard/analytics", s.authenticated(s.analytics)).Methods(http.MethodGet)
	api.Handle("/dashboard/export", s.authenticated(s.export)).Methods(http.MethodPost)

	api.Handle("/webhooks/telegram-member/{id}/setup", s.authenticated(s.setupWebhook)).Methods(http.MethodPost)
	api.Handle("/webhooks/telegram-member/{id}/remove", s.authenticated(s.removeWebhook)).Methods(http.MethodPost)
	api.HandleFunc("/webhooks/capture/{id}", s.captureLead).Methods(http.MethodPost)

	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Revoke invalidates every token issued to the user so far. The next
// request carrying one of them gets a 401.
func (s *Server) Revoke(ctx context.Context, userID string) error {
	return s.users.Revoke(ctx, userID)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
