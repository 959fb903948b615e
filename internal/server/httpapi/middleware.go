package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vitortiger/utm-tracker-saas/internal/common"
	"github.com/vitortiger/utm-tracker-saas/internal/server/auth"
	"github.com/vitortiger/utm-tracker-saas/internal/server/users"
)

const requestIDHeader = "X-Request-ID"

type ctxKey string

const userKey ctxKey = "user"

// tokenErrorBody is the shape used for rejected bearer tokens.
type tokenErrorBody struct {
	Msg string `json:"msg"`
}

func userFrom(ctx context.Context) *users.User {
	u, _ := ctx.Value(userKey).(*users.User)
	return u
}

// authenticated resolves the bearer token and stores the user in the
// request context. Any failure is a 401.
func (s *Server) authenticated(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if header == "" {
			writeJSON(w, http.StatusUnauthorized, tokenErrorBody{Msg: "Missing Authorization Header"})
			return
		}
		if !ok || strings.TrimSpace(token) == "" {
			writeJSON(w, http.StatusUnauthorized, tokenErrorBody{Msg: "Bad Authorization header. Expected 'Authorization: Bearer <JWT>'"})
			return
		}

		u, err := s.users.Authenticate(r.Context(), strings.TrimSpace(token))
		switch {
		case err == nil:
		case errors.Is(err, auth.ErrTokenExpired):
			writeJSON(w, http.StatusUnauthorized, tokenErrorBody{Msg: "Token has expired"})
			return
		case errors.Is(err, common.ErrRevoked):
			writeJSON(w, http.StatusUnauthorized, tokenErrorBody{Msg: "Token has been revoked"})
			return
		case errors.Is(err, auth.ErrInvalidToken):
			writeJSON(w, http.StatusUnauthorized, tokenErrorBody{Msg: "Invalid token"})
			return
		default:
			s.fail(w, r, err, "User")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// logRequests echoes or assigns a request id and logs every request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		started := time.Now()
		next.ServeHTTP(rec, r)

		s.logger.Info(r.Context(), "request",
			"method", r.Method, "path", r.URL.Path, "status", rec.status,
			"duration", time.Since(started), "request_id", id)
	})
}
