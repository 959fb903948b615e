package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vitortiger/utm-tracker-saas/internal/client/models"
)

// AuthResponse is returned by login and register.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user"`
	Message     string       `json:"message,omitempty"`
}

type userEnvelope struct {
	User *models.User `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthAPI struct {
	gw *Gateway
}

func NewAuthAPI(gw *Gateway) *AuthAPI {
	return &AuthAPI{gw: gw}
}

func (a *AuthAPI) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := a.gw.Do(ctx, http.MethodPost, "/auth/login", nil, loginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	if err := resp.validate("/auth/login"); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *AuthAPI) Register(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	body := registerRequest{Name: name, Email: email, Password: password}
	if err := a.gw.Do(ctx, http.MethodPost, "/auth/register", nil, body, &resp); err != nil {
		return nil, err
	}
	if err := resp.validate("/auth/register"); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me returns the user the stored credential belongs to.
func (a *AuthAPI) Me(ctx context.Context) (*models.User, error) {
	var env userEnvelope
	if err := a.gw.Do(ctx, http.MethodGet, "/auth/me", nil, nil, &env); err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, &Error{Method: http.MethodGet, Path: "/auth/me", Status: http.StatusOK, Err: fmt.Errorf("%w: no user", ErrMalformedResponse)}
	}
	return env.User, nil
}

// UpdateProfile sends the changed profile fields as-is.
func (a *AuthAPI) UpdateProfile(ctx context.Context, fields map[string]any) (*models.User, error) {
	var env userEnvelope
	if err := a.gw.Do(ctx, http.MethodPut, "/auth/profile", nil, fields, &env); err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, &Error{Method: http.MethodPut, Path: "/auth/profile", Status: http.StatusOK, Err: fmt.Errorf("%w: no user", ErrMalformedResponse)}
	}
	return env.User, nil
}

// Logout tells the server the session is over. The server keeps no token
// state, so failures here do not matter to the client.
func (a *AuthAPI) Logout(ctx context.Context) error {
	return a.gw.Do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

func (r *AuthResponse) validate(path string) error {
	switch {
	case r.AccessToken == "":
		return &Error{Method: http.MethodPost, Path: path, Status: http.StatusOK, Err: fmt.Errorf("%w: no access_token", ErrMalformedResponse)}
	case r.User == nil:
		return &Error{Method: http.MethodPost, Path: path, Status: http.StatusOK, Err: fmt.Errorf("%w: no user", ErrMalformedResponse)}
	}
	return nil
}
