package httpapi

import (
	"net/http"

	"github.com/vitortiger/utm-tracker-saas/internal/server/users"
)

type authResponse struct {
	Message     string     `json:"message"`
	AccessToken string     `json:"access_token"`
	User        users.View `json:"user"`
}

type userResponse struct {
	Message string     `json:"message,omitempty"`
	User    users.View `json:"user"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err, "User")
		return
	}

	u, token, err := s.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err, "User")
		return
	}

	s.logger.Info(r.Context(), "Registered", "user_id", u.ID)
	writeJSON(w, http.StatusCreated, authResponse{Message: "User registered successfully", AccessToken: token, User: u.View()})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err, "User")
		return
	}

	u, token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err, "User")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Message: "Login successful", AccessToken: token, User: u.View()})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userResponse{User: userFrom(r.Context()).View()})
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	fields := map[string]any{}
	if err := decode(r, &fields); err != nil {
		s.fail(w, r, err, "User")
		return
	}

	u, err := s.users.UpdateProfile(r.Context(), userFrom(r.Context()).ID, fields)
	if err != nil {
		s.fail(w, r, err, "User")
		return
	}
	writeJSON(w, http.StatusOK, userResponse{Message: "Profile updated successfully", User: u.View()})
}

// logout is stateless: the token stays valid until it expires or the user
// is revoked.
func (s *Server) logout(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}
