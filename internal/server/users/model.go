package users

import "time"

type User struct {
	ID           string
	Email        string
	Name         string
	Plan         string
	IsActive     bool
	PasswordHash []byte
	// Generation is embedded in issued tokens; bumping it revokes them.
	Generation int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// View is the public JSON form of a user.
type View struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Plan      string `json:"plan"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (u *User) View() View {
	return View{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Plan:      u.Plan,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
