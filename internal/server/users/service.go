package users

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vitortiger/utm-tracker-saas/internal/common"
	"github.com/vitortiger/utm-tracker-saas/internal/server/auth"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const minPasswordLen = 6

type Service struct {
	repo      Repository
	jwtSecret []byte
	tokenTTL  time.Duration
	hashCost  int
}

type Option func(*Service)

// WithHashCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.hashCost = cost }
}

func NewService(repo Repository, secretKey []byte, tokenTTL time.Duration, opts ...Option) *Service {
	s := &Service{repo: repo, jwtSecret: secretKey, tokenTTL: tokenTTL, hashCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account and returns it with a fresh access token.
func (s *Service) Register(ctx context.Context, name, email, password string) (*User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	switch {
	case name == "" || email == "" || password == "":
		return nil, "", common.Invalid("Email, password, and name are required")
	case !emailPattern.MatchString(email):
		return nil, "", common.Invalid("Invalid email format")
	case len(password) < minPasswordLen:
		return nil, "", common.Invalid("Password must be at least 6 characters long")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	u, err := s.repo.Create(ctx, &User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		Plan:         "free",
		IsActive:     true,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.issue(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login checks the password and returns the user with a fresh access token.
// Unknown e-mail and wrong password are indistinguishable.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", common.Invalid("Email and password are required")
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, common.ErrNotFound) {
		return nil, "", common.ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, "", common.ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, "", common.ErrInactive
	}

	token, err := s.issue(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *Service) issue(u *User) (string, error) {
	token, err := auth.GenerateToken(u.ID, u.Generation, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Authenticate resolves a bearer token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.GetByID(ctx, claims.UserID)
	if errors.Is(err, common.ErrNotFound) {
		return nil, auth.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if claims.Generation != u.Generation {
		return nil, common.ErrRevoked
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile applies the editable fields (name, email); other keys are
// ignored.
func (s *Service) UpdateProfile(ctx context.Context, id string, fields map[string]any) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if v, ok := fields["name"]; ok {
		name, _ := v.(string)
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, common.Invalid("Name cannot be empty")
		}
		u.Name = name
	}
	if v, ok := fields["email"]; ok {
		email, _ := v.(string)
		email = strings.ToLower(strings.TrimSpace(email))
		if !emailPattern.MatchString(email) {
			return nil, common.Invalid("Invalid email format")
		}
		u.Email = email
	}
	u.UpdatedAt = time.Now()

	return s.repo.Update(ctx, u)
}

// Revoke invalidates every token issued to the user so far.
func (s *Service) Revoke(ctx context.Context, id string) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	u.Generation++
	_, err = s.repo.Update(ctx, u)
	return err
}
