package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"tracker/internal/core"
	applog "tracker/internal/log"
	"tracker/internal/storage"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoSession          = errors.New("no active session")
)

// AuthService manages the account list and the current session. Credentials
// are matched verbatim; there is no hashing or token issuance here.
type AuthService struct {
	store storage.Store
}

func NewAuthService(store storage.Store) *AuthService {
	return &AuthService{store: store}
}

// Register creates a new account and opens a session for it. Emails are
// compared case-insensitively for uniqueness.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (core.Session, error) {
	user := core.User{
		Email:    strings.TrimSpace(email),
		Name:     strings.TrimSpace(name),
		Password: password,
	}
	if err := user.Validate(); err != nil {
		return core.Session{}, err
	}

	users := s.loadUsers(ctx)
	for _, u := range users {
		if strings.EqualFold(u.Email, user.Email) {
			return core.Session{}, ErrEmailTaken
		}
	}

	user.ID = NewID()
	users = append(users, user)
	if err := storage.Save(ctx, s.store, storage.UsersKey(), users); err != nil {
		return core.Session{}, fmt.Errorf("save users: %w", err)
	}

	session := user.Session()
	if err := storage.Save(ctx, s.store, storage.SessionKey(), session); err != nil {
		return core.Session{}, fmt.Errorf("save session: %w", err)
	}

	slog.InfoContext(ctx, "User registered", applog.FieldUserID, user.ID, "email", user.Email)
	return session, nil
}

// Login opens a session for an existing account. The email and password
// must match a stored record exactly.
func (s *AuthService) Login(ctx context.Context, email, password string) (core.Session, error) {
	email = strings.TrimSpace(email)
	for _, u := range s.loadUsers(ctx) {
		if strings.EqualFold(u.Email, email) && u.Password == password {
			session := u.Session()
			if err := storage.Save(ctx, s.store, storage.SessionKey(), session); err != nil {
				return core.Session{}, fmt.Errorf("save session: %w", err)
			}
			slog.InfoContext(ctx, "User logged in", applog.FieldUserID, u.ID)
			return session, nil
		}
	}
	return core.Session{}, ErrInvalidCredentials
}

// Logout clears the session. Account records and expense data stay intact.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, storage.SessionKey()); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	slog.InfoContext(ctx, "Session cleared")
	return nil
}

// Current returns the active session, or ErrNoSession.
func (s *AuthService) Current(ctx context.Context) (core.Session, error) {
	session := storage.Load(ctx, s.store, storage.SessionKey(), core.Session{})
	if session.ID == "" {
		return core.Session{}, ErrNoSession
	}
	return session, nil
}

func (s *AuthService) loadUsers(ctx context.Context) []core.User {
	return storage.Load(ctx, s.store, storage.UsersKey(), []core.User{})
}
