// Package auth authenticates admin users and issues session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sunweather/internal/storage/sqlite"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both unknown users and wrong passwords
var ErrInvalidCredentials = errors.New("invalid username or password")

// UserStore is the part of the user store auth needs
type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (*sqlite.User, error)
	UpsertUser(ctx context.Context, username, passwordHash string) error
	RecordLogin(ctx context.Context, username string, at time.Time) error
}

// Provider checks credentials against the user store
type Provider struct {
	store  UserStore
	logger *slog.Logger
	now    func() time.Time

	// compared against when the user is unknown so both paths cost a bcrypt check
	dummyHash []byte
}

func NewProvider(store UserStore, logger *slog.Logger) (*Provider, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("sunweather-dummy-password"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password check: %w", err)
	}
	return &Provider{
		store:     store,
		logger:    logger.With("component", "auth-provider"),
		now:       time.Now,
		dummyHash: dummy,
	}, nil
}

// HashPassword returns a bcrypt hash of password
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Authenticate returns the user when password matches its stored hash
func (p *Provider) Authenticate(ctx context.Context, username, password string) (*sqlite.User, error) {
	user, err := p.store.GetUserByUsername(ctx, username)
	if errors.Is(err, sqlite.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(p.dummyHash, []byte(password))
		p.logger.Info("login rejected", "username", username, "reason", "unknown user")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		p.logger.Info("login rejected", "username", username, "reason", "wrong password")
		return nil, ErrInvalidCredentials
	}

	if err := p.store.RecordLogin(ctx, user.Username, p.now()); err != nil {
		// the login itself succeeded
		p.logger.Warn("failed to record login", "username", user.Username, "error", err)
	}

	p.logger.Info("login accepted", "username", user.Username)
	return user, nil
}

// SeedAdmin makes sure username can log in with password
func (p *Provider) SeedAdmin(ctx context.Context, username, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if err := p.store.UpsertUser(ctx, username, hash); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	p.logger.Info("seeded admin user", "username", username)
	return nil
}
