// Package auth drives the session credential lifecycle: obtaining a token on
// login or registration and discarding it, with the cached collection, on
// logout.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tartampluch/birthdays/internal/api"
	"github.com/tartampluch/birthdays/internal/config"
)

var (
	ErrPasswordMismatch = errors.New(config.ErrPasswordMatch)
	ErrNoToken          = errors.New(config.ErrNoToken)
	ErrLogin            = errors.New(config.ErrLogin)
	ErrRegister         = errors.New(config.ErrRegister)
)

// Accounts is the account endpoint surface. *api.Client implements it.
type Accounts interface {
	Login(ctx context.Context, creds api.Credentials) (string, error)
	Register(ctx context.Context, reg api.Registration) (string, error)
	Logout(ctx context.Context) error
}

// TokenKeeper holds the session credential.
type TokenKeeper interface {
	Store(token string) error
	Clear() error
}

// Resetter discards locally cached user data.
type Resetter interface {
	Reset()
}

// Service ties the account endpoints to the credential holder.
type Service struct {
	accounts Accounts
	tokens   TokenKeeper
	cache    Resetter
	log      *slog.Logger
}

// New wires a Service. cache may be nil.
func New(accounts Accounts, tokens TokenKeeper, cache Resetter) *Service {
	return &Service{
		accounts: accounts,
		tokens:   tokens,
		cache:    cache,
		log:      slog.With(config.LogKeyComponent, config.CompAuth),
	}
}

// Login authenticates and persists the issued token.
func (s *Service) Login(ctx context.Context, email, password string) error {
	token, err := s.accounts.Login(ctx, api.Credentials{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLogin, err)
	}
	return s.keep(token)
}

// Register creates the account and persists the issued token. Mismatching
// passwords are rejected before any network call.
func (s *Service) Register(ctx context.Context, reg api.Registration) error {
	if reg.Password != reg.PasswordConfirmation {
		return ErrPasswordMismatch
	}
	reg.Email = strings.TrimSpace(reg.Email)

	token, err := s.accounts.Register(ctx, reg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRegister, err)
	}
	return s.keep(token)
}

// Logout tells the server, then clears the local credential and cache
// whatever the server answered. Only a local clearing failure is returned.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.accounts.Logout(ctx); err != nil {
		s.log.Warn(config.MsgLogoutIgnored, config.LogKeyError, err)
	}
	if s.cache != nil {
		s.cache.Reset()
	}
	return s.tokens.Clear()
}

func (s *Service) keep(token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrNoToken
	}
	return s.tokens.Store(token)
}
