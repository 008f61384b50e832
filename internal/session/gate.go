package session

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tartampluch/birthdays/internal/config"
)

// Gate decides, per outgoing call, whether the bearer credential is attached.
// The store is read on every call; there is no local expiry or refresh.
type Gate struct {
	store CredentialStore
	log   *slog.Logger
}

// NewGate wraps a credential store.
func NewGate(store CredentialStore) *Gate {
	return &Gate{
		store: store,
		log:   slog.With(config.LogKeyComponent, config.CompSession),
	}
}

// Attach returns a copy of req carrying "Authorization: Bearer <token>" when a
// credential is held, or req itself when none is.
func (g *Gate) Attach(req *http.Request) (*http.Request, error) {
	token, err := g.store.Load()
	if errors.Is(err, ErrNoCredential) {
		return req, nil
	}
	if err != nil {
		if !errors.Is(err, ErrStorage) {
			err = fmt.Errorf("%w: %w", ErrStorage, err)
		}
		return nil, err
	}

	out := req.Clone(req.Context())
	out.Header.Set(config.HeaderAuthorization, config.BearerPrefix+token)
	return out, nil
}

// Store persists a freshly issued credential. Surrounding whitespace is dropped;
// an empty token is rejected.
func (g *Gate) Store(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrNoCredential
	}
	if err := g.store.Save(token); err != nil {
		return err
	}
	g.log.Info(config.MsgLoggedIn)
	return nil
}

// Clear discards the held credential. Clearing when nothing is held succeeds.
func (g *Gate) Clear() error {
	if err := g.store.Delete(); err != nil {
		return err
	}
	g.log.Info(config.MsgLoggedOut)
	return nil
}

// Authenticated reports whether a credential is currently held.
func (g *Gate) Authenticated() bool {
	_, err := g.store.Load()
	return err == nil
}
