// Package api is the HTTP client of the remote birthday collection.
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/tartampluch/birthdays/internal/config"
	"github.com/tartampluch/birthdays/internal/session"
)

var (
	ErrUnavailable  = errors.New(config.ErrUnavailable)
	ErrUnauthorized = errors.New(config.ErrUnauthorized)
	ErrNotFound     = errors.New(config.ErrNotFound)
	ErrBadResponse  = errors.New(config.ErrBadResponse)
)

// StatusError is a non-2xx answer from the remote store. Message carries the
// server supplied "message" field when there is one.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http status %d", e.Code)
	}
	return fmt.Sprintf("http status %d: %s", e.Code, e.Message)
}

// Authorizer decorates outgoing requests with a credential.
type Authorizer interface {
	Attach(req *http.Request) (*http.Request, error)
}

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// Authorizer is consulted on every request; nil sends requests as is.
	Authorizer Authorizer
	// Transport overrides the underlying round tripper (tests).
	Transport http.RoundTripper
}

// Client talks to the birthdays REST API. It never retries: a failed call is
// reported once and the caller decides what to do.
type Client struct {
	http *resty.Client
	log  *slog.Logger
}

// New builds a Client from opts.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = config.HTTPTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = config.UserAgent
	}

	c := &Client{log: slog.With(config.LogKeyComponent, config.CompAPI)}

	r := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetRetryCount(0).
		SetHeader(config.HeaderContentType, config.MimeJSON).
		SetHeader(config.HeaderAccept, config.MimeJSON).
		SetHeader(config.HeaderUserAgent, opts.UserAgent)

	base := opts.Transport
	if base == nil {
		base = r.GetClient().Transport
	}
	if base == nil {
		base = http.DefaultTransport
	}
	r.SetTransport(&authTransport{auth: opts.Authorizer, base: base})

	r.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader(config.HeaderRequestID, uuid.NewString())
		return nil
	})
	r.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		c.log.Debug(config.MsgResponse,
			config.LogKeyMethod, resp.Request.Method,
			config.LogKeyURL, resp.Request.URL,
			config.LogKeyStatus, resp.StatusCode(),
			config.LogKeyRequestID, resp.Request.Header.Get(config.HeaderRequestID),
			config.LogKeyDuration, resp.Time().Milliseconds())
		return nil
	})
	r.OnError(func(req *resty.Request, err error) {
		c.log.Debug(config.MsgRequest,
			config.LogKeyMethod, req.Method,
			config.LogKeyURL, req.URL,
			config.LogKeyError, err)
	})

	c.http = r
	return c
}

// authTransport runs the Authorizer right before the request hits the wire.
type authTransport struct {
	auth Authorizer
	base http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.auth == nil {
		return t.base.RoundTrip(req)
	}
	out, err := t.auth.Attach(req)
	if err != nil {
		return nil, err
	}
	return t.base.RoundTrip(out)
}

// check maps a resty outcome onto the package error taxonomy.
func check(resp *resty.Response, err error) error {
	if err != nil {
		if errors.Is(err, session.ErrStorage) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if resp.IsSuccess() {
		return nil
	}

	se := &StatusError{Code: resp.StatusCode(), Message: serverMessage(resp.Body())}
	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrUnauthorized, se)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, se)
	}
	return se
}
