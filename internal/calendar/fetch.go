package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tartampluch/birthdays/internal/config"
)

// ErrVCardFetch wraps every failed vCard download.
var ErrVCardFetch = errors.New(config.ErrVCardFetch)

// Fetcher downloads vCard streams (CardDAV exports, shared .vcf links) for
// ImportVCards.
type Fetcher struct {
	client *resty.Client
}

// NewFetcher returns a Fetcher bounded by timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = config.HTTPTimeout
	}
	return &Fetcher{
		client: resty.New().
			SetTimeout(timeout).
			SetRetryCount(0).
			SetHeader(config.HeaderUserAgent, config.UserAgent),
	}
}

// Fetch opens targetURL, with basic auth when user or pass is set. Only
// http and https are accepted and the body is capped at
// config.MaxHTTPResponseSize. The caller closes the stream.
func (f *Fetcher) Fetch(ctx context.Context, targetURL, user, pass string) (io.ReadCloser, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrVCardFetch, config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%w: %s: %s", ErrVCardFetch, config.ErrProtocol, u.Scheme)
	}

	// Query strings may carry share tokens.
	safeURL := u.Scheme + "://" + u.Host + u.Path
	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, safeURL),
	)
	log.Debug(config.MsgFetchStart)

	req := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true)
	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}

	resp, err := req.Get(targetURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVCardFetch, err)
	}

	body := resp.RawBody()
	if resp.StatusCode() != http.StatusOK {
		_ = body.Close()
		log.Warn(config.MsgFetchStatus, slog.Int(config.LogKeyStatus, resp.StatusCode()))
		return nil, fmt.Errorf("%w: %s", ErrVCardFetch, resp.Status())
	}

	log.Info(config.MsgFetchOK, slog.Int64(config.LogKeyLength, resp.RawResponse.ContentLength))

	return &limitedReadCloser{
		Reader: io.LimitReader(body, config.MaxHTTPResponseSize),
		Closer: body,
	}, nil
}

// limitedReadCloser caps reads while still closing the connection.
type limitedReadCloser struct {
	io.Reader
	io.Closer
}
