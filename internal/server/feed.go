package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/tartampluch/birthdays/internal/config"
	"github.com/tartampluch/birthdays/internal/model"
)

// Source yields the current collection. *store.Store implements it.
type Source interface {
	List(ctx context.Context) ([]model.Record, error)
}

// Renderer encodes a collection. *calendar.Exporter implements it.
type Renderer interface {
	Export(ctx context.Context, records []model.Record) ([]byte, error)
}

// Publisher receives a rendered document. *FeedServer implements it.
type Publisher interface {
	Publish(data []byte)
}

// Feed keeps a Publisher in sync with the remote collection.
type Feed struct {
	Source   Source
	Renderer Renderer
	Target   Publisher
}

// Refresh lists, renders and publishes once. On failure the previously
// published document stays in place.
func (f *Feed) Refresh(ctx context.Context) error {
	start := time.Now()

	records, err := f.Source.List(ctx)
	if err != nil {
		return err
	}
	data, err := f.Renderer.Export(ctx, records)
	if err != nil {
		return err
	}
	f.Target.Publish(data)

	slog.Info(config.MsgFeedRefreshed,
		config.LogKeyComponent, config.CompWorker,
		config.LogKeyCount, len(records),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return nil
}

// Run refreshes immediately and then every interval until ctx is cancelled.
// Refresh failures are logged and retried on the next tick.
func (f *Feed) Run(ctx context.Context, interval time.Duration) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)
	if interval <= 0 {
		interval = config.DefaultFeedRefresh
	}

	refresh := func() {
		if err := f.Refresh(ctx); err != nil && ctx.Err() == nil {
			log.Error(config.MsgFeedFailed, config.LogKeyError, err)
		}
	}

	refresh()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, interval)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return
		case <-ticker.C:
			refresh()
		}
	}
}
