// Package store keeps a local cache of the remote birthday collection and its
// recurring calendar index consistent with confirmed server state.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tartampluch/birthdays/internal/api"
	"github.com/tartampluch/birthdays/internal/calendar"
	"github.com/tartampluch/birthdays/internal/config"
	"github.com/tartampluch/birthdays/internal/model"
)

var (
	ErrFetch    = errors.New(config.ErrFetch)
	ErrCreate   = errors.New(config.ErrCreate)
	ErrUpdate   = errors.New(config.ErrUpdate)
	ErrDelete   = errors.New(config.ErrDelete)
	ErrNotFound = errors.New(config.ErrNotFound)
)

// Remote is the collection endpoint surface the store synchronizes with.
// *api.Client implements it.
type Remote interface {
	ListBirthdays(ctx context.Context) ([]model.Record, error)
	GetBirthday(ctx context.Context, id string) (model.Record, error)
	CreateBirthday(ctx context.Context, d model.Draft) (model.Record, error)
	UpdateBirthday(ctx context.Context, id string, d model.Draft) (model.Record, error)
	DeleteBirthday(ctx context.Context, id string) error
}

// snapshot is an immutable view of the cache; it is replaced, never edited.
type snapshot struct {
	records []model.Record
	index   *calendar.Index
}

// Store is the CRUD surface used by the rest of the application. Every
// mutation either lands on the server and then updates the cache, or leaves
// the cache untouched.
//
// Operations are not serialized against each other: two concurrent
// mutations apply their cache splice in the order their results arrive.
type Store struct {
	remote Remote
	log    *slog.Logger

	mu   sync.RWMutex
	snap snapshot
}

// New returns an empty store backed by remote.
func New(remote Remote) *Store {
	return &Store{
		remote: remote,
		log:    slog.With(config.LogKeyComponent, config.CompStore),
		snap:   snapshot{records: []model.Record{}, index: calendar.Rebuild(nil)},
	}
}

// List fetches the whole collection and replaces the cache with it. On
// failure the previous cache is kept.
func (s *Store) List(ctx context.Context) ([]model.Record, error) {
	records, err := s.remote.ListBirthdays(ctx)
	if err != nil {
		return nil, s.fail(config.OpList, "", ErrFetch, err)
	}

	fresh := make([]model.Record, len(records))
	for i, r := range records {
		fresh[i] = r.Normalize().Clone()
	}

	s.mu.Lock()
	s.replace(fresh)
	s.mu.Unlock()

	s.log.Debug(config.MsgCacheReplaced, config.LogKeyCount, len(fresh))
	return copyRecords(fresh), nil
}

// Get fetches a single record from the server. The cache is not consulted.
func (s *Store) Get(ctx context.Context, id string) (model.Record, error) {
	if id == "" {
		return model.Record{}, s.invalid(&model.ValidationError{Field: model.FieldID})
	}

	r, err := s.remote.GetBirthday(ctx, id)
	if err != nil {
		kind := ErrFetch
		if errors.Is(err, api.ErrNotFound) {
			kind = ErrNotFound
		}
		return model.Record{}, s.fail(config.OpGet, id, kind, err)
	}
	return r.Normalize(), nil
}

// Create validates d locally, posts it, and appends the server record
// (carrying its assigned id) to the cache.
func (s *Store) Create(ctx context.Context, d model.Draft) (model.Record, error) {
	if err := d.Validate(); err != nil {
		return model.Record{}, s.invalid(err)
	}

	r, err := s.remote.CreateBirthday(ctx, d.Normalize())
	if err != nil {
		return model.Record{}, s.fail(config.OpCreate, "", ErrCreate, err)
	}
	r = r.Normalize()

	s.mu.Lock()
	next := make([]model.Record, 0, len(s.snap.records)+1)
	next = append(next, s.snap.records...)
	next = append(next, r.Clone())
	s.replace(next)
	s.mu.Unlock()

	s.log.Info(config.MsgRecordCreated, config.LogKeyID, r.ID)
	return r, nil
}

// Update validates d locally, replaces the remote record id and splices the
// server answer into the cache. An id absent from the cache is not added.
func (s *Store) Update(ctx context.Context, id string, d model.Draft) (model.Record, error) {
	if id == "" {
		return model.Record{}, s.invalid(&model.ValidationError{Field: model.FieldID})
	}
	if err := d.Validate(); err != nil {
		return model.Record{}, s.invalid(err)
	}

	r, err := s.remote.UpdateBirthday(ctx, id, d.Normalize())
	if err != nil {
		return model.Record{}, s.fail(config.OpUpdate, id, ErrUpdate, err)
	}
	r = r.Normalize()

	s.mu.Lock()
	if i := s.position(id); i >= 0 {
		next := copyRecords(s.snap.records)
		next[i] = r.Clone()
		s.replace(next)
	}
	s.mu.Unlock()

	s.log.Info(config.MsgRecordUpdated, config.LogKeyID, id)
	return r, nil
}

// Remove deletes record id on the server and, once acknowledged, drops it
// from the cache. On failure the record stays visible.
func (s *Store) Remove(ctx context.Context, id string) error {
	if id == "" {
		return s.invalid(&model.ValidationError{Field: model.FieldID})
	}

	if err := s.remote.DeleteBirthday(ctx, id); err != nil {
		return s.fail(config.OpDelete, id, ErrDelete, err)
	}

	s.mu.Lock()
	if i := s.position(id); i >= 0 {
		next := make([]model.Record, 0, len(s.snap.records)-1)
		next = append(next, s.snap.records[:i]...)
		next = append(next, s.snap.records[i+1:]...)
		s.replace(next)
	}
	s.mu.Unlock()

	s.log.Info(config.MsgRecordRemoved, config.LogKeyID, id)
	return nil
}

// Reset discards the cached collection, e.g. on logout.
func (s *Store) Reset() {
	s.mu.Lock()
	s.replace([]model.Record{})
	s.mu.Unlock()
	s.log.Debug(config.MsgStoreReset)
}

// Records returns a copy of the cached collection in server order.
func (s *Store) Records() []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRecords(s.snap.records)
}

// Index returns the calendar index of the current cache. The index is
// immutable; later mutations publish a new one.
func (s *Store) Index() *calendar.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.index
}

// Find looks id up in the cache.
func (s *Store) Find(id string) (model.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.position(id); i >= 0 {
		return s.snap.records[i].Clone(), true
	}
	return model.Record{}, false
}

// replace publishes a new snapshot. Callers hold mu.
func (s *Store) replace(records []model.Record) {
	s.snap = snapshot{records: records, index: calendar.Rebuild(records)}
}

// position returns the cache slot of id or -1. Callers hold mu.
func (s *Store) position(id string) int {
	for i, r := range s.snap.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) fail(op, id string, kind, cause error) error {
	s.log.Warn(config.MsgOpFailed,
		config.LogKeyOp, op,
		config.LogKeyID, id,
		config.LogKeyError, cause)
	return fmt.Errorf("%w: %w", kind, cause)
}

func (s *Store) invalid(err error) error {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		s.log.Debug(config.MsgValidation, config.LogKeyField, ve.Field)
	}
	return err
}

// copyRecords detaches the slice and the reminder times it points to.
func copyRecords(in []model.Record) []model.Record {
	out := make([]model.Record, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}
