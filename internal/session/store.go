// Package session holds the bearer credential issued by the remote store and
// attaches it to outgoing requests.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tartampluch/birthdays/internal/config"
	"github.com/zalando/go-keyring"
)

var (
	// ErrNoCredential is returned by a CredentialStore when nothing is held.
	ErrNoCredential = errors.New(config.ErrNoCredential)
	// ErrStorage wraps failures of the backing secret store.
	ErrStorage = errors.New(config.ErrCredentialStore)
)

// CredentialStore persists a single opaque credential under a fixed key.
type CredentialStore interface {
	Load() (string, error)
	Save(token string) error
	Delete() error
}

// KeyringStore keeps the credential in the OS secret service so it survives
// process restarts.
type KeyringStore struct {
	Service string
	User    string
}

// NewKeyringStore returns a store keyed by the application service name and
// the fixed credential key.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{Service: config.KeyringService, User: config.CredentialKey}
}

func (k *KeyringStore) Load() (string, error) {
	token, err := keyring.Get(k.Service, k.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoCredential
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if token == "" {
		return "", ErrNoCredential
	}
	return token, nil
}

func (k *KeyringStore) Save(token string) error {
	if err := keyring.Set(k.Service, k.User, token); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

// Delete removes the entry. A missing entry is not an error.
func (k *KeyringStore) Delete() error {
	err := keyring.Delete(k.Service, k.User)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

// FileStore keeps the credential in a user-only file, for hosts without a
// secret service.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (f *FileStore) Load() (string, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNoCredential
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStorage, err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoCredential
	}
	return token, nil
}

func (f *FileStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), config.DirPermUserRWX); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if err := os.WriteFile(f.Path, []byte(token), config.FilePermUserRW); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

// Delete removes the file. A missing file is not an error.
func (f *FileStore) Delete() error {
	err := os.Remove(f.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

// MemoryStore is a process-local CredentialStore.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == "" {
		return "", ErrNoCredential
	}
	return m.token, nil
}

func (m *MemoryStore) Save(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete() error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}
