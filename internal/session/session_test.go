package session_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/birthdays/internal/config"
	"github.com/tartampluch/birthdays/internal/session"
	"github.com/zalando/go-keyring"
)

func TestGate_AttachScenario(t *testing.T) {
	gate := session.NewGate(session.NewMemoryStore())
	req := httptest.NewRequest(http.MethodGet, "http://api.local/birthdays", nil)

	out, err := gate.Attach(req)
	require.NoError(t, err)
	assert.Same(t, req, out, "Without credential the request is returned unmodified")
	assert.Empty(t, out.Header.Get(config.HeaderAuthorization))

	require.NoError(t, gate.Store("abc"))

	out, err = gate.Attach(req)
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", out.Header.Get(config.HeaderAuthorization))
	assert.Empty(t, req.Header.Get(config.HeaderAuthorization), "Original request must not be mutated")
}

func TestGate_Clear(t *testing.T) {
	gate := session.NewGate(session.NewMemoryStore())

	assert.NoError(t, gate.Clear(), "Clearing an empty store is not an error")

	require.NoError(t, gate.Store("abc"))
	assert.True(t, gate.Authenticated())

	require.NoError(t, gate.Clear())
	assert.False(t, gate.Authenticated())

	req := httptest.NewRequest(http.MethodGet, "http://api.local/birthdays", nil)
	out, err := gate.Attach(req)
	require.NoError(t, err)
	assert.Empty(t, out.Header.Get(config.HeaderAuthorization))
}

func TestGate_StoreRejectsEmpty(t *testing.T) {
	gate := session.NewGate(session.NewMemoryStore())
	assert.ErrorIs(t, gate.Store("   "), session.ErrNoCredential)
	assert.False(t, gate.Authenticated())
}

type brokenStore struct{ session.MemoryStore }

var errBackend = errors.New("secret service unavailable")

func (*brokenStore) Load() (string, error) { return "", errBackend }

func TestGate_AttachStoreFailure(t *testing.T) {
	gate := session.NewGate(&brokenStore{})
	req := httptest.NewRequest(http.MethodGet, "http://api.local/birthdays", nil)

	_, err := gate.Attach(req)
	assert.ErrorIs(t, err, errBackend)
	assert.ErrorIs(t, err, session.ErrStorage)
}

func TestKeyringStore_Lifecycle(t *testing.T) {
	keyring.MockInit()
	store := session.NewKeyringStore()

	_, err := store.Load()
	assert.ErrorIs(t, err, session.ErrNoCredential)

	require.NoError(t, store.Save("persisted-token"))

	// A second store instance reads the same entry, as after a restart.
	token, err := session.NewKeyringStore().Load()
	require.NoError(t, err)
	assert.Equal(t, "persisted-token", token)

	require.NoError(t, store.Delete())
	assert.NoError(t, store.Delete(), "Deleting twice is not an error")

	_, err = store.Load()
	assert.ErrorIs(t, err, session.ErrNoCredential)
}

func TestKeyringStore_BackendError(t *testing.T) {
	keyring.MockInitWithError(errBackend)
	t.Cleanup(keyring.MockInit)

	store := session.NewKeyringStore()
	_, err := store.Load()
	assert.ErrorIs(t, err, errBackend)
	assert.ErrorIs(t, err, session.ErrStorage)
	assert.NotErrorIs(t, err, session.ErrNoCredential)

	assert.ErrorIs(t, store.Save("x"), errBackend)
}

func TestFileStore_Lifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", config.CredentialFileName)
	store := session.NewFileStore(path)

	_, err := store.Load()
	assert.ErrorIs(t, err, session.ErrNoCredential)

	require.NoError(t, store.Save("persisted-token"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, config.FilePermUserRW, info.Mode().Perm())

	token, err := session.NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "persisted-token", token)

	require.NoError(t, store.Delete())
	assert.NoError(t, store.Delete(), "Deleting twice is not an error")

	_, err = store.Load()
	assert.ErrorIs(t, err, session.ErrNoCredential)
}

func TestFileStore_Errors(t *testing.T) {
	dir := t.TempDir()

	// A directory where the file should be cannot be read as a credential.
	_, err := session.NewFileStore(dir).Load()
	assert.ErrorIs(t, err, session.ErrStorage)

	blank := filepath.Join(dir, "blank")
	require.NoError(t, os.WriteFile(blank, []byte(" \n"), config.FilePermUserRW))
	_, err = session.NewFileStore(blank).Load()
	assert.ErrorIs(t, err, session.ErrNoCredential)
}
