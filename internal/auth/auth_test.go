package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/birthdays/internal/api"
	"github.com/tartampluch/birthdays/internal/auth"
	"github.com/tartampluch/birthdays/internal/session"
)

type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) Login(ctx context.Context, creds api.Credentials) (string, error) {
	args := m.Called(ctx, creds)
	return args.String(0), args.Error(1)
}

func (m *MockAccounts) Register(ctx context.Context, reg api.Registration) (string, error) {
	args := m.Called(ctx, reg)
	return args.String(0), args.Error(1)
}

func (m *MockAccounts) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type fakeCache struct{ resets int }

func (f *fakeCache) Reset() { f.resets++ }

func setup() (*auth.Service, *MockAccounts, *session.Gate, *fakeCache) {
	accounts := new(MockAccounts)
	gate := session.NewGate(session.NewMemoryStore())
	cache := &fakeCache{}
	return auth.New(accounts, gate, cache), accounts, gate, cache
}

func TestLogin(t *testing.T) {
	svc, accounts, gate, _ := setup()
	accounts.On("Login", mock.Anything, api.Credentials{Email: "ana@example.com", Password: "secret"}).
		Return("tok-1", nil).Once()

	require.NoError(t, svc.Login(context.Background(), " ana@example.com ", "secret"))
	assert.True(t, gate.Authenticated())
	accounts.AssertExpectations(t)
}

func TestLogin_Failures(t *testing.T) {
	svc, accounts, gate, _ := setup()
	accounts.On("Login", mock.Anything, mock.MatchedBy(func(c api.Credentials) bool { return c.Password == "wrong" })).
		Return("", api.ErrUnauthorized).Once()
	accounts.On("Login", mock.Anything, mock.MatchedBy(func(c api.Credentials) bool { return c.Password == "secret" })).
		Return("", nil).Once()

	err := svc.Login(context.Background(), "ana@example.com", "wrong")
	assert.ErrorIs(t, err, auth.ErrLogin)
	assert.ErrorIs(t, err, api.ErrUnauthorized)

	err = svc.Login(context.Background(), "ana@example.com", "secret")
	assert.ErrorIs(t, err, auth.ErrNoToken)
	assert.False(t, gate.Authenticated())
}

func TestRegister_PasswordMismatch(t *testing.T) {
	svc, accounts, gate, _ := setup()

	err := svc.Register(context.Background(), api.Registration{
		Name: "Ana", Email: "ana@example.com", Password: "secret", PasswordConfirmation: "secreto",
	})
	assert.ErrorIs(t, err, auth.ErrPasswordMismatch)
	accounts.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	assert.False(t, gate.Authenticated())
}

func TestRegister(t *testing.T) {
	svc, accounts, gate, _ := setup()
	accounts.On("Register", mock.Anything, mock.Anything).Return("tok-2", nil).Once()

	err := svc.Register(context.Background(), api.Registration{
		Name: "Ana", Email: "ana@example.com", Password: "secret", PasswordConfirmation: "secret",
	})
	require.NoError(t, err)
	assert.True(t, gate.Authenticated())
}

func TestLogout_ClearsEvenWhenServerFails(t *testing.T) {
	svc, accounts, gate, cache := setup()
	require.NoError(t, gate.Store("tok"))
	accounts.On("Logout", mock.Anything).Return(api.ErrUnavailable).Once()

	require.NoError(t, svc.Logout(context.Background()))
	assert.False(t, gate.Authenticated())
	assert.Equal(t, 1, cache.resets)
	accounts.AssertExpectations(t)
}

func TestLogout_NotLoggedIn(t *testing.T) {
	svc, accounts, gate, cache := setup()
	accounts.On("Logout", mock.Anything).Return(api.ErrUnauthorized).Once()

	assert.NoError(t, svc.Logout(context.Background()))
	assert.False(t, gate.Authenticated())
	assert.Equal(t, 1, cache.resets)
}
