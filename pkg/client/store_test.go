package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"incubator/pkg/token"
)

func mintAccess(t *testing.T, isFounder bool, email string) string {
	t.Helper()
	svc := token.NewService("access-secret", "refresh-secret", time.Minute, time.Hour)
	tok, err := svc.GenerateAccessToken("8f2b7c1e-1111-4a2b-9c3d-000000000001", email, isFounder)
	require.NoError(t, err)
	return tok
}

func TestNewAuthStore_HydratesFounder(t *testing.T) {
	storage := &MemoryStorage{}
	require.NoError(t, storage.Save(mintAccess(t, true, "f@x.io")))

	store := NewAuthStore(storage)

	require.Equal(t, State{IsAuthenticated: true, IsStartup: true, Email: "f@x.io"}, store.State())
}

func TestNewAuthStore_MalformedTokenLogsOut(t *testing.T) {
	storage := &MemoryStorage{}
	require.NoError(t, storage.Save("not-a-jwt"))

	store := NewAuthStore(storage)

	require.Equal(t, State{}, store.State())
	_, err := storage.Load()
	require.ErrorIs(t, err, ErrNoToken)
}

func TestNewAuthStore_Empty(t *testing.T) {
	store := NewAuthStore(&MemoryStorage{})
	require.False(t, store.State().IsAuthenticated)
}

func TestAuthStore_LoginLogout(t *testing.T) {
	storage := &MemoryStorage{}
	store := NewAuthStore(storage)

	var seen []State
	unsubscribe := store.Subscribe(func(s State) { seen = append(seen, s) })

	admin := mintAccess(t, false, "admin@x.io")
	require.NoError(t, store.Login(admin))
	require.Equal(t, State{IsAuthenticated: true, IsAdmin: true, Email: "admin@x.io"}, store.State())

	saved, err := storage.Load()
	require.NoError(t, err)
	require.Equal(t, admin, saved)

	// same token again does not notify
	require.NoError(t, store.Dispatch(LoginAction{Token: admin}))

	require.NoError(t, store.Logout())
	require.Equal(t, State{}, store.State())
	require.Len(t, seen, 2)

	unsubscribe()
	require.NoError(t, store.Login(admin))
	require.Len(t, seen, 2)
}

func TestAuthStore_LoginWithGarbage(t *testing.T) {
	storage := &MemoryStorage{}
	store := NewAuthStore(storage)
	require.NoError(t, store.Login(mintAccess(t, true, "f@x.io")))

	err := store.Login("garbage")
	require.ErrorIs(t, err, errMalformedToken)
	require.Equal(t, State{}, store.State())
	_, err = storage.Load()
	require.ErrorIs(t, err, ErrNoToken)
}

func TestAuthStore_ExpiredTokenStillDecodes(t *testing.T) {
	svc := token.NewService("a", "r", -time.Minute, time.Hour)
	tok, err := svc.GenerateAccessToken("8f2b7c1e-1111-4a2b-9c3d-000000000002", "old@x.io", true)
	require.NoError(t, err)

	storage := &MemoryStorage{}
	require.NoError(t, storage.Save(tok))

	require.True(t, NewAuthStore(storage).State().IsAuthenticated)
}
