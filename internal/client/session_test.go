package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "session.json"))
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := newTestFileStore(t)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	state := State{Token: "tok", User: &User{ID: 1, Username: "ab"}}
	require.NoError(t, store.Save(state))

	loaded, err = store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "tok", loaded.Token)
	require.NotNil(t, loaded.User)
	assert.Equal(t, "ab", loaded.User.Username)

	require.NoError(t, store.Clear())
	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Clearing an already-clear store is not an error.
	require.NoError(t, store.Clear())
}

func TestFileStoreIgnoresCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	loaded, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSessionHoldsAtMostOneToken(t *testing.T) {
	session, err := NewSession(newTestFileStore(t))
	require.NoError(t, err)

	_, ok := session.Token()
	assert.False(t, ok)

	require.NoError(t, session.Set("first", &User{ID: 1}))
	require.NoError(t, session.Set("second", &User{ID: 2}))

	token, ok := session.Token()
	require.True(t, ok)
	assert.Equal(t, "second", token)
	assert.Equal(t, int64(2), session.User().ID)
}

func TestSessionClearPurgesTokenAndProfileTogether(t *testing.T) {
	store := newTestFileStore(t)
	session, err := NewSession(store)
	require.NoError(t, err)

	require.NoError(t, session.Set("tok", &User{ID: 1}))
	require.NoError(t, session.Clear())

	_, ok := session.Token()
	assert.False(t, ok)
	assert.Nil(t, session.User())

	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, persisted)
}

func TestSessionRestoresPersistedState(t *testing.T) {
	store := newTestFileStore(t)
	require.NoError(t, store.Save(State{Token: "tok", User: &User{ID: 9}}))

	session, err := NewSession(store)
	require.NoError(t, err)

	token, ok := session.Token()
	require.True(t, ok)
	assert.Equal(t, "tok", token)
}
