package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession_authLifecycle(t *testing.T) {
	sess, err := New(NewMemStorage())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	assert.False(t, sess.LoggedIn())
	assert.Nil(t, sess.User())

	usr := User{ID: "1", Username: "amina", Email: "amina@shule.test"}
	if err := sess.SetAuth(usr, "access", "refresh"); err != nil {
		t.Fatalf("SetAuth() failed: %v", err)
	}
	assert.True(t, sess.LoggedIn())
	assert.Equal(t, "amina", sess.User().Username)
	assert.Equal(t, "access", sess.AccessToken())
	assert.Equal(t, "refresh", sess.RefreshToken())

	if err := sess.SetTokens("access2", "refresh2"); err != nil {
		t.Fatalf("SetTokens() failed: %v", err)
	}
	assert.Equal(t, "access2", sess.AccessToken())
	assert.Equal(t, "amina", sess.User().Username) // untouched

	if err := sess.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	assert.False(t, sess.LoggedIn())
	assert.Equal(t, "", sess.AccessToken())
}

func TestSession_clearKeepsPreferences(t *testing.T) {
	sess, _ := New(NewMemStorage())
	_ = sess.SetLocale("vi")
	_ = sess.SetTheme("dark")
	_ = sess.SetAuth(User{ID: "1"}, "a", "r")

	_ = sess.Clear()

	assert.Equal(t, "vi", sess.Locale())
	assert.Equal(t, "dark", sess.Theme())
}

func TestFileStorage_roundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	storage := NewFileStorage(path)

	// missing file loads as an anonymous session
	state, err := storage.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	assert.Nil(t, state.User)

	state.User = &User{ID: "7", Email: "x@shule.test"}
	state.AccessToken = "tok"
	state.Locale = "en"
	if err := storage.Save(state); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := storage.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	assert.Equal(t, state, loaded)

	if err := storage.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	loaded, _ = storage.Load()
	assert.Nil(t, loaded.User)
}

func TestSession_survivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	sess, _ := New(NewFileStorage(path))
	_ = sess.SetAuth(User{ID: "3", Username: "neo"}, "a", "r")

	// a new Session over the same file sees the stored login
	reloaded, err := New(NewFileStorage(path))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	assert.True(t, reloaded.LoggedIn())
	assert.Equal(t, "neo", reloaded.User().Username)
}
