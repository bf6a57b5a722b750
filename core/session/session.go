// Package session holds the persisted client-side state: the authenticated
// admin, the access/refresh token pair and UI preferences. A page-reload
// equivalent (process restart) finds the session where it was left.
package session

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// User is the authenticated admin as returned by the login endpoint.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Group    string `json:"group,omitempty"`
}

// State is the full persisted payload.
type State struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	User         *User  `json:"user,omitempty"`
	Locale       string `json:"locale,omitempty"`
	Theme        string `json:"theme,omitempty"`
}

// Storage persists the session State between runs.
type Storage interface {
	Load() (State, error)
	Save(State) error
	Clear() error
}

// Session is the in-memory view of the persisted state. Presence of a
// non-nil user means "logged in". Not safe for concurrent use.
type Session struct {
	storage Storage
	state   State
}

func New(storage Storage) (*Session, error) {
	state, err := storage.Load()
	if err != nil {
		return nil, errors.Wrap(err, "loading session")
	}
	return &Session{storage: storage, state: state}, nil
}

func (s *Session) User() *User          { return s.state.User }
func (s *Session) LoggedIn() bool       { return s.state.User != nil }
func (s *Session) AccessToken() string  { return s.state.AccessToken }
func (s *Session) RefreshToken() string { return s.state.RefreshToken }
func (s *Session) Locale() string       { return s.state.Locale }
func (s *Session) Theme() string        { return s.state.Theme }

// SetAuth stores the logged-in user and both tokens, transitioning the
// session to authenticated.
func (s *Session) SetAuth(usr User, accessToken, refreshToken string) error {
	s.state.User = &usr
	s.state.AccessToken = accessToken
	s.state.RefreshToken = refreshToken
	return s.storage.Save(s.state)
}

// SetTokens replaces the token pair, keeping the user untouched.
func (s *Session) SetTokens(accessToken, refreshToken string) error {
	s.state.AccessToken = accessToken
	s.state.RefreshToken = refreshToken
	return s.storage.Save(s.state)
}

// SetUser replaces the stored user record, keeping the tokens untouched.
func (s *Session) SetUser(usr User) error {
	s.state.User = &usr
	return s.storage.Save(s.state)
}

func (s *Session) SetLocale(locale string) error {
	s.state.Locale = locale
	return s.storage.Save(s.state)
}

func (s *Session) SetTheme(theme string) error {
	s.state.Theme = theme
	return s.storage.Save(s.state)
}

// Clear drops the user and tokens but keeps UI preferences, returning the
// session to anonymous.
func (s *Session) Clear() error {
	s.state.User = nil
	s.state.AccessToken = ""
	s.state.RefreshToken = ""
	return s.storage.Save(s.state)
}

// fileStorage keeps the session in a single JSON file. Human-readable,
// portable; tokens inside, hence the tight permissions.
type fileStorage struct {
	path string
}

var _ Storage = (*fileStorage)(nil)

func NewFileStorage(path string) Storage {
	return &fileStorage{path: path}
}

func (fs *fileStorage) Load() (State, error) {
	var state State
	b, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return state, nil
		}
		return state, errors.Wrap(err, "reading session file")
	}
	if err := json.Unmarshal(b, &state); err != nil {
		return State{}, errors.Wrap(err, "unmarshalling session file")
	}
	return state, nil
}

func (fs *fileStorage) Save(state State) error {
	b, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshalling session")
	}
	if err := os.WriteFile(fs.path, b, 0o600); err != nil {
		return errors.Wrap(err, "writing session file")
	}
	return nil
}

func (fs *fileStorage) Clear() error {
	if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing session file")
	}
	return nil
}

// memStorage is an in-memory Storage for tests.
type memStorage struct {
	state State
}

var _ Storage = (*memStorage)(nil)

func NewMemStorage() Storage {
	return &memStorage{}
}

func (ms *memStorage) Load() (State, error)   { return ms.state, nil }
func (ms *memStorage) Save(state State) error { ms.state = state; return nil }
func (ms *memStorage) Clear() error           { ms.state = State{}; return nil }
