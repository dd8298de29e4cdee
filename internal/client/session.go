package client

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pulsefeed/pulsefeed/internal/domain/user"
)

// Session is the single client-held credential record: the bearer token plus
// the user projection it was issued for. It lives in one JSON file; there is
// no refresh, an expired token just makes the next protected call fail.
type Session struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

// SessionStore owns the on-disk session file. Handlers of the CLI get the
// session passed to them explicitly; nothing reads the file behind their
// back.
type SessionStore struct {
	path string
}

func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// DefaultSessionPath resolves to the user config dir, e.g.
// ~/.config/pulsefeed/session.json on Linux.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()

	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "pulsefeed", "session.json"), nil
}

// Load reads the persisted session. A missing file is not an error: it just
// means nobody is logged in.
func (s *SessionStore) Load() (Session, bool, error) {
	raw, err := os.ReadFile(s.path)

	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Session{}, false, nil
		}

		return Session{}, false, err
	}

	var sess Session

	if err := json.Unmarshal(raw, &sess); err != nil {
		return Session{}, false, err
	}

	if sess.Token == "" {
		return Session{}, false, nil
	}

	return sess, true, nil
}

func (s *SessionStore) Save(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(sess, "", "  ")

	if err != nil {
		return err
	}

	return os.WriteFile(s.path, raw, 0o600)
}

// Clear erases the session file. Logout is purely client-side: the server
// keeps no session state and the token itself stays valid until expiry.
func (s *SessionStore) Clear() error {
	err := os.Remove(s.path)

	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}
