package session

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// fileState is the on-disk layout. The key names match the ones the browser
// console used for local storage.
type fileState struct {
	Token    string `toml:"sc_token"`
	Username string `toml:"sc_user"`
}

// FileStore keeps the session in a small TOML file readable only by the
// owner.
type FileStore struct {
	path string
}

// NewFileStore returns a store writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns the session file location under stateDir, or under
// ~/.local/state/sankalp when stateDir is empty.
func DefaultPath(stateDir string) (string, error) {
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateDir = filepath.Join(home, ".local", "state", "sankalp")
	}
	return filepath.Join(stateDir, "session.toml"), nil
}

// Path returns the file the store writes to.
func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load() (Session, error) {
	var st fileState
	if _, err := toml.DecodeFile(f.path, &st); err != nil {
		if os.IsNotExist(err) {
			return Session{}, nil
		}
		return Session{}, fmt.Errorf("reading %s: %w", f.path, err)
	}
	return Session{Token: st.Token, Username: st.Username}, nil
}

// Save writes both values to a temporary file and renames it into place, so
// a reader sees either the old pair or the new one.
func (f *FileStore) Save(s Session) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".session-*.toml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if err := toml.NewEncoder(tmp).Encode(fileState{Token: s.Token, Username: s.Username}); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

func (f *FileStore) Delete() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
