package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/frankint/battleship-cli/internal/api"
)

// CredentialStore persists the credential handle between runs. Exactly one
// store holds a credential at a time: the durable store for registered
// accounts, the ephemeral store for guests.
type CredentialStore interface {
	Save(creds api.Credentials) error
	Load() (*api.Credentials, error)
	Clear() error
}

// FileStore is the durable credential store, backed by a JSON file under
// the user's home directory
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at the given path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultCredentialsPath returns the standard credential file location
func DefaultCredentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".battleship/credentials.json"
	}
	return filepath.Join(home, ".battleship", "credentials.json")
}

func (f *FileStore) Save(creds api.Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(f.path, data, 0600)
}

func (f *FileStore) Load() (*api.Credentials, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var creds api.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		// A corrupt credential file is the same as no credential
		return nil, nil
	}
	if creds.Username == "" || creds.Token == "" {
		return nil, nil
	}
	return &creds, nil
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemoryStore is the ephemeral credential store used for guest accounts;
// it lives only as long as the process
type MemoryStore struct {
	creds *api.Credentials
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(creds api.Credentials) error {
	copied := creds
	m.creds = &copied
	return nil
}

func (m *MemoryStore) Load() (*api.Credentials, error) {
	if m.creds == nil {
		return nil, nil
	}
	copied := *m.creds
	return &copied, nil
}

func (m *MemoryStore) Clear() error {
	m.creds = nil
	return nil
}
