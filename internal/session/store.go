package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/martinlindhe/base36"
	"golang.org/x/crypto/blake2s"

	"github.com/fingertech/fichaje/internal/fileutil"
)

// predefined session errors
var (
	ErrExpired  = errors.New("session: expired")
	ErrInvalid  = errors.New("session: invalid")
	ErrNotFound = errors.New("session: not found")
)

// A Store loads and stores a single session token.
type Store interface {
	Load() (token string, err error)
	Save(token string) error
	Clear() error
}

// A FileStore keeps the token in a file, one file per key.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore rooted at dir. The key (usually the
// backend URL) selects the file, so sessions for different backends do
// not overwrite each other.
func NewFileStore(dir, key string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("session: create directory: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, FileName(key))}, nil
}

// Path returns the file the token is stored in.
func (store *FileStore) Path() string {
	return store.path
}

// Load reads the token from disk.
func (store *FileStore) Load() (string, error) {
	bs, err := os.ReadFile(store.path)
	if os.IsNotExist(err) {
		return "", ErrNotFound
	} else if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(bs))
	if token == "" {
		return "", ErrNotFound
	}
	return token, nil
}

// Save writes the token to disk.
func (store *FileStore) Save(token string) error {
	return fileutil.WriteFileAtomically(store.path, strings.NewReader(token))
}

// Clear removes the token file. Clearing a missing token is not an error.
func (store *FileStore) Clear() error {
	err := os.Remove(store.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// FileName returns the stable token file name for key.
func FileName(key string) string {
	h := blake2s.Sum256([]byte(key))
	return strings.ToLower(base36.EncodeBytes(h[:])) + ".jwt"
}

// A MemoryStore keeps the token in memory.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored token.
func (store *MemoryStore) Load() (string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.token == "" {
		return "", ErrNotFound
	}
	return store.token, nil
}

// Save stores the token.
func (store *MemoryStore) Save(token string) error {
	store.mu.Lock()
	store.token = token
	store.mu.Unlock()
	return nil
}

// Clear drops the token.
func (store *MemoryStore) Clear() error {
	store.mu.Lock()
	store.token = ""
	store.mu.Unlock()
	return nil
}
