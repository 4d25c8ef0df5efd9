package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"fjacquet/ledgerdash/internal/ledgererror"
	"fjacquet/ledgerdash/internal/models"

	"github.com/spf13/afero"
)

// KeyValueStore holds one opaque value per key. Writes replace the whole
// value.
type KeyValueStore interface {
	// Get returns the value for key and whether it exists.
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Keys() ([]string, error)
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func checkKey(op, key string) error {
	if !keyPattern.MatchString(key) {
		return &ledgererror.StorageError{Op: op, Key: key, Err: errors.New("invalid key")}
	}
	return nil
}

const fileSuffix = ".json"

// FileStore keeps each key in <dir>/<key>.json. Writes go to a temporary
// file that is renamed over the target.
type FileStore struct {
	fs  afero.Fs
	dir string
	mu  sync.Mutex
}

// NewFileStore returns a FileStore rooted at dir on the real filesystem.
func NewFileStore(dir string) *FileStore {
	return NewFileStoreFs(afero.NewOsFs(), dir)
}

// NewFileStoreFs returns a FileStore on fs, which tests can back with memory.
func NewFileStoreFs(fs afero.Fs, dir string) *FileStore {
	return &FileStore{fs: fs, dir: dir}
}

// Dir returns the data directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+fileSuffix)
}

// Get reads a key. A missing file is reported as absent, not as an error.
func (s *FileStore) Get(key string) ([]byte, bool, error) {
	if err := checkKey("get", key); err != nil {
		return nil, false, err
	}
	data, err := afero.ReadFile(s.fs, s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &ledgererror.StorageError{Op: "get", Key: key, Err: err}
	}
	return data, true, nil
}

// Put writes a key atomically.
func (s *FileStore) Put(key string, value []byte) error {
	if err := checkKey("put", key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	wrap := func(err error) error {
		return &ledgererror.StorageError{Op: "put", Key: key, Err: err}
	}
	if err := s.fs.MkdirAll(s.dir, models.PermissionDirectory); err != nil {
		return wrap(fmt.Errorf("create data directory: %w", err))
	}

	tmp, err := afero.TempFile(s.fs, s.dir, key+".*.tmp")
	if err != nil {
		return wrap(err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = s.fs.Remove(tmpName) }

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		cleanup()
		return wrap(err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return wrap(err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return wrap(err)
	}
	if err := s.fs.Chmod(tmpName, models.PermissionConfigFile); err != nil {
		cleanup()
		return wrap(err)
	}
	if err := s.fs.Rename(tmpName, s.path(key)); err != nil {
		cleanup()
		return wrap(err)
	}
	return nil
}

// Keys lists the stored keys, sorted.
func (s *FileStore) Keys() ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &ledgererror.StorageError{Op: "list", Key: s.dir, Err: err}
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		key := strings.TrimSuffix(name, fileSuffix)
		if keyPattern.MatchString(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// MemoryStore is an in-process KeyValueStore.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}}
}

func (m *MemoryStore) Get(key string) ([]byte, bool, error) {
	if err := checkKey("get", key); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryStore) Put(key string, value []byte) error {
	if err := checkKey("put", key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
