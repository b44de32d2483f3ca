package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore is a token store backed by a JSON file on disk.
//
// The file is re-read on every Get so a login made by another process sharing
// the file is picked up. Writes replace the file atomically (temp file + rename)
// with 0600 permissions. When a Sealer is supplied the contents are encrypted.
type FileStore struct {
	lock   sync.RWMutex
	path   string
	sealer *Sealer
}

// NewFileStore opens the store at path. The file need not exist yet; its
// directory is created on first write.
func NewFileStore(path string, sealer *Sealer) (*FileStore, error) {
	if path == "" || path == MemoryPath {
		return nil, fmt.Errorf("tokenstore: invalid file store path %q", path)
	}

	store := &FileStore{path: path, sealer: sealer}

	// surface unreadable or undecryptable files at open time rather than on first request
	if _, err := store.load(); err != nil {
		return nil, err
	}
	return store, nil
}

// Path returns the backing file location
func (store *FileStore) Path() string {
	return store.path
}

func (store *FileStore) Get(key string) (string, bool, error) {
	store.lock.RLock()
	defer store.lock.RUnlock()

	values, err := store.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (store *FileStore) Set(key, value string) error {
	store.lock.Lock()
	defer store.lock.Unlock()

	values, err := store.load()
	if err != nil {
		return err
	}
	values[key] = value
	return store.save(values)
}

func (store *FileStore) Remove(key string) error {
	store.lock.Lock()
	defer store.lock.Unlock()

	values, err := store.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return store.save(values)
}

func (store *FileStore) load() (map[string]string, error) {
	values := make(map[string]string)

	data, err := os.ReadFile(store.path)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tokenstore: read %s: %w", store.path, err)
	}
	if len(data) == 0 {
		return values, nil
	}

	if isSealed(data) {
		if store.sealer == nil {
			return nil, ErrSealed
		}
		data, err = store.sealer.Open(data)
		if err != nil {
			return nil, err
		}
	}

	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("tokenstore: decode %s: %w", store.path, err)
	}
	return values, nil
}

func (store *FileStore) save(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}

	if store.sealer != nil {
		data, err = store.sealer.Seal(data)
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(store.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("tokenstore: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(store.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("tokenstore: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("tokenstore: write temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("tokenstore: chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("tokenstore: close temp file: %w", err)
	}

	if err := os.Rename(tmpName, store.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("tokenstore: replace %s: %w", store.path, err)
	}
	return nil
}
