package tokenstore

import "sync"

// MemoryStore keeps tokens in memory. Tokens do not persist between restarts.
type MemoryStore struct {
	lock   sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (store *MemoryStore) Get(key string) (string, bool, error) {
	store.lock.RLock()
	defer store.lock.RUnlock()

	v, ok := store.values[key]
	return v, ok, nil
}

func (store *MemoryStore) Set(key, value string) error {
	store.lock.Lock()
	defer store.lock.Unlock()

	store.values[key] = value
	return nil
}

func (store *MemoryStore) Remove(key string) error {
	store.lock.Lock()
	defer store.lock.Unlock()

	delete(store.values, key)
	return nil
}
