// Package tokenstore persists the client's session token.
//
// A store is a small key-value map. The client only ever uses one well-known
// key (SessionKey), mirroring browser local storage.
package tokenstore

import "errors"

// SessionKey is the key the bearer token is stored under
const SessionKey = "token"

// MemoryPath selects an in-memory store in NewStore
const MemoryPath = ":memory:"

var (
	ErrSealed         = errors.New("tokenstore: store is sealed and no secret was supplied")
	ErrUnsealFailed   = errors.New("tokenstore: could not unseal store - wrong secret or corrupted file")
	ErrSecretTooShort = errors.New("tokenstore: secret too short (minimum 8 characters)")
)

// TokenStore is a generic token store.
//
// Get reports found=false, with no error, when the key is absent.
// Remove does not return an error if the key does not exist.
type TokenStore interface {
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// NewStore creates a TokenStore.
//
// If the special path ":memory:" is used, an in-memory store is returned and
// tokens do not outlive the process. Otherwise a FileStore is opened at path;
// a non-empty secret seals the file contents.
func NewStore(path, secret string) (TokenStore, error) {
	if path == MemoryPath {
		return NewMemoryStore(), nil
	}

	var sealer *Sealer
	if secret != "" {
		var err error
		sealer, err = NewSealer([]byte(secret))
		if err != nil {
			return nil, err
		}
	}
	return NewFileStore(path, sealer)
}
