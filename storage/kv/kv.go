// Package kv abstracts the persistence of whole record collections as
// opaque values under well-known keys.
package kv

import "errors"

var ErrKeyNotFound = errors.New("key not found")

// Store persists one value per key. Values are written atomically; a
// partially written value must never be observable.
type Store interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
	Delete(key string) error
	// Keys lists every stored key.
	Keys() ([]string, error)
	Close() error
}
