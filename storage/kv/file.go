package kv

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// fileStore keeps one <key>.json file per key under a data directory.
// Writes go through a temp file and a rename so readers never see a
// torn value.
type fileStore struct {
	mu  sync.RWMutex
	dir string
}

var _ Store = (*fileStore)(nil) // interface compliance check

func OpenFileStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating data dir %s", dir)
	}
	return &fileStore{dir: dir}, nil
}

func (s *fileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *fileStore) Load(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := ioutil.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading key %s", key)
	}
	return data, nil
}

func (s *fileStore) Save(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.path(key) + ".tmp"
	if err := ioutil.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrapf(err, "saving key %s", key)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return errors.Wrapf(err, "saving key %s", key)
	}
	return nil
}

func (s *fileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "deleting key %s", key)
	}
	return nil
}

func (s *fileStore) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := ioutil.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing data dir %s", s.dir)
	}
	var keys []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(e.Name(), ".json"))
	}
	return keys, nil
}

func (s *fileStore) Close() error { return nil }
