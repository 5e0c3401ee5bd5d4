// store.go - Whole-collection persistence: read a collection, transform it in memory, write it back

package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"sync"

	"go-discovery-backend/apperrors"
	"go-discovery-backend/logger"
)

// Collection names. The file backend stores each one as <name>.json.
const (
	CollectionUsers            = "users"
	CollectionCategoryMappings = "category-mappings"
	CollectionProducts         = "products"
	CollectionQuestions        = "discovery-questions"
	CollectionPrompts          = "prompts"
	CollectionDiscoveryResults = "discovery-results"
)

const collectionFileMode os.FileMode = 0o644

// Store persists named collections as whole documents. There is no partial
// write: callers read the full collection, mutate it and write it back.
type Store interface {
	// Read decodes the collection into dst. When the collection is absent or
	// unreadable dst is left untouched (the caller's default) and false is returned.
	Read(collection string, dst any) bool
	// Write replaces the collection. I/O failures wrap apperrors.ErrStorage.
	Write(collection string, value any) error
}

// collectionLocks hands out one RWMutex per collection so a write is never
// interleaved with another write or a read of the same collection. It does
// not span a read-modify-write cycle; concurrent cycles can still lose updates.
type collectionLocks struct {
	locks sync.Map
}

func (c *collectionLocks) get(collection string) *sync.RWMutex {
	mu, _ := c.locks.LoadOrStore(collection, &sync.RWMutex{})
	return mu.(*sync.RWMutex)
}

// FileStore keeps one pretty-printed JSON document per collection in dir.
type FileStore struct {
	dir   string
	log   *logger.Logger
	locks collectionLocks
}

func NewFileStore(dir string, log *logger.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("store data dir required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir, log: log.With("component", "file_store")}, nil
}

func (s *FileStore) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

func (s *FileStore) Read(collection string, dst any) bool {
	mu := s.locks.get(collection)
	mu.RLock()
	raw, err := os.ReadFile(s.path(collection))
	mu.RUnlock()

	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Error("collection unreadable, using default", "collection", collection, "error", err)
		}
		return false
	}
	if err := decodeInto(raw, dst); err != nil {
		s.log.Error("collection corrupt, using default", "collection", collection, "error", err)
		return false
	}
	return true
}

func (s *FileStore) Write(collection string, value any) error {
	raw, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return apperrors.Storage("encode "+collection, err)
	}

	mu := s.locks.get(collection)
	mu.Lock()
	defer mu.Unlock()

	// Write to a sibling temp file and rename so a failed write never truncates the collection
	tmp, err := os.CreateTemp(s.dir, collection+".*.tmp")
	if err != nil {
		return apperrors.Storage("write "+collection, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return apperrors.Storage("write "+collection, err)
	}
	// CreateTemp opens with 0600; collections are world-readable like before
	if err := tmp.Chmod(collectionFileMode); err != nil {
		tmp.Close()
		return apperrors.Storage("write "+collection, err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.Storage("write "+collection, err)
	}
	if err := os.Rename(tmp.Name(), s.path(collection)); err != nil {
		return apperrors.Storage("write "+collection, err)
	}
	return nil
}

// decodeInto unmarshals raw into a fresh value and only assigns it to dst on
// success, so a half-decoded document never leaks into the caller's default.
func decodeInto(raw []byte, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer, got %T", dst)
	}
	fresh := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal(raw, fresh.Interface()); err != nil {
		return err
	}
	// A stored null decodes to nil; hand callers an empty collection instead
	switch v := fresh.Elem(); {
	case v.Kind() == reflect.Slice && v.IsNil():
		v.Set(reflect.MakeSlice(v.Type(), 0, 0))
	case v.Kind() == reflect.Map && v.IsNil():
		v.Set(reflect.MakeMap(v.Type()))
	}
	rv.Elem().Set(fresh.Elem())
	return nil
}
