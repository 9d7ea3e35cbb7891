// Package store persists one configuration document per guild as a JSON
// file, with write-to-temp-then-rename replacement so a crash mid-write
// never leaves a corrupt document behind.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is a keyed document store rooted at a directory. Writers to the
// same key serialize on a per-key mutex; the write rate is human-paced.
type Store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New returns a Store rooted at dir. The directory is created on first write.
func New(dir string) *Store {
	return &Store{dir: dir, locks: make(map[string]*sync.Mutex)}
}

func (s *Store) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

func (s *Store) path(key string) string {
	// Keys are platform snowflake ids; strip separators defensively anyway.
	key = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == '.' {
			return '_'
		}
		return r
	}, key)
	return filepath.Join(s.dir, key+".json")
}

// Load reads the document for key. A missing or malformed file yields the
// normalized default shape; only real I/O failures are returned as errors.
func (s *Store) Load(key string) (*Document, error) {
	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultDocument(), nil
		}
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return DefaultDocument(), nil
	}
	doc.Normalize()
	return &doc, nil
}

// Save atomically replaces the document for key.
func (s *Store) Save(key string, doc *Document) error {
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()
	return s.writeLocked(key, doc)
}

// Update runs fn on a freshly loaded document and persists the result,
// holding the key lock across the whole read-modify-write so concurrent
// interactions cannot lose updates. fn returning an error aborts the write.
func (s *Store) Update(key string, fn func(*Document) error) (*Document, error) {
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()
	doc, err := s.Load(key)
	if err != nil {
		return nil, err
	}
	if err := fn(doc); err != nil {
		return nil, err
	}
	doc.Normalize()
	if err := s.writeLocked(key, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Keys lists the keys with a persisted document, in directory order.
func (s *Store) Keys() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: list: %w", err)
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}
	return keys, nil
}

func (s *Store) writeLocked(key string, doc *Document) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("store: mkdir: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", key, err)
	}
	target := s.path(key)
	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("store: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: close %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("store: replace %s: %w", key, err)
	}
	return nil
}
