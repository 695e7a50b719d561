// Package docstore stores whole JSON documents under string keys with
// optimistic concurrency. Every successful Put returns a new version and a
// Put against a stale version fails with ErrVersionConflict.
package docstore

import (
	"context"
	"errors"
	"strconv"
	"sync"
)

var ErrVersionConflict = errors.New("docstore: version conflict")

// Document is a stored body with the version it was read at.
type Document struct {
	Body    []byte
	Version string
}

type Store interface {
	// Get reports false when the key has never been written.
	Get(ctx context.Context, key string) (Document, bool, error)
	// Put writes body if the stored version still equals expectedVersion.
	// An empty expectedVersion means the key must not exist yet.
	Put(ctx context.Context, key string, body []byte, expectedVersion string) (string, error)
}

// MemoryStore is an in-process Store with counter versions.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]Document
	rev  uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]Document)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (Document, bool, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[key]
	if !ok {
		return Document{}, false, nil
	}
	return Document{Body: append([]byte(nil), doc.Body...), Version: doc.Version}, true, nil
}

func (s *MemoryStore) Put(ctx context.Context, key string, body []byte, expectedVersion string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.docs[key]
	switch {
	case expectedVersion == "" && exists:
		return "", ErrVersionConflict
	case expectedVersion != "" && (!exists || current.Version != expectedVersion):
		return "", ErrVersionConflict
	}

	s.rev++
	version := strconv.FormatUint(s.rev, 10)
	s.docs[key] = Document{Body: append([]byte(nil), body...), Version: version}
	return version, nil
}
