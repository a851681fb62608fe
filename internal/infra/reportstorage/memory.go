package reportstorage

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"sync"

	"github.com/yanqian/weatherwise/internal/domain/report"
)

// MemoryStorage keeps published reports in memory. Useful for tests and local dev.
type MemoryStorage struct {
	mu    sync.RWMutex
	blobs map[string]storedBlob
}

type storedBlob struct {
	data     []byte
	mimeType string
}

// NewMemoryStorage constructs storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{blobs: make(map[string]storedBlob)}
}

// Put stores a copy of the blob and returns metadata.
func (s *MemoryStorage) Put(_ context.Context, key string, data []byte, mimeType string) (report.StoredObject, error) {
	copied := append([]byte(nil), data...)
	hash := md5.Sum(copied)

	s.mu.Lock()
	s.blobs[key] = storedBlob{data: copied, mimeType: mimeType}
	s.mu.Unlock()

	return report.StoredObject{
		Key:      key,
		Size:     int64(len(copied)),
		MimeType: mimeType,
		ETag:     hex.EncodeToString(hash[:]),
	}, nil
}

// Get returns a reader for the stored blob.
func (s *MemoryStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("report %q: %w", key, report.ErrObjectNotFound)
	}
	return io.NopCloser(bytes.NewReader(blob.data)), nil
}

var _ report.ObjectStorage = (*MemoryStorage)(nil)
