package objectStore

import (
	"context"
	"sync"

	"github.com/akolanti/JobMatch/pkg/logger_i"
)

type storedObject struct {
	body        []byte
	contentType string
}

type InMemoryObjectStore struct {
	mu      *sync.RWMutex
	objects map[string]storedObject
	logger  *logger_i.Logger
}

func InitInMemoryObjectStore() *InMemoryObjectStore {
	return &InMemoryObjectStore{
		mu:      new(sync.RWMutex),
		objects: make(map[string]storedObject),
		logger:  logger_i.NewLogger("InMem ObjectStore"),
	}
}

func (s *InMemoryObjectStore) Put(ctx context.Context, bucket string, key string, body []byte, contentType string) error {
	copied := append([]byte(nil), body...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectKey(bucket, key)] = storedObject{body: copied, contentType: contentType}
	s.logger.Debug("Saved object", "bucket", bucket, "key", key, "size", len(body))
	return nil
}

func (s *InMemoryObjectStore) Get(ctx context.Context, bucket string, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, found := s.objects[objectKey(bucket, key)]
	if !found {
		return nil, ErrObjectNotFound
	}
	return append([]byte(nil), obj.body...), nil
}

// ContentType reports what the object was stored with, for tests and dev tooling.
func (s *InMemoryObjectStore) ContentType(bucket string, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, found := s.objects[objectKey(bucket, key)]
	return obj.contentType, found
}

func (s *InMemoryObjectStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func objectKey(bucket string, key string) string {
	return bucket + "/" + key
}
