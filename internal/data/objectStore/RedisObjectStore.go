package objectStore

import (
	"context"
	"time"

	"github.com/akolanti/JobMatch/internal/config"
	"github.com/akolanti/JobMatch/internal/data/redisStore"
	"github.com/akolanti/JobMatch/internal/domain/matchModel"
	"github.com/akolanti/JobMatch/pkg/logger_i"
)

const (
	bodyField        = "body"
	contentTypeField = "content_type"
)

// RedisObjectStore keeps each object as a hash under "<bucket>/<key>" and
// lets it expire, so it works as a result mailbox but not as an archive.
type RedisObjectStore struct {
	store  *redisStore.Store
	ttl    time.Duration
	logger *logger_i.Logger
}

func NewRedisObjectStore(store *redisStore.Store, ttl time.Duration) *RedisObjectStore {
	return &RedisObjectStore{
		store:  store,
		ttl:    ttl,
		logger: logger_i.NewLogger("redis_object_store"),
	}
}

func (s *RedisObjectStore) Put(ctx context.Context, bucket string, key string, body []byte, contentType string) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "bucket", bucket, "key", key)
	log.Debug("saving object")

	err := s.store.HSetWithTTL(ctx, objectKey(bucket, key), s.ttl, map[string]interface{}{
		bodyField:        body,
		contentTypeField: contentType,
	})
	if err != nil {
		log.Error("Error saving object to Redis", "error", err)
		return &matchModel.StoreError{Op: "put", Key: key, Err: err}
	}
	log.Debug("Saved object to Redis")
	return nil
}

func (s *RedisObjectStore) Get(ctx context.Context, bucket string, key string) ([]byte, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "bucket", bucket, "key", key)

	body, err := s.store.HGet(ctx, objectKey(bucket, key), bodyField)
	if s.store.IsNil(err) {
		return nil, ErrObjectNotFound
	} else if err != nil {
		log.Error("Error reading object from Redis", "error", err)
		return nil, &matchModel.StoreError{Op: "get", Key: key, Err: err}
	}
	return body, nil
}
