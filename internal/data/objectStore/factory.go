package objectStore

import (
	"context"
	"fmt"

	"github.com/akolanti/JobMatch/internal/config"
	"github.com/akolanti/JobMatch/internal/data/redisStore"
	"github.com/aws/aws-sdk-go-v2/aws"
)

// New picks the backend named by settings.StoreBackend. The returned close
// func releases backend connections.
func New(ctx context.Context, settings *config.Settings, awsCfg aws.Config) (ObjectStore, func() error, error) {
	noop := func() error { return nil }

	switch settings.StoreBackend {
	case config.StoreBackendS3:
		return NewS3ObjectStore(NewS3Client(awsCfg, settings.S3Endpoint)), noop, nil
	case config.StoreBackendRedis:
		rs, err := redisStore.New(ctx, settings.RedisAddr, settings.RedisPassword, config.RedisObjectStore)
		if err != nil {
			return nil, noop, err
		}
		return NewRedisObjectStore(rs, config.RedisObjectStoreTTL), rs.Close, nil
	case config.StoreBackendMemory:
		return InitInMemoryObjectStore(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown store backend %q", settings.StoreBackend)
	}
}
