package redisStore

import (
	"context"
	"fmt"
	"time"

	"github.com/akolanti/JobMatch/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

type Store struct {
	client *redis.Client
	Type   int
	logger *logger_i.Logger
}

// New connects to addr and pings it before handing the store out.
func New(ctx context.Context, addr string, password string, dbType int) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:                  addr,
		Password:              password,
		DB:                    dbType,
		ContextTimeoutEnabled: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	store := NewFromClient(client, dbType)
	if err := client.Ping(pingCtx).Err(); err != nil {
		store.logger.Error("Redis is offline", "addr", addr, "error", err)
		client.Close()
		return nil, fmt.Errorf("redis %s unreachable: %w", addr, err)
	}
	store.logger.Info("Redis store init successfully", "addr", addr, "db", dbType)
	return store, nil
}

func NewFromClient(client *redis.Client, dbType int) *Store {
	return &Store{
		client: client,
		Type:   dbType,
		logger: logger_i.NewLogger(fmt.Sprintf("redis_store_%d", dbType)),
	}
}

func (s *Store) Close() error {
	s.logger.Info("Closing Redis store")
	return s.client.Close()
}
