package objectStore

import (
	"context"
	"errors"
)

// ErrObjectNotFound means the key does not exist yet. Pollers treat it as
// "not ready", never as a failure.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is a bucket/key blob store. Writes replace any existing object.
type ObjectStore interface {
	Put(ctx context.Context, bucket string, key string, body []byte, contentType string) error
	Get(ctx context.Context, bucket string, key string) ([]byte, error)
}
