package objectStore

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/akolanti/JobMatch/internal/config"
	"github.com/akolanti/JobMatch/internal/domain/matchModel"
	"github.com/akolanti/JobMatch/pkg/logger_i"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3API is the part of the S3 client the store calls.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type S3ObjectStore struct {
	api    S3API
	logger *logger_i.Logger
}

func NewS3ObjectStore(api S3API) *S3ObjectStore {
	return &S3ObjectStore{api: api, logger: logger_i.NewLogger("s3_object_store")}
}

// NewS3Client builds the client; endpoint switches to path-style addressing
// for MinIO and other S3-compatible servers.
func NewS3Client(cfg aws.Config, endpoint string) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
}

func (s *S3ObjectStore) Put(ctx context.Context, bucket string, key string, body []byte, contentType string) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "bucket", bucket, "key", key)

	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		log.Error("Error writing object to S3", "error", err)
		return &matchModel.StoreError{Op: "put", Key: key, Err: err}
	}
	log.Debug("Saved object to S3", "size", len(body))
	return nil
}

func (s *S3ObjectStore) Get(ctx context.Context, bucket string, key string) ([]byte, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrObjectNotFound
		}
		return nil, &matchModel.StoreError{Op: "get", Key: key, Err: err}
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, &matchModel.StoreError{Op: "get", Key: key, Err: err}
	}
	return body, nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
