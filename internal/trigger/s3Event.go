package trigger

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/akolanti/JobMatch/internal/domain/matchModel"
)

var ErrMalformedEvent = errors.New("malformed object event")

// S3Event is the notification body sent by S3, MinIO and their AMQP bridges.
type S3Event struct {
	Event   string          `json:"Event,omitempty"`
	Records []S3EventRecord `json:"Records"`
}

type S3EventRecord struct {
	EventName string `json:"eventName"`
	S3        struct {
		Bucket struct {
			Name string `json:"name"`
		} `json:"bucket"`
		Object struct {
			Key  string `json:"key"`
			Size int64  `json:"size"`
		} `json:"object"`
	} `json:"s3"`
}

// ParseS3Event returns the created objects announced by body. A test ping or
// an event without records yields no refs and no error. Keys arrive URL
// encoded with '+' for spaces.
func ParseS3Event(body []byte) ([]matchModel.ObjectRef, error) {
	var event S3Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	refs := make([]matchModel.ObjectRef, 0, len(event.Records))
	for i, record := range event.Records {
		if record.EventName != "" && !strings.Contains(record.EventName, "ObjectCreated") {
			continue
		}
		bucket := record.S3.Bucket.Name
		if bucket == "" || record.S3.Object.Key == "" {
			return nil, fmt.Errorf("%w: record %d has no bucket or key", ErrMalformedEvent, i)
		}
		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d key %q: %v", ErrMalformedEvent, i, record.S3.Object.Key, err)
		}
		refs = append(refs, matchModel.ObjectRef{Bucket: bucket, Key: key})
	}
	return refs, nil
}
