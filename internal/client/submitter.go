package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/JobMatch/internal/config"
	"github.com/akolanti/JobMatch/internal/data/objectStore"
	"github.com/akolanti/JobMatch/internal/domain/matchModel"
	"github.com/akolanti/JobMatch/pkg/logger_i"
	"github.com/gabriel-vasile/mimetype"
)

var ErrNotPDF = errors.New("only PDF resumes are accepted")

type Status string

const (
	StatusReady           Status = "ready"
	StatusStillProcessing Status = "still processing"
)

// PollPolicy bounds the wait for a result: MaxAttempts reads, each preceded
// by one Interval.
type PollPolicy struct {
	MaxAttempts int
	Interval    time.Duration
}

func DefaultPollPolicy() PollPolicy {
	return PollPolicy{MaxAttempts: config.PollAttempts, Interval: config.PollInterval}
}

type Result struct {
	Filename string
	Status   Status
	Matches  matchModel.RankedResultList
	Attempts int
}

// UploadError is a hard failure, unlike a poll that runs out of attempts.
type UploadError struct {
	Name string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("Upload failed: %v", e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

type Submitter struct {
	store  objectStore.ObjectStore
	bucket string
	policy PollPolicy
	clock  Clock
	logger *logger_i.Logger
}

func NewSubmitter(store objectStore.ObjectStore, bucket string, policy PollPolicy, clock Clock) *Submitter {
	if clock == nil {
		clock = RealClock{}
	}
	return &Submitter{
		store:  store,
		bucket: bucket,
		policy: policy,
		clock:  clock,
		logger: logger_i.NewLogger("client_submitter"),
	}
}

// Upload stores body as resumes/<timestamp>_<name> and returns the
// "<timestamp>_<name>" filename, which is also the result's join key.
func (s *Submitter) Upload(ctx context.Context, originalName string, body []byte) (string, error) {
	name := filepath.Base(originalName)
	if !strings.EqualFold(filepath.Ext(name), config.ResumeExtension) {
		return "", &UploadError{Name: name, Err: ErrNotPDF}
	}
	detected := mimetype.Detect(body)
	if !detected.Is(config.ResumeContentType) {
		return "", &UploadError{Name: name, Err: fmt.Errorf("%w: detected %s", ErrNotPDF, detected.String())}
	}

	filename := s.clock.Now().Format(config.UploadTimeFormat) + "_" + name
	key := config.ResumePrefix + filename
	if err := s.store.Put(ctx, s.bucket, key, body, config.ResumeContentType); err != nil {
		s.logger.Error("upload failed", "bucket", s.bucket, "key", key, "error", err)
		return "", &UploadError{Name: name, Err: err}
	}
	s.logger.Info("resume uploaded", "bucket", s.bucket, "key", key, "size", len(body))
	return filename, nil
}

// Poll waits for results/<filename>.json. A missing or unreadable object just
// means "not yet"; running out of attempts is StatusStillProcessing, not an
// error. Only context cancellation ends the wait with an error.
func (s *Submitter) Poll(ctx context.Context, filename string) (Result, error) {
	key := config.ResultPrefix + filename + config.ResultExtension
	log := s.logger.With("bucket", s.bucket, "key", key)
	res := Result{Filename: filename, Status: StatusStillProcessing}

	for attempt := 1; attempt <= s.policy.MaxAttempts; attempt++ {
		if err := s.clock.Sleep(ctx, s.policy.Interval); err != nil {
			return res, err
		}
		res.Attempts = attempt

		matches, ok := s.tryRead(ctx, key)
		if ok {
			res.Status = StatusReady
			res.Matches = matches
			log.Debug("result ready", "attempt", attempt)
			return res, nil
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
		log.Debug("result not ready", "attempt", attempt)
	}
	return res, nil
}

func (s *Submitter) tryRead(ctx context.Context, key string) (matchModel.RankedResultList, bool) {
	raw, err := s.store.Get(ctx, s.bucket, key)
	if err != nil {
		if !errors.Is(err, objectStore.ErrObjectNotFound) {
			s.logger.Warn("result read failed", "key", key, "error", err)
		}
		return nil, false
	}
	var matches matchModel.RankedResultList
	if err := json.Unmarshal(raw, &matches); err != nil || matches == nil {
		s.logger.Warn("result not decodable yet", "key", key, "error", err)
		return nil, false
	}
	return matches, true
}

func (s *Submitter) Submit(ctx context.Context, originalName string, body []byte) (Result, error) {
	filename, err := s.Upload(ctx, originalName, body)
	if err != nil {
		return Result{}, err
	}
	return s.Poll(ctx, filename)
}
