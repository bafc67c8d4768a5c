package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/akolanti/JobMatch/internal/data/objectStore"
)

var pdfBody = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")

type fakeClock struct {
	now     time.Time
	sleeps  []time.Duration
	OnSleep func(n int) error
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	if c.OnSleep != nil {
		return c.OnSleep(len(c.sleeps))
	}
	return ctx.Err()
}

// countingStore wraps an object store and counts reads.
type countingStore struct {
	objectStore.ObjectStore
	mu    sync.Mutex
	gets  int
	OnGet func(n int) ([]byte, error)
	OnPut func() error
}

func (s *countingStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	s.mu.Lock()
	s.gets++
	n := s.gets
	s.mu.Unlock()
	if s.OnGet != nil {
		return s.OnGet(n)
	}
	return s.ObjectStore.Get(ctx, bucket, key)
}

func (s *countingStore) Put(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	if s.OnPut != nil {
		if err := s.OnPut(); err != nil {
			return err
		}
	}
	return s.ObjectStore.Put(ctx, bucket, key, body, contentType)
}

func newCountingStore() *countingStore {
	return &countingStore{ObjectStore: objectStore.InitInMemoryObjectStore()}
}

func TestUpload_KeyAndContentType(t *testing.T) {
	mem := objectStore.InitInMemoryObjectStore()
	clock := &fakeClock{now: time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)}
	s := NewSubmitter(mem, "bucket", DefaultPollPolicy(), clock)

	filename, err := s.Upload(context.Background(), "/home/me/My CV.pdf", pdfBody)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if filename != "20240309140507_My CV.pdf" {
		t.Errorf("filename got %q", filename)
	}
	if ct, ok := mem.ContentType("bucket", "resumes/20240309140507_My CV.pdf"); !ok || ct != "application/pdf" {
		t.Errorf("stored object content type %q, found %v", ct, ok)
	}
}

func TestUpload_Rejections(t *testing.T) {
	tests := []struct {
		name string
		file string
		body []byte
	}{
		{"wrong extension", "cv.docx", pdfBody},
		{"not pdf bytes", "cv.pdf", []byte("just some text")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := objectStore.InitInMemoryObjectStore()
			s := NewSubmitter(mem, "bucket", DefaultPollPolicy(), &fakeClock{})
			_, err := s.Upload(context.Background(), tt.file, tt.body)

			var upErr *UploadError
			if !errors.As(err, &upErr) || !errors.Is(err, ErrNotPDF) {
				t.Fatalf("expected UploadError wrapping ErrNotPDF, got %v", err)
			}
			if mem.Len() != 0 {
				t.Error("nothing should be uploaded")
			}
		})
	}
}

func TestUpload_StoreFailure(t *testing.T) {
	store := newCountingStore()
	store.OnPut = func() error { return errors.New("AccessDenied") }
	s := NewSubmitter(store, "bucket", DefaultPollPolicy(), &fakeClock{})

	_, err := s.Submit(context.Background(), "cv.pdf", pdfBody)
	var upErr *UploadError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UploadError, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "Upload failed: ") || !strings.Contains(err.Error(), "AccessDenied") {
		t.Errorf("message got %q", err.Error())
	}
	if store.gets != 0 {
		t.Error("must not poll after a failed upload")
	}
}

func TestPoll_StillProcessingAfterExactlyTwelveReads(t *testing.T) {
	store := newCountingStore()
	clock := &fakeClock{}
	s := NewSubmitter(store, "bucket", DefaultPollPolicy(), clock)

	res, err := s.Poll(context.Background(), "20240101000000_cv.pdf")
	if err != nil {
		t.Fatalf("still processing must not be an error, got %v", err)
	}
	if res.Status != StatusStillProcessing {
		t.Errorf("status got %q", res.Status)
	}
	if store.gets != 12 || res.Attempts != 12 {
		t.Errorf("expected 12 reads, got %d (attempts %d)", store.gets, res.Attempts)
	}
	if len(clock.sleeps) != 12 {
		t.Errorf("expected 12 waits, got %d", len(clock.sleeps))
	}
	for _, d := range clock.sleeps {
		if d != 5*time.Second {
			t.Errorf("wait interval got %v", d)
		}
	}
}

func TestPoll_StopsAtFirstSuccessfulRead(t *testing.T) {
	store := newCountingStore()
	store.OnGet = func(n int) ([]byte, error) {
		switch {
		case n < 3:
			return nil, objectStore.ErrObjectNotFound
		case n == 3:
			return []byte(`[{"job_title": "Cloud`), nil
		default:
			return []byte(`[{"job_title":"Cloud Engineer","match_percentage":91.5,"matched_skills":["aws"],"career_path":"AWS Architect"}]`), nil
		}
	}
	s := NewSubmitter(store, "bucket", DefaultPollPolicy(), &fakeClock{})

	res, err := s.Poll(context.Background(), "cv.pdf")
	if err != nil {
		t.Fatalf("Poll failed: %v", err)
	}
	if res.Status != StatusReady || res.Attempts != 4 || store.gets != 4 {
		t.Fatalf("unexpected result %+v after %d reads", res, store.gets)
	}
	if len(res.Matches) != 1 || res.Matches[0].JobTitle != "Cloud Engineer" || res.Matches[0].MatchPercentage != 91.5 {
		t.Errorf("unexpected matches %+v", res.Matches)
	}
}

func TestPoll_ReadErrorsAreNotReady(t *testing.T) {
	store := newCountingStore()
	store.OnGet = func(n int) ([]byte, error) {
		if n == 1 {
			return nil, errors.New("connection reset")
		}
		return []byte(`[]`), nil
	}
	s := NewSubmitter(store, "bucket", DefaultPollPolicy(), &fakeClock{})

	res, err := s.Poll(context.Background(), "cv.pdf")
	if err != nil || res.Status != StatusReady || res.Attempts != 2 {
		t.Errorf("got %+v, %v", res, err)
	}
}

func TestPoll_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	clock := &fakeClock{OnSleep: func(n int) error {
		if n == 3 {
			cancel()
			return context.Canceled
		}
		return nil
	}}
	store := newCountingStore()
	s := NewSubmitter(store, "bucket", DefaultPollPolicy(), clock)

	res, err := s.Poll(ctx, "cv.pdf")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if store.gets != 2 || res.Attempts != 2 {
		t.Errorf("expected 2 reads before cancel, got %d", store.gets)
	}
}

func TestSubmit_EndToEnd(t *testing.T) {
	store := newCountingStore()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store.OnGet = func(n int) ([]byte, error) {
		if n == 2 {
			store.ObjectStore.Put(context.Background(), "bucket", "results/20240101000000_cv.pdf.json", []byte(`[]`), "application/json")
		}
		return store.ObjectStore.Get(context.Background(), "bucket", "results/20240101000000_cv.pdf.json")
	}
	s := NewSubmitter(store, "bucket", DefaultPollPolicy(), clock)

	res, err := s.Submit(context.Background(), "cv.pdf", pdfBody)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if res.Filename != "20240101000000_cv.pdf" || res.Status != StatusReady || res.Attempts != 2 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestRealClock_SleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (RealClock{}).Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if err := (RealClock{}).Sleep(context.Background(), time.Millisecond); err != nil {
		t.Errorf("short sleep failed: %v", err)
	}
}
