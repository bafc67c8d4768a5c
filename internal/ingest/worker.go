package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/akolanti/JobMatch/internal/catalog"
	"github.com/akolanti/JobMatch/internal/config"
	"github.com/akolanti/JobMatch/internal/data/objectStore"
	"github.com/akolanti/JobMatch/internal/domain/matchModel"
	"github.com/akolanti/JobMatch/internal/match"
	"github.com/akolanti/JobMatch/internal/metrics"
	"github.com/akolanti/JobMatch/internal/ocr"
	"github.com/akolanti/JobMatch/pkg/logger_i"
)

// Config carries every collaborator a Worker needs; nothing is looked up globally.
type Config struct {
	Detector ocr.TextDetector
	Engine   match.Engine
	Catalog  *catalog.Catalog
	Store    objectStore.ObjectStore
}

// Worker runs one ingestion per call. Calls share nothing but the read-only
// catalog, so any number may run at once.
type Worker struct {
	detector ocr.TextDetector
	engine   match.Engine
	catalog  *catalog.Catalog
	store    objectStore.ObjectStore
	logger   *logger_i.Logger
}

func NewWorker(cfg Config) *Worker {
	return &Worker{
		detector: cfg.Detector,
		engine:   cfg.Engine,
		catalog:  cfg.Catalog,
		store:    cfg.Store,
		logger:   logger_i.NewLogger("ingest_worker"),
	}
}

// Handle takes one created object to a terminal state. Failures are logged
// and returned so the trigger's redelivery policy decides what happens next;
// nothing is retried here and nothing is written on failure.
func (w *Worker) Handle(ctx context.Context, ref matchModel.ObjectRef) (outcome matchModel.Outcome, err error) {
	log := w.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "bucket", ref.Bucket, "key", ref.Key)
	outcome = matchModel.Outcome{Object: ref, State: matchModel.StateReceived}

	start := time.Now()
	defer func() {
		metrics.CaptureIngestOutcome(string(outcome.State))
		metrics.CaptureJobMetrics(string(outcome.State), time.Since(start))
	}()

	if Validate(ref.Key) == Skip {
		outcome.State = matchModel.StateSkipped
		log.Info("Skipping object that is not a resume")
		return outcome, nil
	}
	outcome.State = matchModel.StateValidated

	ingestCtx, cancel := context.WithTimeout(ctx, config.IngestTimeout)
	defer cancel()

	text, err := w.executeExtractStep(ingestCtx, ref)
	if err != nil {
		return w.fail(log, outcome, err)
	}
	outcome.State = matchModel.StateExtracted
	log.Debug("Extracted resume text", "chars", len(text))

	results, err := w.engine.Match(ingestCtx, text, w.catalog)
	if err != nil {
		return w.fail(log, outcome, err)
	}
	outcome.State = matchModel.StateMatched
	outcome.Matches = len(results)

	resultKey := ResultKey(ref.Key)
	if err := w.executePersistStep(ingestCtx, ref.Bucket, resultKey, results); err != nil {
		return w.fail(log, outcome, err)
	}
	outcome.State = matchModel.StatePersisted
	outcome.ResultKey = resultKey
	log.Info("Result persisted", "resultKey", resultKey, "matches", len(results))
	return outcome, nil
}

func (w *Worker) executeExtractStep(ctx context.Context, ref matchModel.ObjectRef) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("ocr", time.Since(start)) }()

	blocks, err := w.detector.DetectText(ctx, ref.Bucket, ref.Key)
	if err != nil {
		return "", matchModel.NewUpstreamError("ocr", err)
	}
	return AssembleText(blocks), nil
}

func (w *Worker) executePersistStep(ctx context.Context, bucket string, key string, results matchModel.RankedResultList) error {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("result_store", time.Since(start)) }()

	body, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	if err := w.store.Put(ctx, bucket, key, body, config.ResultContentType); err != nil {
		if !matchModel.IsStoreError(err) {
			err = &matchModel.StoreError{Op: "put", Key: key, Err: err}
		}
		return err
	}
	return nil
}

func (w *Worker) fail(log *logger_i.Logger, outcome matchModel.Outcome, err error) (matchModel.Outcome, error) {
	kind := matchModel.ErrorKind(err)
	log.Error("Ingestion failed", "state", outcome.State, "kind", kind, "error", err)
	metrics.CaptureIngestFailure(kind)
	outcome.State = matchModel.StateFailed
	return outcome, err
}
