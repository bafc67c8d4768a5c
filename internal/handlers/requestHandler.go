package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/akolanti/JobMatch/internal/adapter"
	"github.com/akolanti/JobMatch/internal/adapter/utils"
	"github.com/akolanti/JobMatch/internal/api"
	"github.com/akolanti/JobMatch/internal/config"
	"github.com/akolanti/JobMatch/internal/data/objectStore"
	"github.com/akolanti/JobMatch/internal/domain/matchModel"
	"github.com/akolanti/JobMatch/internal/ingest"
	"github.com/akolanti/JobMatch/internal/trigger"
	"github.com/akolanti/JobMatch/pkg/logger_i"
)

type Config struct {
	Ingester matchModel.Ingester
	Store    objectStore.ObjectStore
	Bucket   string
}

// Handler serves the webhook trigger and the result mailbox.
type Handler struct {
	ingester matchModel.Ingester
	store    objectStore.ObjectStore
	bucket   string
	logger   *logger_i.Logger
}

func NewHandler(cfg Config) *Handler {
	return &Handler{
		ingester: cfg.Ingester,
		store:    cfg.Store,
		bucket:   cfg.Bucket,
		logger:   logger_i.NewLogger("RequestHandler"),
	}
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}

// EventsHandler ingests every object named by an S3 event notification before
// answering. Any failed object makes the whole answer a 500 so the sender
// redelivers the event.
func (h *Handler) EventsHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r) {
		return
	}
	traceId := traceIdOf(r.Context())
	log := h.logger.With("traceId", traceId)

	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			log.Error("Couldn't close the events reader", "error", err)
		}
	}(r.Body)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, config.MaxEventBodySize))
	if err != nil {
		log.Warn("Unreadable event body", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, traceId, "Event body unreadable or too large")
		return
	}

	refs, err := trigger.ParseS3Event(body)
	if err != nil {
		log.Warn("Bad event", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, traceId, err.Error())
		return
	}

	status := http.StatusOK
	records := make([]api.RecordOutcome, 0, len(refs))
	for _, ref := range refs {
		outcome, err := h.ingester.Handle(r.Context(), ref)
		if err != nil || outcome.State == matchModel.StateFailed {
			status = http.StatusInternalServerError
		}
		records = append(records, adapter.ToRecordOutcome(outcome, err))
	}
	log.Info("Event processed", "records", len(records), "status", status)
	writeJsonResponse(w, status, adapter.ToEventResponse(traceId, records))
}

// GetResultHandler returns the stored match list for an uploaded resume, or
// 404 while it is still being processed.
func (h *Handler) GetResultHandler(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r) {
		return
	}
	filename := utils.GetChiURLParam(r, "filename")
	log := h.logger.With("traceId", traceIdOf(r.Context()), "filename", filename)

	if !validFilename(filename) {
		WriteErrorResponse(w, http.StatusBadRequest, filename, "Invalid filename")
		return
	}

	key := ingest.ResultKey(filename)
	body, err := h.store.Get(r.Context(), h.bucket, key)
	if errors.Is(err, objectStore.ErrObjectNotFound) {
		log.Debug("Result not ready", "key", key)
		writeJsonResponse(w, http.StatusNotFound, adapter.StillProcessing(filename))
		return
	}
	if err != nil {
		log.Error("Reading result failed", "key", key, "error", err)
		WriteErrorResponse(w, http.StatusBadGateway, filename, "Result store unavailable")
		return
	}

	w.Header().Set("Content-Type", config.ResultContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error("Error writing result", "error", err)
	}
}

func validFilename(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, "/\\")
}

func traceIdOf(ctx context.Context) string {
	trace, _ := ctx.Value(config.TRACE_ID_KEY).(string)
	return trace
}
