package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/JobMatch/internal/metrics"
	"github.com/akolanti/JobMatch/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

// Middleware traces and rate limits every request and records its status.
type Middleware struct {
	limiter *IPRateLimiter
}

func New(limiter *IPRateLimiter) *Middleware {
	if limiter == nil {
		limiter = DefaultIPRateLimiter()
	}
	return &Middleware{limiter: limiter}
}

func (m *Middleware) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		re := m.processRequest(requestResponseStruct{req: r, writer: rec})

		if !handleBadRequest(re) {
			next(rec, re.req)
		}
		metrics.HttpRequestsTotal.WithLabelValues(routeLabel(r), strconv.Itoa(rec.Status)).Inc()
	}
}

// routeLabel keeps one series per route so path parameters don't grow the label set.
func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

func (m *Middleware) processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		return re
	}
	re.logger.Info("New request received", "method", re.req.Method, "path", re.req.URL.Path)
	return m.rateLimiter(re)
}
