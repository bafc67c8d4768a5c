package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/akolanti/JobMatch/internal/adapter"
	"github.com/akolanti/JobMatch/pkg/logger_i"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers are already out
		logger_i.NewLogger("RequestHandler").Error("Error encoding response", "error", err)
	}
}

func (h *Handler) validateContext(r *http.Request) bool {
	if err := r.Context().Err(); err != nil {
		h.logger.Warn("Invalid Context by request", "remote", r.RemoteAddr, "error", err, "traceId", traceIdOf(r.Context()))
		return false
	}
	return true
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}
