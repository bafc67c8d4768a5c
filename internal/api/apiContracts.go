package api

type ExternalStatus string

const (
	StatusError           ExternalStatus = "Error"
	StatusStillProcessing ExternalStatus = "still processing"
)

type OutgoingError struct {
	Code    int    `json:"code" example:"404"`
	Message string `json:"message" example:"still processing"`
	Retry   bool   `json:"can_retry" example:"true"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Id     string         `json:"id,omitempty"`
	Status ExternalStatus `json:"status"`
	Error  *OutgoingError `json:"error"`
}

type RecordOutcome struct {
	Bucket    string         `json:"bucket"`
	Key       string         `json:"key"`
	State     string         `json:"state"`
	ResultKey string         `json:"result_key,omitempty"`
	Matches   int            `json:"matches,omitempty"`
	Error     *OutgoingError `json:"error,omitempty"`
}

// EventResponse answers POST /events with one entry per announced object.
type EventResponse struct {
	TraceId string          `json:"trace_id"`
	Records []RecordOutcome `json:"records"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
