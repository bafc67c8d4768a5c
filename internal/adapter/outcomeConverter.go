package adapter

import (
	"net/http"

	"github.com/akolanti/JobMatch/internal/api"
	"github.com/akolanti/JobMatch/internal/domain/matchModel"
)

func ToRecordOutcome(outcome matchModel.Outcome, err error) api.RecordOutcome {
	record := api.RecordOutcome{
		Bucket:    outcome.Object.Bucket,
		Key:       outcome.Object.Key,
		State:     string(outcome.State),
		ResultKey: outcome.ResultKey,
		Matches:   outcome.Matches,
	}
	if err != nil {
		record.Error = &api.OutgoingError{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
			Retry:   !matchModel.IsDomainError(err),
		}
	}
	return record
}

func ToEventResponse(traceId string, records []api.RecordOutcome) api.EventResponse {
	if records == nil {
		records = []api.RecordOutcome{}
	}
	return api.EventResponse{TraceId: traceId, Records: records}
}

func BadRequest(id string, error string, code int) api.ErrorResponse {
	return api.ErrorResponse{
		Id:     id,
		Status: api.StatusError,
		Error: &api.OutgoingError{
			Code:    code,
			Message: error,
			Retry:   code == http.StatusTooManyRequests,
		},
	}
}

func StillProcessing(filename string) api.ErrorResponse {
	return api.ErrorResponse{
		Id:     filename,
		Status: api.StatusStillProcessing,
		Error: &api.OutgoingError{
			Code:    http.StatusNotFound,
			Message: string(api.StatusStillProcessing),
			Retry:   true,
		},
	}
}
