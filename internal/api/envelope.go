package api

import (
	"errors"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shioriapp/shiori-server/internal/http/response"
)

// EnvelopeTransformer wraps every huma response body in response.Envelope,
// so huma routes and the plain chi handlers share one shape:
//
//	{"success": true, "data": ...}
//	{"success": false, "error": "...", "code": "...", "details": ...}
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if _, ok := v.(response.Envelope); ok {
		return v, nil
	}

	code, err := strconv.Atoi(status)
	if err != nil {
		return v, nil //nolint:nilerr // Non-numeric status ("default") is passed through.
	}

	if code < 400 {
		return response.Envelope{Success: true, Data: v}, nil
	}

	var apiErr *APIError
	if e, ok := v.(error); ok && errors.As(e, &apiErr) {
		return response.Envelope{
			Error:   apiErr.Message,
			Code:    apiErr.Code,
			Details: apiErr.Details,
		}, nil
	}

	if e, ok := v.(error); ok {
		_, env := response.Describe(e)
		return env, nil
	}

	return response.Envelope{Error: "request failed", Code: statusToCode(code)}, nil
}
