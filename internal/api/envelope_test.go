package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/shioriapp/shiori-server/internal/errors"
	"github.com/shioriapp/shiori-server/internal/http/response"
	"github.com/shioriapp/shiori-server/internal/store"
)

func TestEnvelopeTransformer(t *testing.T) {
	tests := []struct {
		name   string
		status string
		in     any
		want   any
	}{
		{
			name:   "success wraps data",
			status: "200",
			in:     map[string]int{"n": 1},
			want:   response.Envelope{Success: true, Data: map[string]int{"n": 1}},
		},
		{
			name:   "envelope passes through",
			status: "404",
			in:     response.Envelope{Error: "gone", Code: "NOT_FOUND"},
			want:   response.Envelope{Error: "gone", Code: "NOT_FOUND"},
		},
		{
			name:   "non-numeric status passes through",
			status: "default",
			in:     "raw",
			want:   "raw",
		},
		{
			name:   "api error",
			status: "400",
			in:     &APIError{status: 400, Code: "VALIDATION", Message: "bad", Details: map[string]string{"q": "is required"}},
			want:   response.Envelope{Error: "bad", Code: "VALIDATION", Details: map[string]string{"q": "is required"}},
		},
		{
			name:   "domain error",
			status: "409",
			in:     fmt.Errorf("signup: %w", domainerrors.AlreadyExists("email already registered")),
			want:   response.Envelope{Error: "email already registered", Code: "ALREADY_EXISTS"},
		},
		{
			name:   "unknown error body",
			status: "500",
			in:     struct{}{},
			want:   response.Envelope{Error: "request failed", Code: "INTERNAL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EnvelopeTransformer(nil, tt.status, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewAPIError(t *testing.T) {
	t.Run("domain error keeps its code", func(t *testing.T) {
		se := newAPIError(http.StatusInternalServerError, "unexpected", domainerrors.InvalidCredentials("invalid email or password"))
		assert.Equal(t, http.StatusUnauthorized, se.GetStatus())
		assert.Equal(t, "INVALID_CREDENTIALS", se.(*APIError).Code)
	})

	t.Run("store error maps by status", func(t *testing.T) {
		se := newAPIError(http.StatusInternalServerError, "unexpected", fmt.Errorf("get: %w", store.ErrNotFound))
		assert.Equal(t, http.StatusNotFound, se.GetStatus())
		assert.Equal(t, "NOT_FOUND", se.(*APIError).Code)
	})

	t.Run("huma field errors become details", func(t *testing.T) {
		se := newAPIError(http.StatusUnprocessableEntity, "validation failed",
			&huma.ErrorDetail{Location: "body.email", Message: "expected required property email to be present"},
			&huma.ErrorDetail{Location: "query.page", Message: "expected number <= 1000"},
		)
		apiErr := se.(*APIError)
		assert.Equal(t, http.StatusUnprocessableEntity, apiErr.GetStatus())
		assert.Equal(t, "VALIDATION", apiErr.Code)
		assert.Equal(t, map[string]string{
			"email": "expected required property email to be present",
			"page":  "expected number <= 1000",
		}, apiErr.Details)
	})

	t.Run("plain error is internal", func(t *testing.T) {
		se := newAPIError(http.StatusInternalServerError, "unexpected error occurred", errors.New("boom"))
		assert.Equal(t, "INTERNAL", se.(*APIError).Code)
		assert.Nil(t, se.(*APIError).Details)
	})
}

func TestStream_NotConfigured(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/stream")
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", decode[any](t, resp).Code)
}
