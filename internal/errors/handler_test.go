package errors

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorHandlerHandleError(t *testing.T) {
	handler := NewErrorHandler(slog.Default())

	t.Run("APIError maps to its status and code", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/series", nil)

		handler.HandleError(rec, req, New(http.StatusNotFound, "NO_DATASET", "No dataset loaded"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "json")

		body := decodeProblem(t, rec)
		assert.Equal(t, TypeNotFound, body["type"])
		assert.Equal(t, "Not Found", body["title"])
		assert.Equal(t, float64(http.StatusNotFound), body["status"])
		assert.Equal(t, "No dataset loaded", body["detail"])
		assert.Equal(t, "NO_DATASET", body["error_code"])
		assert.Equal(t, "/api/series", body["instance"])
	})

	t.Run("validation error carries field details", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/series", nil)

		handler.HandleError(rec, req, ErrValidation("country", "Query parameter 'country' is required"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeProblem(t, rec)
		assert.Equal(t, TypeValidation, body["type"])
		details, ok := body["details"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "country", details["field"])
	})

	t.Run("unknown errors become opaque 500s", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/series", nil)

		handler.HandleError(rec, req, errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeProblem(t, rec)
		assert.Equal(t, TypeInternal, body["type"])
		// Internal details never leak to the client.
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})

	t.Run("context cancellation maps to 504", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/series", nil)

		handler.HandleError(rec, req, context.DeadlineExceeded)

		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
		body := decodeProblem(t, rec)
		assert.Equal(t, TypeTimeout, body["type"])
	})

	t.Run("nil error writes nothing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/series", nil)

		handler.HandleError(rec, req, nil)
		assert.Empty(t, rec.Body.String())
	})
}

func TestProblemDetailsMarshalJSON(t *testing.T) {
	p := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", "bad input", "/api/series").
		WithExtension("error_code", "VALIDATION_FAILED")

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "VALIDATION_FAILED", body["error_code"])
	assert.Equal(t, "bad input", body["detail"])
	assert.Equal(t, float64(400), body["status"])
}
