package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tamarind/backend/internal/interfaces/http/dto"
)

// Envelope is the {success, data, error, meta} body written by every handler,
// with Data decoded as T.
type Envelope[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   *dto.ErrorInfo `json:"error"`
	Meta    *dto.Meta      `json:"meta"`
}

// JSONResponseAs decodes the recorded body as an Envelope[T]
func JSONResponseAs[T any](t *testing.T, w *httptest.ResponseRecorder) Envelope[T] {
	t.Helper()

	var env Envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "Failed to parse JSON response: %s", w.Body.String())
	return env
}

// AssertSuccessResponse checks the status code and that the envelope reports
// success without an error object.
func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()

	require.Equal(t, status, w.Code, w.Body.String())
	env := JSONResponseAs[json.RawMessage](t, w)
	assert.True(t, env.Success, "Expected success to be true")
	assert.Nil(t, env.Error, "Expected no error")
}

// AssertErrorResponse checks the status code and the envelope's error code.
// The error is returned for further assertions on message or details.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, status int, code string) *dto.ErrorInfo {
	t.Helper()

	require.Equal(t, status, w.Code, w.Body.String())
	env := JSONResponseAs[json.RawMessage](t, w)
	assert.False(t, env.Success, "Expected success to be false")
	require.NotNil(t, env.Error, "Expected error object in response")
	assert.Equal(t, code, env.Error.Code, "Unexpected error code")
	return env.Error
}

// AssertFieldError checks that a 400 validation response names field
func AssertFieldError(t *testing.T, w *httptest.ResponseRecorder, field string) {
	t.Helper()

	info := AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	for _, d := range info.Details {
		if d.Field == field {
			return
		}
	}
	assert.Failf(t, "Missing field error", "no detail for %q in %+v", field, info.Details)
}
