package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	err := WriteJSON(w, http.StatusOK, map[string]string{"hello": "world"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "world", body["hello"])
}

func TestErrorWriters(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter)
		status int
	}{
		{"validation", func(w http.ResponseWriter) { WriteValidationError(w, "name is required") }, http.StatusBadRequest},
		{"unauthorized", func(w http.ResponseWriter) { WriteUnauthorized(w, "unauthorized") }, http.StatusUnauthorized},
		{"forbidden", func(w http.ResponseWriter) { WriteForbidden(w, "forbidden") }, http.StatusForbidden},
		{"not found", func(w http.ResponseWriter) { WriteNotFoundError(w, "lead not found") }, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)
			assert.Equal(t, tt.status, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

// TestWriteInternalError_Generic confirms 500 responses never carry internal
// error detail.
func TestWriteInternalError_Generic(t *testing.T) {
	w := httptest.NewRecorder()
	WriteInternalError(w)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal error", body["error"])
}

func TestIsBrowserNavigation(t *testing.T) {
	r := httptest.NewRequest("GET", "/leads", nil)
	r.Header.Set("Accept", "text/html,application/xhtml+xml")
	assert.True(t, IsBrowserNavigation(r))

	r = httptest.NewRequest("GET", "/leads", nil)
	r.Header.Set("Accept", "application/json")
	assert.False(t, IsBrowserNavigation(r))

	r = httptest.NewRequest("GET", "/leads", nil)
	assert.False(t, IsBrowserNavigation(r))
}
