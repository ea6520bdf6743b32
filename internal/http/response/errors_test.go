package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriters(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter)
		status int
		code   string
	}{
		{"bad request", func(w http.ResponseWriter) { BadRequest(w, "bad") }, http.StatusBadRequest, CodeInvalidInput},
		{"unauthorized", func(w http.ResponseWriter) { Unauthorized(w, "bad") }, http.StatusUnauthorized, CodeUnauthorized},
		{"forbidden", func(w http.ResponseWriter) { Forbidden(w, "bad") }, http.StatusForbidden, CodeForbidden},
		{"not found", func(w http.ResponseWriter) { NotFound(w, "bad") }, http.StatusNotFound, CodeNotFound},
		{"internal", func(w http.ResponseWriter) { InternalError(w, "bad") }, http.StatusInternalServerError, CodeInternalError},
		{"rate limit", func(w http.ResponseWriter) { RateLimit(w, "bad") }, http.StatusTooManyRequests, CodeRateLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, ErrorResponse{Error: "bad", Code: tt.code}, body)
		})
	}
}
