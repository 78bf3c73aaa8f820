package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/parkease/pkg/log"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name          string
		requestID     string
		status        int
		expectedLevel string
	}{
		{name: "generates request id", status: http.StatusOK, expectedLevel: "info"},
		{name: "keeps caller request id", requestID: "req-42", status: http.StatusOK, expectedLevel: "info"},
		{name: "client error logs warn", status: http.StatusNotFound, expectedLevel: "warn"},
		{name: "server error logs error", status: http.StatusInternalServerError, expectedLevel: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := gin.New()
			r.Use(RequestLogger(log.NewWithWriter("production", &buf)))
			r.GET("/health", func(c *gin.Context) { c.Status(tt.status) })

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			if tt.requestID != "" {
				req.Header.Set(RequestIDHeader, tt.requestID)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			requestID := w.Header().Get(RequestIDHeader)
			require.NotEmpty(t, requestID)
			if tt.requestID != "" {
				assert.Equal(t, tt.requestID, requestID)
			}

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.expectedLevel, entry["level"])
			assert.Equal(t, requestID, entry["request_id"])
			assert.Equal(t, "/health", entry["path"])
			assert.Equal(t, float64(tt.status), entry["status"])
		})
	}
}
