package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/monitor/pkg/metrics"
)

// MetricsMiddleware wraps HTTP handlers to record request counts, latency
// and error classes per endpoint.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		ms := float64(time.Since(start).Microseconds()) / 1000
		code := strconv.Itoa(wrapped.statusCode)
		metrics.RecordHTTPRequest(endpoint, r.Method, code)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, code, ms)

		if wrapped.statusCode >= http.StatusBadRequest {
			errType := errorType(wrapped.statusCode)
			metrics.RecordErrorByEndpoint(endpoint, r.Method, errType)
			metrics.RecordErrorByType(errType, errorSeverity(wrapped.statusCode))
		}
	}
}

func errorType(code int) string {
	switch {
	case code == http.StatusServiceUnavailable:
		return "not_ready"
	case code >= http.StatusInternalServerError:
		return "server_error"
	case code == http.StatusNotFound:
		return "not_found"
	case code >= http.StatusBadRequest:
		return "client_error"
	default:
		return "unknown"
	}
}

func errorSeverity(code int) string {
	switch {
	case code == http.StatusServiceUnavailable:
		return "medium"
	case code >= http.StatusInternalServerError:
		return "high"
	case code >= http.StatusBadRequest:
		return "medium"
	default:
		return "low"
	}
}

// responseWriter captures the status code written by a handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}
	return n, nil
}
