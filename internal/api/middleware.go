package api

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// responseRecorder keeps what the request log line needs.
type responseRecorder struct {
	http.ResponseWriter
	code    int
	written int
}

func (rr *responseRecorder) WriteHeader(code int) {
	if rr.code == 0 {
		rr.code = code
	}
	rr.ResponseWriter.WriteHeader(code)
}

func (rr *responseRecorder) Write(p []byte) (int, error) {
	if rr.code == 0 {
		rr.code = http.StatusOK
	}
	n, err := rr.ResponseWriter.Write(p)
	rr.written += n
	return n, err
}

// loggingMiddleware logs one line per request; 5xx responses log at warn.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rr := &responseRecorder{ResponseWriter: w}

		next.ServeHTTP(rr, r)

		entry := logrus.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.RequestURI(),
			"status": rr.code,
			"bytes":  rr.written,
			"dur_ms": time.Since(start).Milliseconds(),
		})

		if rr.code >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Info("request served")
	})
}
