package middleware

import (
	"bytes"
	"io"
	"net/http"
	"time"

	reqctx "aiso/tripdesk/internal/context"
	"aiso/tripdesk/internal/logging"
)

// bodies longer than this are truncated in debug logs
const maxLoggedBody = 4 << 10

type respLogger struct {
	http.ResponseWriter
	status int
	buf    *bytes.Buffer
}

func (l *respLogger) WriteHeader(code int) {
	l.status = code
	l.ResponseWriter.WriteHeader(code)
}

func (l *respLogger) Write(b []byte) (int, error) {
	if room := maxLoggedBody - l.buf.Len(); room > 0 {
		l.buf.Write(b[:min(len(b), room)])
	}
	return l.ResponseWriter.Write(b)
}

type splicedBody struct {
	io.Reader
	io.Closer
}

// Logging dumps request and response bodies at debug level. Enabled with DEBUG_HTTP.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody []byte
		if r.Body != nil {
			// only the logged prefix is buffered; the rest streams to the handler
			reqBody, _ = io.ReadAll(io.LimitReader(r.Body, maxLoggedBody+1))
			r.Body = splicedBody{Reader: io.MultiReader(bytes.NewReader(reqBody), r.Body), Closer: r.Body}
		}

		lw := &respLogger{ResponseWriter: w, status: http.StatusOK, buf: &bytes.Buffer{}}

		start := time.Now()
		next.ServeHTTP(lw, r)

		logging.Debug("HTTP exchange",
			"request_id", reqctx.GetRequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"request_body", string(reqBody[:min(len(reqBody), maxLoggedBody)]),
			"status_code", lw.status,
			"response_body", lw.buf.String(),
			"duration", time.Since(start).String(),
		)
	})
}
