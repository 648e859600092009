package server

import (
	"net/http"
	"time"
)

// statusResponseWriter captures status and bytes written for logging.
type statusResponseWriter struct {
	http.ResponseWriter
	status  int
	written int
}

func (w *statusResponseWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.written += n
	return n, err
}

func (w *statusResponseWriter) code() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func wrapWriter(w http.ResponseWriter) *statusResponseWriter {
	if srw, ok := w.(*statusResponseWriter); ok {
		return srw
	}
	return &statusResponseWriter{ResponseWriter: w}
}

// logRequests logs method, path, status, size and duration of each request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := wrapWriter(w)
		next.ServeHTTP(srw, r)
		s.opts.logger.LogRequest(r.Context(), r.Method, r.URL.Path, srw.code(), srw.written, time.Since(start))
	})
}

// instrument records request metrics under a fixed route label.
func (s *Server) instrument(route string, next http.Handler) http.Handler {
	m := s.opts.metrics
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.RequestStarted()
		srw := wrapWriter(w)
		next.ServeHTTP(srw, r)
		m.RecordRequest(route, r.Method, srw.code(), time.Since(start))
	})
}

// admit applies query admission and answers 429 when the limit is reached.
func (s *Server) admit(next http.Handler) http.Handler {
	rc := s.opts.admission
	if rc == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		release, err := rc.TryAcquire()
		if err != nil {
			if s.opts.metrics != nil {
				s.opts.metrics.RecordRejected()
			}
			w.Header().Set("Retry-After", "1")
			s.writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		defer release()
		next.ServeHTTP(w, r)
	})
}
