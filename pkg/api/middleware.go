package api

import (
	"log"
	"net/http"
	"time"
)

// Middleware wraps a handler with one cross-cutting concern
type Middleware func(http.HandlerFunc) http.HandlerFunc

// Chain applies middlewares around a handler, first listed outermost
func Chain(handler http.HandlerFunc, middlewares ...Middleware) http.HandlerFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

// LoggingMiddleware writes one line per completed request: method, path,
// status, latency, and caller address. Render processing logs its own
// progress, so the request log stays one line per call.
func LoggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		log.Printf("%s %s -> %d in %v (%s)",
			r.Method, r.URL.Path, rec.status, time.Since(started), r.RemoteAddr)
	}
}

// CORSMiddleware answers preflight requests and marks responses for
// browser callers. X-API-Key is allowed through so browser clients can
// authenticate renders with a key instead of a bearer token.
func CORSMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}

// RecoveryMiddleware turns a panicking handler into a 500 response
// instead of a dropped connection
func RecoveryMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, v)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"internal_server_error","message":"Internal server error"}`))
			}
		}()

		next(w, r)
	}
}

// statusRecorder captures the status code a handler writes
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}
