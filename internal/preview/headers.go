package preview

import (
	"net/http"
	"time"
)

// Headers that must never reach a preview response. They carry admin
// session state or cache-busting signals.
var forbiddenHeaders = []string{
	"X-Cache-Invalidate",
	"X-CSRF-Token",
	"Set-Cookie",
}

// now is swapped in tests.
var now = time.Now

// FrontendHeaders enforces the frontend header contract on every response
// that passes through it, whichever branch wrote it: forbidden headers are
// stripped and a Date header is always present. A handler that returns
// without writing gets an empty 204 rather than net/http's implicit 200
// with the unscrubbed header map.
func FrontendHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hw := &hygieneWriter{ResponseWriter: w}
		next.ServeHTTP(hw, r)
		if !hw.wroteHeader {
			hw.Header().Set("Cache-Control", CacheControlNoCache)
			hw.WriteHeader(http.StatusNoContent)
		}
	})
}

type hygieneWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *hygieneWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		scrubHeaders(w.Header())
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *hygieneWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *hygieneWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func scrubHeaders(h http.Header) {
	for _, name := range forbiddenHeaders {
		h.Del(name)
	}
	if h.Get("Date") == "" {
		h.Set("Date", now().UTC().Format(http.TimeFormat))
	}
}
