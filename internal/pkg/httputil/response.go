package httputil

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/ignite/preview-resolver/internal/pkg/logger"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"
)

// ErrorResponse is the standard error envelope for JSON errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("httputil: JSON encode failed", "error", err)
	}
}

// OK writes a 200 JSON response with the given data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// HTML writes an HTML page with the given status code.
func HTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	if _, err := io.WriteString(w, body); err != nil {
		logger.Warn("httputil: HTML write failed", "error", err)
	}
}

// Text writes a plain-text body with the given status code.
func Text(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", contentTypeText)
	w.WriteHeader(status)
	if _, err := io.WriteString(w, body); err != nil {
		logger.Warn("httputil: text write failed", "error", err)
	}
}

// Redirect writes a redirect with a plain-text body naming the target,
// e.g. "Found. Redirecting to /ghost/". Location is written verbatim.
func Redirect(w http.ResponseWriter, status int, location string) {
	w.Header().Set("Location", location)
	Text(w, status, http.StatusText(status)+". Redirecting to "+location)
}

// NotFound writes a plain-text 404.
func NotFound(w http.ResponseWriter) {
	Text(w, http.StatusNotFound, "Not Found")
}

// InternalError logs err and writes a generic 500. Internal details never
// reach the client.
func InternalError(w http.ResponseWriter, err error) {
	logger.Error("httputil: internal error", "error", err)
	Text(w, http.StatusInternalServerError, "Internal Server Error")
}
