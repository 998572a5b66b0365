// Package middleware provides HTTP middleware components for the bank API.
package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	//nolint:errcheck // Best effort response writing
	json.NewEncoder(w).Encode(errorResponse{StatusCode: status, Error: code, Message: message})
}

// statusRecorder remembers the status written through it, and the body
// too when body is non-nil
type statusRecorder struct {
	http.ResponseWriter
	body       *bytes.Buffer
	statusCode int
	written    bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
}

func newBodyRecorder(w http.ResponseWriter) *statusRecorder {
	sr := newStatusRecorder(w)
	sr.body = &bytes.Buffer{}
	return sr
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	sr.written = true
	if sr.body != nil {
		sr.body.Write(b)
	}
	return sr.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer
func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}
