package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// Envelope is the fixed JSON wrapper around every response body.
// Successes carry Data; failures carry Error.
type Envelope struct {
	OK    bool        `json:"ok"`
	Data  interface{} `json:"data,omitempty"`
	Error *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody is the machine-readable error half of the envelope. Clients
// branch on Code; Message is advisory text only.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondWithData writes a success envelope with the given status code.
func RespondWithData(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	respondJSON(w, status, Envelope{OK: true, Data: data})
}

// RespondWithError writes a failure envelope with the given status code,
// machine code and human message.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	respondJSON(w, status, Envelope{OK: false, Error: &ErrorBody{Code: code, Message: message}})
}

// RespondWithErrorAndLog writes a failure envelope and logs the underlying
// error. 5xx responses are logged at ERROR level; everything else at DEBUG,
// since client mistakes are routine.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	code, message string,
	err error,
) {
	logAttrs := []slog.Attr{
		slog.String("trace_id", GetTraceID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("error_code", code),
	}
	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", err.Error()),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	}
	slog.LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithError(w, r, status, code, message)
}

func respondJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}
