// Package httpx provides helpers for the JSON response envelope used by all
// API endpoints: {"status":"success"|"fail"|"error", ...}.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope statuses. "fail" covers user-correctable conditions, "error"
// covers server faults; the distinction is part of the client contract.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// UnauthorizedMessage is the single message returned for every token
// verification failure, regardless of subtype.
const UnauthorizedMessage = "Invalid or expired token"

// FailBody is the payload shape for fail and error responses.
type FailBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Fail sends a fail envelope with the given message.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, FailBody{Status: StatusFail, Message: message})
}

// Error sends the generic server-fault envelope. Internal detail never
// reaches the caller; log it where the error is caught.
func Error(w http.ResponseWriter) {
	JSON(w, http.StatusInternalServerError, FailBody{Status: StatusError, Message: "Server Error"})
}

// DecodeJSON decodes the JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
