// Package httpx provides JSON response envelopes shared by the API surface
// and the client pipeline. Every response carries a status and, on failure,
// an errorType code the client matcher dispatches on.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope statuses.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Envelope is the wire shape of every API response.
type Envelope struct {
	Status    string            `json:"status"`
	ErrorType string            `json:"errorType,omitempty"`
	Message   string            `json:"message,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
	Data      any               `json:"data,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Success sends a success envelope. A nil payload yields `{"status":"success"}`.
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Status: StatusSuccess, Data: data})
}

// Failure sends a failure envelope with an errorType code.
func Failure(w http.ResponseWriter, status int, errorType, message string) {
	JSON(w, status, Envelope{Status: StatusFailure, ErrorType: errorType, Message: message})
}

// FailureFields sends a failure envelope carrying per-field errors.
func FailureFields(w http.ResponseWriter, status int, errorType, message string, fields map[string]string) {
	JSON(w, status, Envelope{Status: StatusFailure, ErrorType: errorType, Message: message, Errors: fields})
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
