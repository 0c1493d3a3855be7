// Package client implements the outbound API pipeline: a request performer
// wrapped by composable middleware, and a first-match-wins matcher that
// routes response shapes to side effects. Store and alert dependencies are
// injected explicitly; nothing here reaches for globals.
package client

import "encoding/json"

// Envelope statuses mirrored from the server wire format.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Response is the decoded API response the pipeline operates on.
type Response struct {
	Status     string            `json:"status"`
	ErrorType  string            `json:"errorType,omitempty"`
	Message    string            `json:"message,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
	Data       json.RawMessage   `json:"data,omitempty"`
	StatusCode int               `json:"-"`

	// AlertHandled marks the response as already alerted so later pipeline
	// layers do not alert twice.
	AlertHandled bool `json:"-"`
}

// OK reports whether the response carries a success status.
func (r *Response) OK() bool {
	return r.Status == StatusSuccess
}
