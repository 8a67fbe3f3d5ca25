// Package types declares the JSON envelopes every API response uses.
package types

// SuccessEnvelope wraps successful payloads so every endpoint returns
// the same top-level shape.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error body. Details carries field-scoped
// validation maps when the error code allows them.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps APIError under a stable key.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
