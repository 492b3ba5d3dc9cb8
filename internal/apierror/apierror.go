// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ConflictError carries the structured data a client needs to resolve a
// domain conflict (which turno is already open, which mesas block a close)
// without a second round-trip.
type ConflictError struct {
	Detail string      `json:"detail"`
	Data   interface{} `json:"data,omitempty"`
}

func NewConflict(msg string, data interface{}) *ConflictError {
	return &ConflictError{Detail: msg, Data: data}
}

// ForbiddenError carries the data a client needs to explain who may perform
// the rejected action (e.g. which user opened the turno and must close it).
type ForbiddenError struct {
	Detail string      `json:"detail"`
	Data   interface{} `json:"data,omitempty"`
}

func NewForbidden(msg string, data interface{}) *ForbiddenError {
	return &ForbiddenError{Detail: msg, Data: data}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
