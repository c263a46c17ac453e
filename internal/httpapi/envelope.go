// Package httpapi defines the JSON envelope every API response is wrapped in.
package httpapi

import (
	"encoding/json"
	"net/http"
)

// Meta carries optional pagination metadata.
type Meta struct {
	Skip  int `json:"skip,omitempty"`
	Limit int `json:"limit,omitempty"`
	Count int `json:"count"`
}

// Error represents a standardized API error payload.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Envelope is the standard response wrapper for API endpoints.
type Envelope struct {
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Meta  *Meta  `json:"meta,omitempty"`
	Error *Error `json:"error,omitempty"`
}

func OKEnvelope(data any, meta *Meta) Envelope {
	return Envelope{OK: true, Data: data, Meta: meta}
}

func ErrorEnvelope(code, message string, details any) Envelope {
	return Envelope{OK: false, Error: &Error{Code: code, Message: message, Details: details}}
}

// WriteJSON writes env with the given status. pretty indents the output.
func WriteJSON(w http.ResponseWriter, status int, env Envelope, pretty bool) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(env)
}

func WriteOK(w http.ResponseWriter, status int, data any, meta *Meta, pretty bool) error {
	return WriteJSON(w, status, OKEnvelope(data, meta), pretty)
}

func WriteError(w http.ResponseWriter, status int, code, message string, details any) error {
	return WriteJSON(w, status, ErrorEnvelope(code, message, details), false)
}

const (
	ErrInvalidRequest   = "invalid_request"
	ErrUnauthorized     = "unauthorized"
	ErrForbidden        = "forbidden"
	ErrNotFound         = "not_found"
	ErrMethodNotAllowed = "method_not_allowed"
	ErrInternal         = "internal_error"
)
