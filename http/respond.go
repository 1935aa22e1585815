package http

import (
	"encoding/json"
	"net/http"
	"strings"
)

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FieldError describes one rejected form field.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func newFieldError(field, msg, kind string) *FieldError {
	return &FieldError{Loc: []string{"body", field}, Msg: msg, Type: kind}
}

func (e *FieldError) Field() string {
	return e.Loc[len(e.Loc)-1]
}

func (e *FieldError) Error() string {
	return e.Field() + ": " + e.Msg
}

// ValidationError is returned with status 422.
type ValidationError struct {
	Detail []*FieldError `json:"detail"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Detail))
	for i, field := range e.Detail {
		parts[i] = field.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}
