// Package respond writes the service's JSON response envelope:
// {success, message?, data?, count?, page?, pages?, errors?}.
package respond

import (
	"encoding/json"
	"net/http"
)

// FieldError reports a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Envelope is the wire shape of every response.
type Envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Count   *int         `json:"count,omitempty"`
	Page    *int         `json:"page,omitempty"`
	Pages   *int         `json:"pages,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// JSON writes an arbitrary envelope with the given status.
func JSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// OK writes a 200 with data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// OKMessage writes a 200 with a message and optional data.
func OKMessage(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created writes a 201 with a message and data.
func Created(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Page writes a 200 with data plus pagination metadata.
func Page(w http.ResponseWriter, data any, count, page, pages int) {
	JSON(w, http.StatusOK, Envelope{
		Success: true,
		Data:    data,
		Count:   &count,
		Page:    &page,
		Pages:   &pages,
	})
}

// Error writes a failure envelope with the given status and message.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Success: false, Message: message})
}

// ValidationFailed writes a 400 with field-level errors.
func ValidationFailed(w http.ResponseWriter, errs []FieldError) {
	JSON(w, http.StatusBadRequest, Envelope{
		Success: false,
		Message: "Validation failed",
		Errors:  errs,
	})
}
