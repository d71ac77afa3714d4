// Package jsonutil provides helper functions for API responses.
//
// Use these helpers in handlers so every endpoint sets Content-Type the same
// way. Plain-text bodies (tokens and fixed status messages) go through Text;
// structured bodies go through JSON.
package jsonutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// JSON writes a JSON response with the given status code.
//
// Usage:
//
//	jsonutil.JSON(w, http.StatusOK, map[string]any{
//	    "usuario": profile,
//	})
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Text writes a plain-text response with the given status code.
func Text(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// Messages writes a JSON array of messages. A nil slice is written as [].
func Messages(w http.ResponseWriter, status int, msgs []string) {
	if msgs == nil {
		msgs = []string{}
	}
	JSON(w, status, msgs)
}

// NoContent writes a 204 No Content response (no body).
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes an error response with the given status code.
// The response body is {"error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// Decode reads and decodes JSON from the request body into v.
//
// An empty body decodes as {}, leaving v at its zero value, so required-field
// checks report the missing fields. Type mismatches come back as
// *json.UnmarshalTypeError after the remaining fields are filled in.
//
// Usage:
//
//	var in loginInput
//	err := jsonutil.Decode(r, &in)
//	if inputval.IsDecodeFailure(err) {
//	    jsonutil.Text(w, http.StatusBadRequest, "JSON inválido")
//	    return
//	}
//	res := inputval.ValidateDecoded(in, err)
func Decode(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
