// Package httputil holds JSON response helpers shared by NCTIRS handlers.
package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON encodes data and writes it with the given status code.
// Encoding happens before anything is written, so when it fails the
// response is left untouched and the caller can still send an error.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	body = append(body, '\n')

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

// WriteError writes {"error": message} with the given status code.
func WriteError(w http.ResponseWriter, status int, message string) {
	// ErrorResponse always encodes.
	_ = WriteJSON(w, status, ErrorResponse{Error: message})
}
