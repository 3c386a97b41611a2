package handlers

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse writes a request-level JSON error, used when the whole batch
// is rejected before any record is processed. Per-record outcomes go through
// WriteJSON instead so sibling documents keep their individual results.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON serializes data, typically the per-record result list for an
// import batch or the ping payload, returning any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}
