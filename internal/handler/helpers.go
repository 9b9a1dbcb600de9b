package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"visiondash/internal/apperr"
	"visiondash/internal/logger"
	"visiondash/internal/review"
)

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, logger *logger.Logger, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding JSON response: %v", err)
	}
}

// writeError maps the error taxonomy onto HTTP status codes and sends a
// JSON error body the UI can show as a notification.
func writeError(w http.ResponseWriter, logger *logger.Logger, err error) {
	status := http.StatusInternalServerError
	switch apperr.CodeOf(err) {
	case apperr.CodeValidation, apperr.CodeInvalidState:
		status = http.StatusBadRequest
	case apperr.CodeEncoding:
		status = http.StatusUnprocessableEntity
	case apperr.CodeBackend, apperr.CodeUnknownFrame:
		status = http.StatusBadGateway
	}
	if errors.Is(err, review.ErrStaleLoad) {
		status = http.StatusConflict
	}

	logger.Error("Request failed: %v", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// atoiDefault parses a positive integer, falling back to def.
func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}
