package httpx

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"elearn-system/internal/models"
)

type ErrorResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// WriteJSON sends a JSON body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// WriteError maps a service error onto an HTTP status code and sends a
// structured error body.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, models.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrInvalid):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
	}

	WriteJSON(w, status, ErrorResponse{Message: err.Error(), Success: false})
}
