package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON envelope every API error uses, so the dashboard
// can surface err.error regardless of which handler produced it.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RespondWithJSON writes payload as a JSON response with the given status.
// The payload is marshaled before headers are written so an encoding failure
// can still produce a 500 instead of a half-written body.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to encode response: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	body = append(body, '\n')
	_, err = w.Write(body)
	return err
}

// RespondWithError writes an ErrorResponse with the given status and message.
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}
