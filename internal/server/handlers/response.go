// internal/server/handlers/response.go

package handlers

import (
	"encoding/json"
	"net/http"

	"resonance/internal/logger"
)

// errorResponse is the body of every non-2xx reply
type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses. Client errors carry the cause; server errors are logged instead.
func respondWithError(w http.ResponseWriter, log *logger.Logger, code int, message string, err error) {
	response := errorResponse{Error: message}

	if err != nil {
		if code >= 500 {
			log.Error("HTTP error", "code", code, "message", message, "error", err)
		} else {
			response.Detail = err.Error()
		}
	}

	respondWithJSON(w, code, response)
}

// decodeJSON decodes a request body, rejecting unknown fields
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
