package utils

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope every endpoint returns. CurrentStatus and
// WaitTimeRemaining are populated only on state-conflict and cooldown errors
// so clients can reconcile without a follow-up read.
type Response struct {
	Success           bool   `json:"success"`
	Message           string `json:"message,omitempty"`
	Data              any    `json:"data,omitempty"`
	Error             string `json:"error,omitempty"`
	Errors            any    `json:"errors,omitempty"`
	CurrentStatus     string `json:"currentStatus,omitempty"`
	WaitTimeRemaining *int   `json:"waitTimeRemaining,omitempty"`
}

// ResponseJSON writes a JSON response with a custom status code
func ResponseJSON(w http.ResponseWriter, code int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(resp)
}

// ------------- Success responses -------------

// returns 200 OK
func ResponseSuccess(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

// returns 201 Created
func ResponseCreated(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

// ------------- Error responses -------------

// returns 400 Bad Request
func ResponseBadRequest(w http.ResponseWriter, message string, errors any) {
	ResponseJSON(w, http.StatusBadRequest, Response{Success: false, Error: message, Errors: errors})
}

// returns 400 Bad Request with the resolved entity status
func ResponseStateConflict(w http.ResponseWriter, message, currentStatus string) {
	ResponseJSON(w, http.StatusBadRequest, Response{Success: false, Error: message, CurrentStatus: currentStatus})
}

// returns 400 Bad Request with the remaining cooldown in seconds
func ResponseCooldown(w http.ResponseWriter, message string, remaining int) {
	ResponseJSON(w, http.StatusBadRequest, Response{Success: false, Error: message, WaitTimeRemaining: &remaining})
}

// returns 401 Unauthorized
func ResponseUnauthorized(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusUnauthorized, Response{Success: false, Error: message})
}

// returns 403 Forbidden
func ResponseForbidden(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusForbidden, Response{Success: false, Error: message})
}

// returns 404 Not Found
func ResponseNotFound(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusNotFound, Response{Success: false, Error: message})
}

// returns 500 Internal Server Error
func ResponseInternalError(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusInternalServerError, Response{Success: false, Error: message})
}
