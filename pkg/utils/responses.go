package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// MessageBody is returned by endpoints that only acknowledge an action.
type MessageBody struct {
	Message string `json:"message"`
}

// ResponseJSON writes body as JSON with the given status code
func ResponseJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

// ResponseError writes an error body with the given status code
func ResponseError(w http.ResponseWriter, code int, errCode, message string, details map[string]any) {
	ResponseJSON(w, code, ErrorBody{
		Error:   message,
		Code:    errCode,
		Details: details,
	})
}

// ------------- Success responses -------------

// returns 200 OK
func ResponseSuccess(w http.ResponseWriter, body any) {
	ResponseJSON(w, http.StatusOK, body)
}

// returns 201 Created
func ResponseCreated(w http.ResponseWriter, body any) {
	ResponseJSON(w, http.StatusCreated, body)
}

// returns 200 OK with {"message": ...}
func ResponseMessage(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusOK, MessageBody{Message: message})
}

// ------------- Error responses -------------

// returns 400 Bad Request
func ResponseBadRequest(w http.ResponseWriter, message string, details map[string]any) {
	ResponseError(w, http.StatusBadRequest, "BAD_REQUEST", message, details)
}

// returns 401 Unauthorized
func ResponseUnauthorized(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusUnauthorized, "AUTH_REQUIRED", message, nil)
}

// returns 403 Forbidden
func ResponseForbidden(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusForbidden, "FORBIDDEN", message, nil)
}

// returns 404 Not Found
func ResponseNotFound(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusNotFound, "NOT_FOUND", message, nil)
}

// returns 500 Internal Server Error
func ResponseInternalError(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusInternalServerError, "INTERNAL_ERROR", message, nil)
}
