package model

import (
	"encoding/json"
	"net/http"
)

// Error codes surfaced to the storefront. Provider detail never leaves the
// server; the client maps these to retry messaging.
const (
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
	ErrCodeUnsupportedImage  = "UNSUPPORTED_IMAGE"
	ErrCodeAnalysisFailed    = "ANALYSIS_FAILED"
	ErrCodeRenderFailed      = "RENDER_FAILED"
	ErrCodePaymentFailed     = "PAYMENT_FAILED"
	ErrCodePaymentUnverified = "PAYMENT_UNVERIFIED"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// ErrorResponse is the JSON envelope for every failed request.
type ErrorResponse struct {
	Success      bool   `json:"success"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// WriteJSON encodes a success payload.
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// WriteError encodes the standard error envelope.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, ErrorResponse{
		Success:      false,
		ErrorCode:    code,
		ErrorMessage: message,
	})
}
