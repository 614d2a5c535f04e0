package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dutytrip/internal/auth"
	"dutytrip/internal/repository"
	"dutytrip/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// ErrInvalidCode is a 404 with its generic message: the caller learns
	// only that no claimable trip matched, never why.
	case errors.Is(err, service.ErrInvalidCode),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidServiceTier),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrInvalidSecret):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrTripNotActive),
		errors.Is(err, service.ErrDuplicateCode),
		errors.Is(err, service.ErrNameTaken):
		return http.StatusConflict

	case errors.Is(err, service.ErrEndBeforeStart):
		return http.StatusUnprocessableEntity

	case errors.Is(err, service.ErrBadCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrTooManyAttempts):
		return http.StatusTooManyRequests

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
