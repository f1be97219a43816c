package handlers

import (
	"errors"
	"net/http"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/analytics/period"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/assistant"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEditWindowClosed):
		return http.StatusConflict
	case domain.IsValidation(err),
		errors.Is(err, period.ErrInvalidRange),
		errors.Is(err, period.ErrInvalidPeriod),
		errors.Is(err, assistant.ErrEmptyQuestion):
		return http.StatusBadRequest
	case errors.Is(err, assistant.ErrDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error, message string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg(message)
	}
	c.JSON(status, gin.H{"error": message, "details": err.Error()})
}

func badRequest(c *gin.Context, message string, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message, "details": err.Error()})
}
