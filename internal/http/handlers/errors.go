package handlers

import (
	"net/http"

	"busline/internal/domain"
	"busline/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error":      message,
		"code":       code,
		"request_id": middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses. Precondition
// failures (invalid transition, conflicts) are client-visible 4xx outcomes,
// never 500s.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err), domain.IsMalformedTicket(err), domain.IsIneligibleState(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error())
	case domain.IsInvalidTransition(err), domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}
