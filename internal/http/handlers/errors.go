package handlers

import (
	"net/http"

	"xcargo/internal/domain"
	"xcargo/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// RespondDomainError translates domain errors to HTTP statuses.
// Conflicts carry extra fields so the client can decide whether a
// confirmed retry makes sense.
func RespondDomainError(c *gin.Context, err error) {
	reqID := middleware.GetRequestID(c)

	if conflict, ok := domain.AsConflict(err); ok {
		payload := gin.H{
			"message":               conflict.Msg,
			"request_id":            reqID,
			"requiere_confirmacion": conflict.RequiereConfirmacion,
		}
		if conflict.Existing != nil {
			payload["existente"] = conflict.Existing
		}
		c.JSON(http.StatusConflict, payload)
		return
	}

	switch {
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error(), "request_id": reqID})
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error(), "request_id": reqID})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "error interno del servidor", "request_id": reqID, "error": err.Error()})
	}
}
