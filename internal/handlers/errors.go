package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/impuestosrd/impuestosrd-api/internal/errors"
	"github.com/impuestosrd/impuestosrd-api/internal/logging"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

func handleError(c *gin.Context, err error) {
	if validationErr, ok := errors.AsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   validationErr.Message,
			Details: validationErr.Details,
		})
		return
	}

	if errors.Is(err, errors.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Recurso no encontrado"})
		return
	}

	if errors.Is(err, errors.ErrConflict) {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Conflicto con un registro existente"})
		return
	}

	logging.Error("Unhandled error", logging.Fields{
		"path":  c.Request.URL.Path,
		"error": err,
	})
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Error interno del servidor"})
}

// handleErrorWith is handleError with a custom message for ErrNotFound
// and ErrConflict.
func handleErrorWith(c *gin.Context, err error, notFound, conflict string) {
	switch {
	case notFound != "" && errors.Is(err, errors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: notFound})
	case conflict != "" && errors.Is(err, errors.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: conflict})
	default:
		handleError(c, err)
	}
}
