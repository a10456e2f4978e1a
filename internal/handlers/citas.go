package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/impuestosrd/impuestosrd-api/internal/errors"
	"github.com/impuestosrd/impuestosrd-api/internal/models"
)

const msgFranjaReservada = "Esa franja horaria ya está reservada. Por favor, elige otra."

// CreateCita godoc
// @Summary  Book an appointment
// @Tags     citas
// @Accept   json
// @Produce  json
// @Param    request  body      models.CreateCitaRequest  true  "Appointment"
// @Success  201      {object}  map[string]interface{}
// @Failure  400      {object}  ErrorResponse
// @Failure  409      {object}  ErrorResponse
// @Router   /api/citas [post]
func (h *Handlers) CreateCita(c *gin.Context) {
	var req models.CreateCitaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, &errors.ValidationError{Message: "Cuerpo de la solicitud inválido"})
		return
	}

	cita, err := h.citaService.CreateCita(c.Request.Context(), &req)
	if err != nil {
		handleErrorWith(c, err, "", msgFranjaReservada)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Cita agendada con éxito. Recibirás una confirmación por email.",
		"citaId":  cita.ID,
	})
}

// HorasOcupadas handles GET /api/citas?fecha=YYYY-MM-DD and returns the
// booked times of that date.
func (h *Handlers) HorasOcupadas(c *gin.Context) {
	fecha := c.Query("fecha")
	if fecha == "" {
		handleError(c, errors.NewValidationError("fecha",
			"Se requiere una fecha para consultar la disponibilidad de citas."))
		return
	}

	horas, err := h.citaService.HorasOcupadas(c.Request.Context(), fecha)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, horas)
}
