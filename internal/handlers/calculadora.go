package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/impuestosrd/impuestosrd-api/internal/errors"
	"github.com/impuestosrd/impuestosrd-api/internal/models"
	"github.com/impuestosrd/impuestosrd-api/internal/service"
)

// Calcular godoc
// @Summary      Calculate taxes
// @Description  Applies ITBIS, IVA and retention percentages to a subtotal.
// @Tags         calculadora
// @Accept       json
// @Produce      json
// @Param        request  body      models.CalculationRequest  true  "Calculation input"
// @Success      200      {object}  models.CalculationResponse
// @Failure      400      {object}  ErrorResponse
// @Router       /api/calculadora/calcular [post]
func (h *Handlers) Calcular(c *gin.Context) {
	var req models.CalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !stderrors.Is(err, io.EOF) {
		h.metrics.CalculationRejected()
		handleError(c, bindError(err))
		return
	}

	result, err := service.Calculate(&req)
	if err != nil {
		h.metrics.CalculationRejected()
		handleError(c, err)
		return
	}
	h.metrics.CalculationSucceeded()

	c.JSON(http.StatusOK, models.CalculationResponse{
		Calculo:  *result,
		Detalles: service.Details(result),
	})
}

// TiposCalculo godoc
// @Summary  List supported tax types
// @Tags     calculadora
// @Produce  json
// @Success  200  {array}  models.TypeDescriptor
// @Router   /api/calculadora/tipos [get]
func (h *Handlers) TiposCalculo(c *gin.Context) {
	c.JSON(http.StatusOK, service.ListCalculationTypes())
}

// bindError turns a JSON decoding failure into a ValidationError.
func bindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		if typeErr.Field == "subtotal" {
			return errors.NewValidationError("subtotal", service.MsgSubtotalInvalido)
		}
		return errors.NewValidationError(typeErr.Field, "Valor con tipo inválido")
	}
	return &errors.ValidationError{Message: "Cuerpo de la solicitud inválido"}
}
