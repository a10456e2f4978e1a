package service

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/impuestosrd/impuestosrd-api/internal/errors"
	"github.com/impuestosrd/impuestosrd-api/internal/models"
)

// MsgSubtotalInvalido is reported when the subtotal is absent or not a number.
const MsgSubtotalInvalido = "Subtotal requerido y debe ser un número"

// MsgSubtotalFueraDeRango is reported when an amount would not fit a JSON number.
const MsgSubtotalFueraDeRango = "Subtotal demasiado grande para calcular"

var hundred = decimal.NewFromInt(100)

var calculationTypes = []models.TypeDescriptor{
	{
		ID:          "itbis",
		Nombre:      "ITBIS",
		Descripcion: "Impuesto sobre Transferencias de Bienes Industrializados y Servicios",
		Porcentaje:  18,
	},
	{
		ID:          "iva",
		Nombre:      "IVA",
		Descripcion: "Impuesto al Valor Agregado",
		Porcentaje:  18,
	},
	{
		ID:          "retencion",
		Nombre:      "Retención",
		Descripcion: "Retención en la fuente",
		Porcentaje:  10,
	},
}

// ListCalculationTypes returns the supported tax types in display order.
func ListCalculationTypes() []models.TypeDescriptor {
	out := make([]models.TypeDescriptor, len(calculationTypes))
	copy(out, calculationTypes)
	return out
}

// Calculate applies the requested percentages to the subtotal.
// Every percentage is taken from the original subtotal; retention is
// subtracted from the total.
func Calculate(req *models.CalculationRequest) (*models.CalculationResult, error) {
	if err := ValidateCalculationRequest(req); err != nil {
		return nil, err
	}

	subtotal := decimal.NewFromFloat(*req.Subtotal)

	itbis := applyRate(subtotal, req.AplicarITBIS, req.PorcentajeITBIS)
	iva := applyRate(subtotal, req.AplicarIVA, req.PorcentajeIVA)
	retencion := applyRate(subtotal, req.AplicarRetencion, req.PorcentajeRetencion)

	total := subtotal.Add(itbis).Add(iva).Sub(retencion).Round(2)

	res := &models.CalculationResult{
		Subtotal: subtotal.Round(2).InexactFloat64(),
		Impuestos: models.Impuestos{
			ITBIS:     itbis.InexactFloat64(),
			IVA:       iva.InexactFloat64(),
			Retencion: retencion.InexactFloat64(),
		},
		Total: total.InexactFloat64(),
	}

	for _, v := range []float64{res.Subtotal, res.Impuestos.ITBIS, res.Impuestos.IVA, res.Impuestos.Retencion, res.Total} {
		if !isFinite(v) {
			return nil, errors.NewValidationError("subtotal", MsgSubtotalFueraDeRango)
		}
	}

	return res, nil
}

// Details formats a result with exactly two decimals per amount.
func Details(res *models.CalculationResult) models.CalculationDetails {
	return models.CalculationDetails{
		Subtotal:  formatAmount(res.Subtotal),
		ITBIS:     formatAmount(res.Impuestos.ITBIS),
		IVA:       formatAmount(res.Impuestos.IVA),
		Retencion: formatAmount(res.Impuestos.Retencion),
		Total:     formatAmount(res.Total),
	}
}

// ValidateCalculationRequest checks the subtotal and every active percentage.
func ValidateCalculationRequest(req *models.CalculationRequest) error {
	if req == nil || req.Subtotal == nil {
		return errors.NewValidationError("subtotal", MsgSubtotalInvalido)
	}

	if !isFinite(*req.Subtotal) {
		return errors.NewValidationError("subtotal", "Subtotal debe ser un número finito")
	}

	if *req.Subtotal < 0 {
		return errors.NewValidationError("subtotal", "Subtotal no puede ser negativo")
	}

	if err := validatePercentage("porcentajeITBIS", req.AplicarITBIS, req.PorcentajeITBIS); err != nil {
		return err
	}
	if err := validatePercentage("porcentajeIVA", req.AplicarIVA, req.PorcentajeIVA); err != nil {
		return err
	}
	if err := validatePercentage("porcentajeRetencion", req.AplicarRetencion, req.PorcentajeRetencion); err != nil {
		return err
	}

	return nil
}

func validatePercentage(field string, active bool, pct *float64) error {
	if !active {
		return nil
	}

	if pct == nil {
		return errors.NewValidationError(field, "Porcentaje requerido cuando el impuesto aplica")
	}

	if !isFinite(*pct) || *pct < 0 || *pct > 100 {
		return errors.NewValidationError(field, "Porcentaje debe estar entre 0 y 100")
	}

	return nil
}

func applyRate(subtotal decimal.Decimal, active bool, pct *float64) decimal.Decimal {
	if !active {
		return decimal.Zero
	}
	return subtotal.Mul(decimal.NewFromFloat(*pct)).Div(hundred).Round(2)
}

func formatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
