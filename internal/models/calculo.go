package models

// CalculationRequest is the body of POST /api/calculadora/calcular.
// Amounts are pointers so a missing value can be told apart from zero.
type CalculationRequest struct {
	Subtotal            *float64 `json:"subtotal"`
	TipoCalculo         string   `json:"tipoCalculo,omitempty"`
	AplicarITBIS        bool     `json:"aplicarITBIS"`
	AplicarIVA          bool     `json:"aplicarIVA"`
	AplicarRetencion    bool     `json:"aplicarRetencion"`
	PorcentajeITBIS     *float64 `json:"porcentajeITBIS,omitempty"`
	PorcentajeIVA       *float64 `json:"porcentajeIVA,omitempty"`
	PorcentajeRetencion *float64 `json:"porcentajeRetencion,omitempty"`
}

// Impuestos holds the itemized tax amounts of a calculation.
type Impuestos struct {
	ITBIS     float64 `json:"itbis"`
	IVA       float64 `json:"iva"`
	Retencion float64 `json:"retencion"`
}

// CalculationResult is the outcome of a tax calculation.
// Total = Subtotal + ITBIS + IVA - Retencion.
type CalculationResult struct {
	Subtotal  float64   `json:"subtotal"`
	Impuestos Impuestos `json:"impuestos"`
	Total     float64   `json:"total"`
}

// CalculationDetails repeats a result with two fixed decimals for display.
type CalculationDetails struct {
	Subtotal  string `json:"subtotal"`
	ITBIS     string `json:"itbis"`
	IVA       string `json:"iva"`
	Retencion string `json:"retencion"`
	Total     string `json:"total"`
}

// CalculationResponse is the body returned by the calculator endpoint.
type CalculationResponse struct {
	Calculo  CalculationResult  `json:"calculo"`
	Detalles CalculationDetails `json:"detalles"`
}

// TypeDescriptor describes one supported tax type.
type TypeDescriptor struct {
	ID          string  `json:"id"`
	Nombre      string  `json:"nombre"`
	Descripcion string  `json:"descripcion"`
	Porcentaje  float64 `json:"porcentaje"`
}
