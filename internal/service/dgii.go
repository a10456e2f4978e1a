package service

import (
	"strings"
	"time"

	"github.com/impuestosrd/impuestosrd-api/internal/errors"
	"github.com/impuestosrd/impuestosrd-api/internal/models"
)

var rncWeights = [8]int{7, 9, 8, 6, 5, 4, 3, 2}

// contribuyentes is the local taxpayer directory served by ConsultarRNC.
var contribuyentes = map[string]models.Contribuyente{
	"131793916": {
		RNC:                    "131-79391-6",
		RazonSocial:            "EMPRESA EJEMPLO SRL",
		NombreComercial:        "EJEMPLO",
		Categoria:              "CONTRIBUYENTE NORMAL",
		Regimen:                "ORDINARIO",
		Estado:                 "ACTIVO",
		ActividadEconomica:     "COMERCIO AL POR MENOR",
		Direccion:              "CALLE EJEMPLO #123, SANTO DOMINGO",
		Telefono:               "809-555-0123",
		Email:                  "info@ejemplo.com",
		FechaConstitucion:      "2020-01-15",
		FechaInicioOperaciones: "2020-02-01",
	},
	"101234563": {
		RNC:                    "101-23456-3",
		RazonSocial:            "TECNOLOGIA AVANZADA SA",
		NombreComercial:        "TECNO AVANZADA",
		Categoria:              "GRAN CONTRIBUYENTE",
		Regimen:                "ESPECIAL",
		Estado:                 "ACTIVO",
		ActividadEconomica:     "DESARROLLO DE SOFTWARE",
		Direccion:              "AV. TECNOLOGIA #456, SANTO DOMINGO",
		Telefono:               "809-555-0456",
		Email:                  "contacto@tecnoavanzada.com",
		FechaConstitucion:      "2018-05-10",
		FechaInicioOperaciones: "2018-06-01",
	},
}

var categorias = []models.CatalogEntry{
	{ID: "normal", Nombre: "Contribuyente Normal", Descripcion: "Contribuyentes con ingresos anuales menores a RD$7,000,000"},
	{ID: "gran_contribuyente", Nombre: "Gran Contribuyente", Descripcion: "Contribuyentes con ingresos anuales mayores a RD$7,000,000"},
	{ID: "regimen_simplificado", Nombre: "Régimen Simplificado", Descripcion: "Pequeños contribuyentes con ingresos anuales hasta RD$500,000"},
	{ID: "no_residente", Nombre: "No Residente", Descripcion: "Contribuyentes no residentes en territorio dominicano"},
}

var regimenes = []models.CatalogEntry{
	{ID: "ordinario", Nombre: "Régimen Ordinario", Descripcion: "Régimen tributario general"},
	{ID: "especial", Nombre: "Régimen Especial", Descripcion: "Régimen para grandes contribuyentes"},
	{ID: "simplificado", Nombre: "Régimen Simplificado", Descripcion: "Régimen para pequeños contribuyentes"},
}

// NormalizeRNC strips dashes and whitespace.
func NormalizeRNC(rnc string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, rnc)
}

// ValidateRNC reports whether rnc is a 9-digit RNC with a correct check digit.
func ValidateRNC(rnc string) bool {
	clean := NormalizeRNC(rnc)
	if len(clean) != 9 {
		return false
	}

	var digits [9]int
	for i, r := range clean {
		if r < '0' || r > '9' {
			return false
		}
		digits[i] = int(r - '0')
	}

	sum := 0
	for i, w := range rncWeights {
		sum += digits[i] * w
	}

	remainder := sum % 11
	check := 11 - remainder
	if remainder < 2 {
		check = remainder
	}

	return check == digits[8]
}

// ConsultarRNC looks a taxpayer up by RNC.
func ConsultarRNC(rnc string, now time.Time) (*models.Contribuyente, error) {
	if strings.TrimSpace(rnc) == "" {
		return nil, errors.NewValidationError("rnc", "RNC es requerido")
	}

	if !ValidateRNC(rnc) {
		return nil, errors.NewValidationError("rnc", "RNC inválido")
	}

	c, ok := contribuyentes[NormalizeRNC(rnc)]
	if !ok {
		return nil, errors.ErrNotFound
	}

	c.UltimaActualizacion = now.UTC().Format(time.RFC3339)
	return &c, nil
}

// ListCategorias returns the taxpayer categories.
func ListCategorias() []models.CatalogEntry {
	out := make([]models.CatalogEntry, len(categorias))
	copy(out, categorias)
	return out
}

// ListRegimenes returns the tax regimes.
func ListRegimenes() []models.CatalogEntry {
	out := make([]models.CatalogEntry, len(regimenes))
	copy(out, regimenes)
	return out
}
