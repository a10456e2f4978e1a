package service

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/impuestosrd/impuestosrd-api/internal/errors"
	"github.com/impuestosrd/impuestosrd-api/internal/models"
)

const (
	maxNombreLength   = 255
	maxEmailLength    = 255
	maxTelefonoLength = 20
	maxMensajeLength  = 5000
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	horaRegex  = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// ValidateCreateContactoRequest validates a contact form submission.
// Surrounding whitespace is trimmed in place.
func ValidateCreateContactoRequest(req *models.CreateContactoRequest) error {
	return validateContacto(req, true)
}

// ValidateLegacyContactoRequest validates a submission of the legacy form,
// where the message may be left empty.
func ValidateLegacyContactoRequest(req *models.CreateContactoRequest) error {
	return validateContacto(req, false)
}

func validateContacto(req *models.CreateContactoRequest, requireMensaje bool) error {
	req.Nombre = strings.TrimSpace(req.Nombre)
	req.Email = strings.TrimSpace(req.Email)
	req.Telefono = strings.TrimSpace(req.Telefono)
	req.Mensaje = strings.TrimSpace(req.Mensaje)

	required := map[string]string{
		"nombre": req.Nombre,
		"email":  req.Email,
	}
	message := "Nombre y email son requeridos"
	if requireMensaje {
		required["mensaje"] = req.Mensaje
		message = "Nombre, email y mensaje son requeridos"
	}

	if details := missingFields(required); len(details) > 0 {
		return &errors.ValidationError{Message: message, Details: details}
	}

	if err := validateEmail(req.Email); err != nil {
		return err
	}

	if utf8.RuneCountInString(req.Nombre) > maxNombreLength {
		return errors.NewValidationError("nombre", "Nombre demasiado largo")
	}

	if utf8.RuneCountInString(req.Telefono) > maxTelefonoLength {
		return errors.NewValidationError("telefono", "Teléfono demasiado largo")
	}

	if utf8.RuneCountInString(req.Mensaje) > maxMensajeLength {
		return errors.NewValidationError("mensaje", "Mensaje demasiado largo")
	}

	return nil
}

// ValidateCreateCitaRequest validates an appointment request.
func ValidateCreateCitaRequest(req *models.CreateCitaRequest) error {
	req.Nombre = strings.TrimSpace(req.Nombre)
	req.Email = strings.TrimSpace(req.Email)
	req.Telefono = strings.TrimSpace(req.Telefono)
	req.Fecha = strings.TrimSpace(req.Fecha)
	req.Hora = strings.TrimSpace(req.Hora)
	req.Mensaje = strings.TrimSpace(req.Mensaje)

	if req.Nombre == "" || req.Email == "" || req.Fecha == "" || req.Hora == "" {
		return &errors.ValidationError{
			Message: "Faltan campos obligatorios (nombre, email, fecha, hora)",
			Details: missingFields(map[string]string{
				"nombre": req.Nombre,
				"email":  req.Email,
				"fecha":  req.Fecha,
				"hora":   req.Hora,
			}),
		}
	}

	if err := validateEmail(req.Email); err != nil {
		return err
	}

	if err := ValidateFecha(req.Fecha); err != nil {
		return err
	}

	if !horaRegex.MatchString(req.Hora) {
		return errors.NewValidationError("hora", "Hora debe tener formato HH:MM")
	}

	if utf8.RuneCountInString(req.Nombre) > maxNombreLength {
		return errors.NewValidationError("nombre", "Nombre demasiado largo")
	}

	if utf8.RuneCountInString(req.Telefono) > maxTelefonoLength {
		return errors.NewValidationError("telefono", "Teléfono demasiado largo")
	}

	return nil
}

// ValidateFecha checks a YYYY-MM-DD calendar date.
func ValidateFecha(fecha string) error {
	if fecha == "" {
		return errors.NewValidationError("fecha", "Se requiere una fecha")
	}
	if _, err := time.Parse("2006-01-02", fecha); err != nil {
		return errors.NewValidationError("fecha", "Fecha debe tener formato AAAA-MM-DD")
	}
	return nil
}

func validateEmail(email string) error {
	if utf8.RuneCountInString(email) > maxEmailLength || !emailRegex.MatchString(email) {
		return errors.NewValidationError("email", "Formato de email inválido")
	}
	return nil
}

func missingFields(values map[string]string) map[string]string {
	details := make(map[string]string)
	for field, value := range values {
		if value == "" {
			details[field] = "requerido"
		}
	}
	return details
}
