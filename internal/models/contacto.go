package models

import "time"

// Contacto is a message left through the website contact form.
type Contacto struct {
	ID            int64     `json:"id"`
	Nombre        string    `json:"nombre"`
	Email         string    `json:"email"`
	Telefono      *string   `json:"telefono"`
	Mensaje       string    `json:"mensaje"`
	FechaCreacion time.Time `json:"fecha_creacion"`
}

// CreateContactoRequest is the body of POST /api/contacto/enviar.
type CreateContactoRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Telefono string `json:"telefono"`
	Mensaje  string `json:"mensaje"`
}
