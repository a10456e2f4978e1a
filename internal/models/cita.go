package models

import "time"

type CitaEstado string

const (
	CitaEstadoProgramada CitaEstado = "programada"
	CitaEstadoCancelada  CitaEstado = "cancelada"
)

// Cita is a booked consultation slot.
type Cita struct {
	ID            int64      `json:"id"`
	Nombre        string     `json:"nombre"`
	Email         string     `json:"email"`
	Telefono      *string    `json:"telefono"`
	Fecha         string     `json:"fecha"`
	Hora          string     `json:"hora"`
	Mensaje       *string    `json:"mensaje"`
	Estado        CitaEstado `json:"estado"`
	FechaCreacion time.Time  `json:"fecha_creacion"`
}

// CreateCitaRequest is the body of POST /api/citas.
type CreateCitaRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Telefono string `json:"telefono"`
	Fecha    string `json:"fecha"`
	Hora     string `json:"hora"`
	Mensaje  string `json:"mensaje"`
}
