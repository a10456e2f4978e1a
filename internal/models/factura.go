package models

import "time"

// Factura is an uploaded invoice file and its metadata.
type Factura struct {
	ID             int64     `json:"id"`
	NombreOriginal string    `json:"nombre_original"`
	NombreArchivo  string    `json:"nombre_archivo"`
	ContentType    string    `json:"content_type"`
	Tamano         int64     `json:"tamano"`
	Ruta           string    `json:"ruta"`
	FechaSubida    time.Time `json:"fecha_subida"`
}
