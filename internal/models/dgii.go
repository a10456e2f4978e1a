package models

// Contribuyente is the registry record of a taxpayer identified by RNC.
type Contribuyente struct {
	RNC                    string `json:"rnc"`
	RazonSocial            string `json:"razon_social"`
	NombreComercial        string `json:"nombre_comercial"`
	Categoria              string `json:"categoria"`
	Regimen                string `json:"regimen"`
	Estado                 string `json:"estado"`
	ActividadEconomica     string `json:"actividad_economica"`
	Direccion              string `json:"direccion"`
	Telefono               string `json:"telefono"`
	Email                  string `json:"email"`
	FechaConstitucion      string `json:"fecha_constitucion"`
	FechaInicioOperaciones string `json:"fecha_inicio_operaciones"`
	UltimaActualizacion    string `json:"ultima_actualizacion"`
}

// CatalogEntry is an item of a static DGII catalog.
type CatalogEntry struct {
	ID          string `json:"id"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
}
