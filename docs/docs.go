// Package docs holds the Swagger document served under /swagger and registered
// with swag. It mirrors the annotations in cmd/impuestosrd and the handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/calculadora/calcular": {
            "post": {
                "description": "Applies ITBIS, IVA and retention percentages to a subtotal.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["calculadora"],
                "summary": "Calculate taxes",
                "parameters": [
                    {
                        "description": "Calculation input",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.CalculationRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.CalculationResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/calculadora/tipos": {
            "get": {
                "produces": ["application/json"],
                "tags": ["calculadora"],
                "summary": "List supported tax types",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/models.TypeDescriptor"}}
                    }
                }
            }
        },
        "/api/citas": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["citas"],
                "summary": "Book an appointment",
                "parameters": [
                    {
                        "description": "Appointment",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.CreateCitaRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/contacto": {
            "get": {
                "produces": ["application/json"],
                "tags": ["contacto"],
                "summary": "List contact messages, newest first",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Contacto"}}
                    }
                }
            }
        },
        "/api/contacto/enviar": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["contacto"],
                "summary": "Submit a contact message",
                "parameters": [
                    {
                        "description": "Contact form",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.CreateContactoRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/dgii/consultar-rnc": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["dgii"],
                "summary": "Look up a taxpayer by RNC",
                "parameters": [
                    {
                        "description": "RNC",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handlers.consultarRNCRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/facturas/subir": {
            "post": {
                "description": "Accepts PNG, JPEG, WEBP or PDF up to the configured size. The type is detected from the content.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["facturas"],
                "summary": "Upload an invoice file",
                "parameters": [
                    {
                        "type": "file",
                        "description": "Invoice file",
                        "name": "factura",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "details": {"type": "object", "additionalProperties": {"type": "string"}},
                "error": {"type": "string"}
            }
        },
        "handlers.consultarRNCRequest": {
            "type": "object",
            "properties": {
                "rnc": {"type": "string"}
            }
        },
        "models.CalculationDetails": {
            "type": "object",
            "properties": {
                "itbis": {"type": "string"},
                "iva": {"type": "string"},
                "retencion": {"type": "string"},
                "subtotal": {"type": "string"},
                "total": {"type": "string"}
            }
        },
        "models.CalculationRequest": {
            "type": "object",
            "properties": {
                "aplicarITBIS": {"type": "boolean"},
                "aplicarIVA": {"type": "boolean"},
                "aplicarRetencion": {"type": "boolean"},
                "porcentajeITBIS": {"type": "number"},
                "porcentajeIVA": {"type": "number"},
                "porcentajeRetencion": {"type": "number"},
                "subtotal": {"type": "number"},
                "tipoCalculo": {"type": "string"}
            }
        },
        "models.CalculationResponse": {
            "type": "object",
            "properties": {
                "calculo": {"$ref": "#/definitions/models.CalculationResult"},
                "detalles": {"$ref": "#/definitions/models.CalculationDetails"}
            }
        },
        "models.CalculationResult": {
            "type": "object",
            "properties": {
                "impuestos": {"$ref": "#/definitions/models.Impuestos"},
                "subtotal": {"type": "number"},
                "total": {"type": "number"}
            }
        },
        "models.Contacto": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "fecha_creacion": {"type": "string"},
                "id": {"type": "integer"},
                "mensaje": {"type": "string"},
                "nombre": {"type": "string"},
                "telefono": {"type": "string"}
            }
        },
        "models.CreateCitaRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "fecha": {"type": "string"},
                "hora": {"type": "string"},
                "mensaje": {"type": "string"},
                "nombre": {"type": "string"},
                "telefono": {"type": "string"}
            }
        },
        "models.CreateContactoRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "mensaje": {"type": "string"},
                "nombre": {"type": "string"},
                "telefono": {"type": "string"}
            }
        },
        "models.Impuestos": {
            "type": "object",
            "properties": {
                "itbis": {"type": "number"},
                "iva": {"type": "number"},
                "retencion": {"type": "number"}
            }
        },
        "models.TypeDescriptor": {
            "type": "object",
            "properties": {
                "descripcion": {"type": "string"},
                "id": {"type": "string"},
                "nombre": {"type": "string"},
                "porcentaje": {"type": "number"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "ImpuestosRD API",
	Description:      "Tax calculator, contact, invoice upload, appointment and DGII helper endpoints.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
