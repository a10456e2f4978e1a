package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/impuestosrd/impuestosrd-api/internal/errors"
	"github.com/impuestosrd/impuestosrd-api/internal/models"
)

const msgContactoNoEncontrado = "Contacto no encontrado"

// CreateContacto godoc
// @Summary  Submit a contact message
// @Tags     contacto
// @Accept   json
// @Produce  json
// @Param    request  body      models.CreateContactoRequest  true  "Contact form"
// @Success  201      {object}  map[string]interface{}
// @Failure  400      {object}  ErrorResponse
// @Router   /api/contacto/enviar [post]
func (h *Handlers) CreateContacto(c *gin.Context) {
	req, ok := h.bindContacto(c)
	if !ok {
		return
	}

	contacto, err := h.contactoService.CreateContacto(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Mensaje enviado exitosamente",
		"contacto": contacto,
	})
}

// CreateContactoLegacy handles POST /api/enviar-contacto, the form
// endpoint of the first website version. mensaje is optional there.
func (h *Handlers) CreateContactoLegacy(c *gin.Context) {
	req, ok := h.bindContacto(c)
	if !ok {
		return
	}

	if _, err := h.contactoService.CreateContactoLegacy(c.Request.Context(), req); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handlers) bindContacto(c *gin.Context) (*models.CreateContactoRequest, bool) {
	var req models.CreateContactoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, &errors.ValidationError{Message: "Cuerpo de la solicitud inválido"})
		return nil, false
	}
	return &req, true
}

// ListContactos godoc
// @Summary  List contact messages, newest first
// @Tags     contacto
// @Produce  json
// @Success  200  {array}  models.Contacto
// @Router   /api/contacto [get]
func (h *Handlers) ListContactos(c *gin.Context) {
	contactos, err := h.contactoService.ListContactos(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, contactos)
}

// GetContacto handles GET /api/contacto/:id
func (h *Handlers) GetContacto(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: msgContactoNoEncontrado})
		return
	}

	contacto, err := h.contactoService.GetContacto(c.Request.Context(), id)
	if err != nil {
		handleErrorWith(c, err, msgContactoNoEncontrado, "")
		return
	}

	c.JSON(http.StatusOK, contacto)
}
