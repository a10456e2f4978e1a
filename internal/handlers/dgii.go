package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/impuestosrd/impuestosrd-api/internal/service"
)

type consultarRNCRequest struct {
	RNC string `json:"rnc"`
}

// ValidarRNC handles GET /api/dgii/validar-rnc/:rnc
func (h *Handlers) ValidarRNC(c *gin.Context) {
	rnc := c.Param("rnc")
	valido := service.ValidateRNC(rnc)

	mensaje := "RNC inválido"
	if valido {
		mensaje = "RNC válido"
	}

	c.JSON(http.StatusOK, gin.H{
		"rnc":     rnc,
		"valido":  valido,
		"mensaje": mensaje,
	})
}

// ConsultarRNC godoc
// @Summary  Look up a taxpayer by RNC
// @Tags     dgii
// @Accept   json
// @Produce  json
// @Param    request  body      consultarRNCRequest  true  "RNC"
// @Success  200      {object}  map[string]interface{}
// @Failure  400      {object}  ErrorResponse
// @Failure  404      {object}  ErrorResponse
// @Router   /api/dgii/consultar-rnc [post]
func (h *Handlers) ConsultarRNC(c *gin.Context) {
	var req consultarRNCRequest
	// A malformed body is treated like a missing RNC.
	_ = c.ShouldBindJSON(&req)

	contribuyente, err := service.ConsultarRNC(req.RNC, h.now())
	if err != nil {
		handleErrorWith(c, err, "RNC no encontrado", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    contribuyente,
		"mensaje": "RNC consultado exitosamente",
	})
}

// Categorias handles GET /api/dgii/categorias
func (h *Handlers) Categorias(c *gin.Context) {
	c.JSON(http.StatusOK, service.ListCategorias())
}

// Regimenes handles GET /api/dgii/regimenes
func (h *Handlers) Regimenes(c *gin.Context) {
	c.JSON(http.StatusOK, service.ListRegimenes())
}
