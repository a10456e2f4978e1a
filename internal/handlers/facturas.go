package handlers

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/impuestosrd/impuestosrd-api/internal/errors"
	"github.com/impuestosrd/impuestosrd-api/internal/logging"
	"github.com/impuestosrd/impuestosrd-api/internal/service"
)

const msgFacturaNoEncontrada = "Factura no encontrada"

// multipartOverhead leaves room for the multipart envelope around the file.
const multipartOverhead = 1 << 20

// UploadFactura godoc
// @Summary      Upload an invoice file
// @Description  Accepts PNG, JPEG, WEBP or PDF up to the configured size. The type is detected from the content.
// @Tags         facturas
// @Accept       multipart/form-data
// @Produce      json
// @Param        factura  formData  file  true  "Invoice file"
// @Success      201      {object}  map[string]interface{}
// @Failure      400      {object}  ErrorResponse
// @Router       /api/facturas/subir [post]
func (h *Handlers) UploadFactura(c *gin.Context) {
	maxSize := h.config.Storage.MaxUploadSize
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize+multipartOverhead)

	header, err := c.FormFile("factura")
	if err != nil {
		h.metrics.UploadRejected()
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			handleError(c, errors.NewValidationError("factura",
				fmt.Sprintf("El archivo excede el tamaño máximo de %dMB", maxSize/(1024*1024))))
			return
		}
		h.logger.Warn("Factura upload without file", logging.Fields{"error": err.Error()})
		handleError(c, errors.NewValidationError("factura", "No se subió archivo"))
		return
	}

	file, err := header.Open()
	if err != nil {
		handleError(c, err)
		return
	}
	defer file.Close()

	factura, err := h.facturaService.UploadFactura(c.Request.Context(), &service.Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Factura subida con éxito",
		"factura":  factura,
		"filePath": factura.Ruta,
	})
}

// ListFacturas handles GET /api/facturas
func (h *Handlers) ListFacturas(c *gin.Context) {
	facturas, err := h.facturaService.ListFacturas(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, facturas)
}

// GetFactura handles GET /api/facturas/:id
func (h *Handlers) GetFactura(c *gin.Context) {
	id, ok := facturaID(c)
	if !ok {
		return
	}

	factura, err := h.facturaService.GetFactura(c.Request.Context(), id)
	if err != nil {
		handleErrorWith(c, err, msgFacturaNoEncontrada, "")
		return
	}

	c.JSON(http.StatusOK, factura)
}

// DownloadFactura handles GET /api/facturas/:id/download
func (h *Handlers) DownloadFactura(c *gin.Context) {
	id, ok := facturaID(c)
	if !ok {
		return
	}

	url, factura, err := h.facturaService.DownloadURL(c.Request.Context(), id)
	if err != nil {
		handleErrorWith(c, err, msgFacturaNoEncontrada, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"downloadUrl": url,
		"factura":     factura,
	})
}

func facturaID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: msgFacturaNoEncontrada})
		return 0, false
	}
	return id, true
}
