package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impuestosrd/impuestosrd-api/internal/config"
	"github.com/impuestosrd/impuestosrd-api/internal/events"
	"github.com/impuestosrd/impuestosrd-api/internal/metrics"
	"github.com/impuestosrd/impuestosrd-api/internal/repository"
	"github.com/impuestosrd/impuestosrd-api/internal/service"
	"github.com/impuestosrd/impuestosrd-api/internal/storage"
)

type fakePinger struct {
	err error
}

func (p fakePinger) PingContext(context.Context) error { return p.err }

func newTestHandlers(t *testing.T, db Pinger) *Handlers {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Storage: config.StorageConfig{
			UploadDir:     t.TempDir(),
			PublicPath:    "/uploads",
			MaxUploadSize: 1024 * 1024,
		},
	}

	store, err := storage.NewLocalFileStore(cfg.Storage.UploadDir, cfg.Storage.PublicPath)
	require.NoError(t, err)

	m := metrics.New()
	publisher := events.NewMockEventPublisher()

	h := NewHandlers(
		service.NewContactoService(repository.NewMemoryContactoRepository(), repository.NewMemoryContactoCache(time.Minute), publisher, m),
		service.NewFacturaService(repository.NewMemoryFacturaRepository(), store, publisher, m, cfg.Storage.MaxUploadSize),
		service.NewCitaService(repository.NewMemoryCitaRepository(), m),
		db,
		m,
		cfg,
	)
	h.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	return h
}

func newTestRouter(h *Handlers) *gin.Engine {
	r := gin.New()
	r.GET("/", h.Root)
	r.GET("/ready", h.Ready)

	api := r.Group("/api")
	api.POST("/calculadora/calcular", h.Calcular)
	api.GET("/calculadora/tipos", h.TiposCalculo)
	api.POST("/contacto/enviar", h.CreateContacto)
	api.GET("/contacto", h.ListContactos)
	api.GET("/contacto/:id", h.GetContacto)
	api.POST("/enviar-contacto", h.CreateContactoLegacy)
	api.POST("/facturas/subir", h.UploadFactura)
	api.GET("/facturas", h.ListFacturas)
	api.GET("/facturas/:id", h.GetFactura)
	api.GET("/facturas/:id/download", h.DownloadFactura)
	api.POST("/citas", h.CreateCita)
	api.GET("/citas", h.HorasOcupadas)
	api.GET("/dgii/validar-rnc/:rnc", h.ValidarRNC)
	api.POST("/dgii/consultar-rnc", h.ConsultarRNC)
	api.GET("/dgii/categorias", h.Categorias)
	api.GET("/dgii/regimenes", h.Regimenes)
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealth(t *testing.T) {
	h := newTestHandlers(t, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	decode(t, w, &resp)
	assert.Equal(t, "OK", resp["status"])
	assert.Equal(t, "2026-10-19T12:00:00Z", resp["timestamp"])
}

func TestLive(t *testing.T) {
	h := newTestHandlers(t, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.Live(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoot(t *testing.T) {
	r := newTestRouter(newTestHandlers(t, nil))

	w := doJSON(r, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"API ImpuestosRD backend ready"}`, w.Body.String())
}

func TestReady(t *testing.T) {
	tests := []struct {
		name string
		db   Pinger
		want int
	}{
		{"no database", nil, http.StatusOK},
		{"database up", fakePinger{}, http.StatusOK},
		{"database down", fakePinger{err: errors.New("connection refused")}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(newTestHandlers(t, tt.db))
			assert.Equal(t, tt.want, doJSON(r, http.MethodGet, "/ready", "").Code)
		})
	}
}

func TestCalcular(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		itbis     float64
		iva       float64
		retencion float64
		total     float64
	}{
		{
			name:  "no taxes",
			body:  `{"subtotal":1000}`,
			total: 1000,
		},
		{
			name:  "itbis",
			body:  `{"subtotal":1000,"aplicarITBIS":true,"porcentajeITBIS":18}`,
			itbis: 180,
			total: 1180,
		},
		{
			name:  "itbis and iva",
			body:  `{"subtotal":1000,"aplicarITBIS":true,"porcentajeITBIS":18,"aplicarIVA":true,"porcentajeIVA":18}`,
			itbis: 180,
			iva:   180,
			total: 1360,
		},
		{
			name:      "itbis and retencion",
			body:      `{"subtotal":1000,"aplicarITBIS":true,"porcentajeITBIS":18,"aplicarRetencion":true,"porcentajeRetencion":10}`,
			itbis:     180,
			retencion: 100,
			total:     1080,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(newTestHandlers(t, nil))

			w := doJSON(r, http.MethodPost, "/api/calculadora/calcular", tt.body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp struct {
				Calculo struct {
					Subtotal  float64 `json:"subtotal"`
					Impuestos struct {
						ITBIS     float64 `json:"itbis"`
						IVA       float64 `json:"iva"`
						Retencion float64 `json:"retencion"`
					} `json:"impuestos"`
					Total float64 `json:"total"`
				} `json:"calculo"`
				Detalles map[string]string `json:"detalles"`
			}
			decode(t, w, &resp)

			assert.InDelta(t, tt.itbis, resp.Calculo.Impuestos.ITBIS, 0.01)
			assert.InDelta(t, tt.iva, resp.Calculo.Impuestos.IVA, 0.01)
			assert.InDelta(t, tt.retencion, resp.Calculo.Impuestos.Retencion, 0.01)
			assert.InDelta(t, tt.total, resp.Calculo.Total, 0.01)
			assert.Equal(t, "1000.00", resp.Detalles["subtotal"])
		})
	}
}

func TestCalcular_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"subtotal not a number", `{"subtotal":"invalid"}`, "subtotal"},
		{"subtotal missing", `{"aplicarITBIS":true,"porcentajeITBIS":18}`, "subtotal"},
		{"empty body", "", "subtotal"},
		{"negative subtotal", `{"subtotal":-1}`, "subtotal"},
		{"percentage out of range", `{"subtotal":100,"aplicarIVA":true,"porcentajeIVA":101}`, "porcentajeIVA"},
		{"active percentage missing", `{"subtotal":100,"aplicarRetencion":true}`, "porcentajeRetencion"},
		{"total overflows", `{"subtotal":1e308,"aplicarITBIS":true,"porcentajeITBIS":100}`, "subtotal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(newTestHandlers(t, nil))

			w := doJSON(r, http.MethodPost, "/api/calculadora/calcular", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

			var resp ErrorResponse
			decode(t, w, &resp)
			assert.NotEmpty(t, resp.Error)
			assert.Contains(t, resp.Details, tt.field)
		})
	}
}

func TestCalcular_InvalidSubtotalMessage(t *testing.T) {
	r := newTestRouter(newTestHandlers(t, nil))

	w := doJSON(r, http.MethodPost, "/api/calculadora/calcular", `{"subtotal":"invalid"}`)

	var resp ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, "Subtotal requerido y debe ser un número", resp.Error)
}

func TestCreateContactoLegacy_MensajeOptional(t *testing.T) {
	r := newTestRouter(newTestHandlers(t, nil))

	w := doJSON(r, http.MethodPost, "/api/enviar-contacto", `{"nombre":"Luis","email":"luis@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = doJSON(r, http.MethodPost, "/api/enviar-contacto", `{"nombre":"Luis"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, map[string]string{"email": "requerido"}, resp.Details)

	w = doJSON(r, http.MethodPost, "/api/contacto/enviar", `{"nombre":"Luis","email":"luis@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalcular_SubtotalTooLarge(t *testing.T) {
	r := newTestRouter(newTestHandlers(t, nil))

	w := doJSON(r, http.MethodPost, "/api/calculadora/calcular",
		`{"subtotal":1e308,"aplicarITBIS":true,"porcentajeITBIS":100}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, service.MsgSubtotalFueraDeRango, resp.Error)
}

func TestTiposCalculo(t *testing.T) {
	r := newTestRouter(newTestHandlers(t, nil))

	w := doJSON(r, http.MethodGet, "/api/calculadora/tipos", "")
	require.Equal(t, http.StatusOK, w.Code)

	var tipos []map[string]interface{}
	decode(t, w, &tipos)
	require.Len(t, tipos, 3)
	assert.Equal(t, "itbis", tipos[0]["id"])
	assert.Equal(t, "iva", tipos[1]["id"])
	assert.Equal(t, "retencion", tipos[2]["id"])
	assert.Equal(t, 10.0, tipos[2]["porcentaje"])
}

func TestContactoEndpoints(t *testing.T) {
	r := newTestRouter(newTestHandlers(t, nil))

	w := doJSON(r, http.MethodPost, "/api/contacto/enviar",
		`{"nombre":"Ana","email":"ana@example.com","telefono":"809-555-1234","mensaje":"Necesito ayuda"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Message  string `json:"message"`
		Contacto struct {
			ID     int64  `json:"id"`
			Nombre string `json:"nombre"`
		} `json:"contacto"`
	}
	decode(t, w, &created)
	assert.Equal(t, "Mensaje enviado exitosamente", created.Message)
	assert.Equal(t, "Ana", created.Contacto.Nombre)

	w = doJSON(r, http.MethodPost, "/api/enviar-contacto",
		`{"nombre":"Luis","email":"luis@example.com","mensaje":"Hola"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = doJSON(r, http.MethodGet, "/api/contacto", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	decode(t, w, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "Luis", list[0]["nombre"])

	w = doJSON(r, http.MethodGet, "/api/contacto/1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	for _, path := range []string{"/api/contacto/99", "/api/contacto/abc"} {
		w = doJSON(r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Contacto no encontrado"}`, w.Body.String())
	}
}

func TestCreateContacto_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing fields", `{"nombre":"Ana"}`, "Nombre, email y mensaje son requeridos"},
		{"bad email", `{"nombre":"Ana","email":"ana@","mensaje":"hola"}`, "Formato de email inválido"},
		{"malformed json", `{"nombre":`, "Cuerpo de la solicitud inválido"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(newTestHandlers(t, nil))

			w := doJSON(r, http.MethodPost, "/api/contacto/enviar", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp ErrorResponse
			decode(t, w, &resp)
			assert.Equal(t, tt.want, resp.Error)
		})
	}
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("nota", "sin archivo"))
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func upload(r http.Handler, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/facturas/subir", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFacturaEndpoints(t *testing.T) {
	r := newTestRouter(newTestHandlers(t, nil))

	pdf := []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")
	body, ct := multipartBody(t, "factura", "enero.pdf", pdf)

	w := upload(r, body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Message  string `json:"message"`
		FilePath string `json:"filePath"`
		Factura  struct {
			ID             int64  `json:"id"`
			NombreOriginal string `json:"nombre_original"`
			ContentType    string `json:"content_type"`
		} `json:"factura"`
	}
	decode(t, w, &created)
	assert.Equal(t, "Factura subida con éxito", created.Message)
	assert.True(t, strings.HasPrefix(created.FilePath, "/uploads/"))
	assert.Equal(t, "enero.pdf", created.Factura.NombreOriginal)
	assert.Equal(t, "application/pdf", created.Factura.ContentType)

	w = doJSON(r, http.MethodGet, "/api/facturas", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	decode(t, w, &list)
	assert.Len(t, list, 1)

	w = doJSON(r, http.MethodGet, "/api/facturas/1/download", "")
	require.Equal(t, http.StatusOK, w.Code)
	var dl map[string]interface{}
	decode(t, w, &dl)
	assert.Equal(t, created.FilePath, dl["downloadUrl"])

	w = doJSON(r, http.MethodGet, "/api/facturas/2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Factura no encontrada"}`, w.Body.String())
}

func TestUploadFactura_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		content []byte
		want    string
	}{
		{"no file", "", nil, "No se subió archivo"},
		{"disallowed type", "factura", []byte("just some plain text"), "Solo se permiten imágenes (PNG, JPG, WEBP) o PDF"},
		{"too large", "factura", append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("a"), 1536*1024)...), "El archivo excede el tamaño máximo de 1MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(newTestHandlers(t, nil))
			body, ct := multipartBody(t, tt.field, "x.pdf", tt.content)

			w := upload(r, body, ct)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

			var resp ErrorResponse
			decode(t, w, &resp)
			assert.Equal(t, tt.want, resp.Error)
		})
	}
}

func TestCitaEndpoints(t *testing.T) {
	r := newTestRouter(newTestHandlers(t, nil))
	body := `{"nombre":"Maria","email":"maria@example.com","fecha":"2026-11-02","hora":"10:00"}`

	w := doJSON(r, http.MethodPost, "/api/citas", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]interface{}
	decode(t, w, &created)
	assert.Equal(t, 1.0, created["citaId"])

	w = doJSON(r, http.MethodPost, "/api/citas", body)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"Esa franja horaria ya está reservada. Por favor, elige otra."}`, w.Body.String())

	w = doJSON(r, http.MethodGet, "/api/citas?fecha=2026-11-02", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["10:00"]`, w.Body.String())

	w = doJSON(r, http.MethodGet, "/api/citas", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/citas", `{"nombre":"Maria"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDGIIEndpoints(t *testing.T) {
	r := newTestRouter(newTestHandlers(t, nil))

	w := doJSON(r, http.MethodGet, "/api/dgii/validar-rnc/131793916", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"rnc":"131793916","valido":true,"mensaje":"RNC válido"}`, w.Body.String())

	w = doJSON(r, http.MethodGet, "/api/dgii/validar-rnc/131793910", "")
	assert.JSONEq(t, `{"rnc":"131793910","valido":false,"mensaje":"RNC inválido"}`, w.Body.String())

	w = doJSON(r, http.MethodPost, "/api/dgii/consultar-rnc", `{"rnc":"131793916"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
		Mensaje string                 `json:"mensaje"`
	}
	decode(t, w, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "2026-10-19T12:00:00Z", resp.Data["ultima_actualizacion"])

	tests := []struct {
		body string
		code int
		want string
	}{
		{`{}`, http.StatusBadRequest, "RNC es requerido"},
		{`{"rnc":"123"}`, http.StatusBadRequest, "RNC inválido"},
		{`{"rnc":"000000000"}`, http.StatusNotFound, "RNC no encontrado"},
	}
	for _, tt := range tests {
		w = doJSON(r, http.MethodPost, "/api/dgii/consultar-rnc", tt.body)
		assert.Equal(t, tt.code, w.Code, tt.body)
		var e ErrorResponse
		decode(t, w, &e)
		assert.Equal(t, tt.want, e.Error)
	}

	w = doJSON(r, http.MethodGet, "/api/dgii/categorias", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodGet, "/api/dgii/regimenes", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleError_Internal(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	handleError(c, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Error interno del servidor"}`, w.Body.String())
}
