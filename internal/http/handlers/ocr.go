package handlers

import (
	"io"
	"net/http"

	"xcargo/internal/http/middleware"
	"xcargo/internal/repositories"
	"xcargo/internal/services"

	"github.com/gin-gonic/gin"
)

// Comprobante images beyond this size are rejected before hitting the gateway.
const maxComprobanteBytes = 10 << 20

// POST /api/ocr/extraer
// Multipart: file (imagen del comprobante). The extraction runs against the
// caller's staging session; a result that arrives after a newer capture is
// marked "descartado" and never overwrites the current draft.
func ExtraerComprobante(c *gin.Context) {
	correo := middleware.GetUserEmail(c)
	if correo == "" {
		RespondError(c, http.StatusUnauthorized, "sesión sin correo de usuario", nil)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "falta el archivo del comprobante", err)
		return
	}
	if fileHeader.Size > maxComprobanteBytes {
		RespondError(c, http.StatusBadRequest, "el archivo supera el tamaño máximo permitido (10MB)", nil)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "no se pudo leer el archivo", err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxComprobanteBytes))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "no se pudo leer el archivo", err)
		return
	}

	svc := services.IntakeService{
		OCR:       extractor(),
		PagoRepo:  repositories.PagoRepository{},
		Store:     store(),
		RequestID: middleware.GetRequestID(c),
	}

	result, err := svc.Extraer(c.Request.Context(), correo, fileHeader.Filename, data)
	if err != nil {
		// The gateway failed; the client can fall back to manual entry.
		RespondError(c, http.StatusBadGateway, "extracción no disponible; diligencie los campos manualmente", err)
		return
	}

	if !result.PermitirRegistro && !result.Descartado {
		c.JSON(http.StatusConflict, result)
		return
	}

	c.JSON(http.StatusOK, result)
}
