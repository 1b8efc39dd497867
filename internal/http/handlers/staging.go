package handlers

import (
	"io"
	"net/http"
	"strings"

	"xcargo/internal/domain/models"
	"xcargo/internal/http/middleware"
	"xcargo/internal/repositories"
	"xcargo/internal/services"
	"xcargo/internal/utils"

	"github.com/gin-gonic/gin"
)

func stagingService(c *gin.Context) services.StagingService {
	return services.StagingService{
		Store:     store(),
		RequestID: middleware.GetRequestID(c),
	}
}

func requireCorreo(c *gin.Context) (string, bool) {
	correo := middleware.GetUserEmail(c)
	if correo == "" {
		RespondError(c, http.StatusUnauthorized, "sesión sin correo de usuario", nil)
		return "", false
	}
	return correo, true
}

type setGuiasRequest struct {
	Guias []models.Guia `json:"guias"`
}

// PUT /api/pagos/staging/guias
// Replaces the guide selection and resets any staged proofs for it.
func SetStagingGuias(c *gin.Context) {
	correo, ok := requireCorreo(c)
	if !ok {
		return
	}

	var req setGuiasRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := stagingService(c)
	if err := svc.SetGuias(correo, req.Guias); err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, svc.Snapshot(correo))
}

// GET /api/pagos/staging
func GetStaging(c *gin.Context) {
	correo, ok := requireCorreo(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stagingService(c).Snapshot(correo))
}

// POST /api/pagos/staging/comprobantes
// Multipart form: valor, fecha, hora, tipo, entidad, referencia, confirmado
// and file (soporte del pago). Validation failures come back as 400; a
// same-reference duplicate needing user confirmation comes back as 409 with
// requiere_confirmacion true.
func AddStagingComprobante(c *gin.Context) {
	correo, ok := requireCorreo(c)
	if !ok {
		return
	}

	in := services.AddInput{
		Valor:      utils.ParseMonto(c.PostForm("valor")),
		Fecha:      c.PostForm("fecha"),
		Hora:       c.PostForm("hora"),
		Tipo:       c.PostForm("tipo"),
		Entidad:    c.PostForm("entidad"),
		Referencia: c.PostForm("referencia"),
		Confirmado: strings.EqualFold(c.PostForm("confirmado"), "true"),
	}

	fileHeader, err := c.FormFile("file")
	if err == nil {
		if fileHeader.Size > maxComprobanteBytes {
			RespondError(c, http.StatusBadRequest, "el archivo supera el tamaño máximo permitido (10MB)", nil)
			return
		}
		f, err := fileHeader.Open()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "no se pudo leer el archivo", err)
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, maxComprobanteBytes))
		f.Close()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "no se pudo leer el archivo", err)
			return
		}
		in.ArchivoNombre = fileHeader.Filename
		in.ArchivoDatos = data
	}

	svc := stagingService(c)
	if err := svc.AddComprobante(correo, in); err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, svc.Snapshot(correo))
}

// DELETE /api/pagos/staging/comprobantes/:referencia
// Removes every staged entry with that reference; partial-payment siblings
// go down together.
func RemoveStagingComprobante(c *gin.Context) {
	correo, ok := requireCorreo(c)
	if !ok {
		return
	}

	referencia := strings.TrimSpace(c.Param("referencia"))
	if referencia == "" {
		RespondError(c, http.StatusBadRequest, "referencia vacía", nil)
		return
	}

	svc := stagingService(c)
	removed := svc.RemoveByReferencia(correo, referencia)
	if removed == 0 {
		RespondError(c, http.StatusNotFound, "no hay comprobantes con esa referencia", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"eliminados": removed,
		"staging":    svc.Snapshot(correo),
	})
}

// PUT /api/pagos/staging/bono/:id
// Applies one active bono of the caller to the staged ledger (replaces any
// previously applied one).
func AplicarStagingBono(c *gin.Context) {
	correo, ok := requireCorreo(c)
	if !ok {
		return
	}

	bonoID := strings.TrimSpace(c.Param("id"))
	repo := repositories.BonoRepository{}
	bono, err := repo.GetActivo(bonoID, correo)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	svc := stagingService(c)
	if err := svc.AplicarBono(correo, bono); err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, svc.Snapshot(correo))
}

// DELETE /api/pagos/staging/bono
func QuitarStagingBono(c *gin.Context) {
	correo, ok := requireCorreo(c)
	if !ok {
		return
	}

	svc := stagingService(c)
	svc.QuitarBono(correo)
	c.JSON(http.StatusOK, svc.Snapshot(correo))
}
