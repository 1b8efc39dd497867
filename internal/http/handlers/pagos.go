package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"xcargo/internal/domain"
	"xcargo/internal/http/middleware"
	"xcargo/internal/repositories"
	"xcargo/internal/services"
	"xcargo/internal/utils"

	"github.com/gin-gonic/gin"
)

func pagoService(c *gin.Context) services.PagoService {
	return services.PagoService{
		PagoRepo:   repositories.PagoRepository{},
		BonoRepo:   repositories.BonoRepository{},
		Staging:    stagingService(c),
		UploadsDir: currentEnv().UploadsDir,
		RequestID:  middleware.GetRequestID(c),
	}
}

// POST /api/pagos/registrar
// Submits the caller's staged ledger as one payment. Shortfall blocks the
// submission; overage mints a new bono.
func RegistrarPago(c *gin.Context) {
	correo, ok := requireCorreo(c)
	if !ok {
		return
	}

	resultado, err := pagoService(c).Registrar(correo)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resultado)
}

// GET /api/pagos/verificar-referencia?referencia=...&tipo=...
func VerificarReferencia(c *gin.Context) {
	referencia := strings.TrimSpace(c.Query("referencia"))
	if referencia == "" {
		RespondError(c, http.StatusBadRequest, "parámetro referencia requerido", nil)
		return
	}
	tipo := utils.SanitizeTipoPago(c.Query("tipo"))
	if tipo == "" {
		tipo = utils.TipoNequi
	}

	repo := repositories.PagoRepository{}
	usada, err := repo.ReferenciaUsada(referencia, tipo)
	if err != nil {
		RespondError(c, http.StatusServiceUnavailable, "no se pudo verificar la referencia", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"referencia": referencia,
		"tipo":       tipo,
		"usada":      usada,
	})
}

// GET /api/pagos/historial
// Conductores only see their own submissions; admin and supervisor may filter
// by any correo.
func HistorialPagos(c *gin.Context) {
	filter, ok := historialFilterFromQuery(c)
	if !ok {
		return
	}

	svc := services.ReportsService{
		PagoRepo:  repositories.PagoRepository{},
		RequestID: middleware.GetRequestID(c),
	}
	pagos, err := svc.Historial(filter)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pagos":     pagos,
		"page":      filter.Page,
		"page_size": filter.PageSize,
	})
}

func historialFilterFromQuery(c *gin.Context) (repositories.HistorialFilter, bool) {
	correo := middleware.GetUserEmail(c)
	role := middleware.GetUserRole(c)

	f := repositories.HistorialFilter{
		Correo:      strings.ToLower(strings.TrimSpace(correo)),
		Tipo:        utils.SanitizeTipoPago(c.Query("tipo")),
		FechaInicio: utils.NormalizeFecha(c.Query("desde")),
		FechaFin:    utils.NormalizeFecha(c.Query("hasta")),
		Page:        1,
		PageSize:    20,
	}

	if role == domain.RoleAdmin || role == domain.RoleSupervisor {
		if q := strings.ToLower(strings.TrimSpace(c.Query("correo"))); q != "" {
			f.Correo = q
		} else {
			f.Correo = ""
		}
	}

	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		f.Page = p
	}
	if ps, err := strconv.Atoi(c.Query("page_size")); err == nil && ps > 0 && ps <= 200 {
		f.PageSize = ps
	}

	return f, true
}

// GET /api/pagos/:id/desprendible
func DescargarDesprendible(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "id inválido", nil)
		return
	}

	svc := services.DocsService{
		PagoRepo:  repositories.PagoRepository{},
		RequestID: middleware.GetRequestID(c),
	}
	pdf, filename, err := svc.GenerateDesprendible(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
