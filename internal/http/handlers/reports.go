package handlers

import (
	"net/http"

	"xcargo/internal/http/middleware"
	"xcargo/internal/repositories"
	"xcargo/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/reports/pagos/excel
// Same filters as the historial endpoint, exported as xlsx.
func ExportarPagosExcel(c *gin.Context) {
	filter, ok := historialFilterFromQuery(c)
	if !ok {
		return
	}
	// Exports are not paginated.
	filter.Page = 1
	filter.PageSize = 10000

	svc := services.ReportsService{
		PagoRepo:  repositories.PagoRepository{},
		RequestID: middleware.GetRequestID(c),
	}
	data, filename, err := svc.HistorialExcel(filter)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
