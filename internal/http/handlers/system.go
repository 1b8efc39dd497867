package handlers

import (
	"net/http"
	"sync"

	intconfig "xcargo/internal/config"
	intdb "xcargo/internal/db"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "xcargo backend en línea"})
}

func DBCheck(c *gin.Context) {
	if intconfig.DB == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "base de datos no conectada"})
		return
	}
	var count int
	err := intconfig.DB.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al consultar la base de datos: " + err.Error()})
		return
	}

	missing := []string{}
	for _, table := range []string{"conductores", "pagos", "pago_comprobantes", "pago_guias", "bonos"} {
		if !intdb.HasTable(intconfig.DB, table) {
			missing = append(missing, table)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "conexión a base de datos OK",
		"usuarios_en_db":   count,
		"tablas_faltantes": missing,
	})
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "router no inicializado"})
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
