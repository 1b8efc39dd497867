package api

import (
	"log"
	stdhttp "net/http"

	intconfig "xcargo/internal/config"
	"xcargo/internal/domain"
	h "xcargo/internal/http/handlers"
	"xcargo/internal/http/middleware"
	"xcargo/internal/ocr"
	"xcargo/internal/services"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, store *services.StagingStore, client *ocr.Client) *gin.Engine {
	h.Setup(env, store, client)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "ruta no encontrada",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		secret := []byte(env.JWTSecret)
		authed := api.Group("")
		authed.Use(middleware.RequireAuth(secret))

		// Users (admin only)
		users := authed.Group("/users")
		users.Use(middleware.RequireRoles(domain.RoleAdmin))
		users.GET("", h.GetUsers)
		users.GET("/:id", h.GetUserByID)
		users.POST("", h.CreateUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)

		// Conductores
		conductores := authed.Group("/conductores")
		conductores.GET("", h.GetConductores)
		conductores.GET("/:id", h.GetConductorByID)
		conductores.POST("", middleware.RequireRoles(domain.RoleAdmin, domain.RoleSupervisor), h.CreateConductor)
		conductores.PUT("/:id", middleware.RequireRoles(domain.RoleAdmin, domain.RoleSupervisor), h.UpdateConductor)
		conductores.DELETE("/:id", middleware.RequireRoles(domain.RoleAdmin), h.DeleteConductor)

		// OCR intake
		authed.POST("/ocr/extraer", h.ExtraerComprobante)

		// Pagos: staging, registro, consultas
		pagos := authed.Group("/pagos")
		pagos.GET("/staging", h.GetStaging)
		pagos.PUT("/staging/guias", h.SetStagingGuias)
		pagos.POST("/staging/comprobantes", h.AddStagingComprobante)
		pagos.DELETE("/staging/comprobantes/:referencia", h.RemoveStagingComprobante)
		pagos.PUT("/staging/bono/:id", h.AplicarStagingBono)
		pagos.DELETE("/staging/bono", h.QuitarStagingBono)
		pagos.POST("/registrar", h.RegistrarPago)
		pagos.GET("/verificar-referencia", h.VerificarReferencia)
		pagos.GET("/historial", h.HistorialPagos)
		pagos.GET("/:id/desprendible", h.DescargarDesprendible)

		// Bonos
		authed.GET("/bonos", h.GetBonos)

		// Reports
		reports := authed.Group("/reports")
		reports.Use(middleware.RequireRoles(domain.RoleAdmin, domain.RoleSupervisor))
		reports.GET("/pagos/excel", h.ExportarPagosExcel)
	}

	h.SetRouter(r)
	return r
}
