package handlers

import (
	"net/http"

	"xcargo/internal/repositories"

	"github.com/gin-gonic/gin"
)

// GET /api/bonos
// Active bonos of the authenticated conductor plus the usable total.
func GetBonos(c *gin.Context) {
	correo, ok := requireCorreo(c)
	if !ok {
		return
	}

	repo := repositories.BonoRepository{}
	bonos, total, err := repo.ListActivos(correo)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bonos": bonos,
		"total": total,
	})
}
