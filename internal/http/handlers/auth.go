package handlers

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	intconfig "xcargo/internal/config"
	"xcargo/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthUser is the user payload returned by the auth endpoints.
type AuthUser struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	Rol    string `json:"rol"`
	Estado string `json:"estado"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload inválido"})
		return
	}

	correo := strings.ToLower(strings.TrimSpace(req.Email))

	var (
		user         AuthUser
		passwordHash string
	)

	err := intconfig.DB.QueryRow(`
        SELECT id, nombre, email, password_hash, rol, estado
        FROM users
        WHERE email = ?
    `, correo).Scan(
		&user.ID,
		&user.Nombre,
		&user.Email,
		&passwordHash,
		&user.Rol,
		&user.Estado,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "correo o contraseña incorrectos"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al consultar usuario: " + err.Error()})
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "correo o contraseña incorrectos"})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Rol,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString([]byte(currentEnv().JWTSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al generar token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user":  user,
	})
}

type registerRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Rol      string `json:"rol"`
}

// POST /api/auth/register
func Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload inválido"})
		return
	}

	correo := strings.ToLower(strings.TrimSpace(req.Email))
	if correo == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email y password son obligatorios"})
		return
	}

	rol := strings.TrimSpace(req.Rol)
	if rol == "" {
		rol = domain.RoleConductor
	}
	switch rol {
	case domain.RoleAdmin, domain.RoleSupervisor, domain.RoleConductor:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "rol desconocido: " + rol})
		return
	}

	var exists int
	err := intconfig.DB.QueryRow(`
        SELECT COUNT(*)
        FROM users
        WHERE email = ?
    `, correo).Scan(&exists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al verificar usuario: " + err.Error()})
		return
	}
	if exists > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "el correo ya está registrado"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al cifrar la contraseña"})
		return
	}

	res, err := intconfig.DB.Exec(`
        INSERT INTO users (nombre, email, password_hash, rol, estado, created_at, updated_at)
        VALUES (?, ?, ?, ?, 'activo', NOW(), NOW())
    `, req.Nombre, correo, string(hash), rol)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al guardar usuario: " + err.Error()})
		return
	}

	id, _ := res.LastInsertId()

	c.JSON(http.StatusCreated, gin.H{
		"message": "registro exitoso",
		"user": gin.H{
			"id":     id,
			"nombre": req.Nombre,
			"email":  correo,
			"rol":    rol,
			"estado": "activo",
		},
	})
}
