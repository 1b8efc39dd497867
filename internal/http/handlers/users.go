package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	intconfig "xcargo/internal/config"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type userRow struct {
	ID        int64  `json:"id"`
	Nombre    string `json:"nombre"`
	Email     string `json:"email"`
	Rol       string `json:"rol"`
	Estado    string `json:"estado"`
	CreatedAt string `json:"createdAt"`
}

// GET /api/users
func GetUsers(c *gin.Context) {
	rows, err := intconfig.DB.Query(`
		SELECT
			id,
			COALESCE(nombre, ''),
			COALESCE(email, ''),
			COALESCE(rol, ''),
			COALESCE(estado, ''),
			COALESCE(DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s'), '')
		FROM users
		ORDER BY id DESC
	`)
	if err != nil {
		log.Println("GetUsers query error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al obtener usuarios: " + err.Error()})
		return
	}
	defer rows.Close()

	users := []userRow{}
	for rows.Next() {
		var u userRow
		if err := rows.Scan(&u.ID, &u.Nombre, &u.Email, &u.Rol, &u.Estado, &u.CreatedAt); err != nil {
			log.Println("GetUsers scan error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al leer usuarios: " + err.Error()})
			return
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		log.Println("GetUsers rows error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al leer usuarios: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}

// GET /api/users/:id
func GetUserByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	var u userRow
	err = intconfig.DB.QueryRow(`
		SELECT
			id,
			COALESCE(nombre, ''),
			COALESCE(email, ''),
			COALESCE(rol, ''),
			COALESCE(estado, ''),
			COALESCE(DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s'), '')
		FROM users
		WHERE id = ?
	`, id).Scan(&u.ID, &u.Nombre, &u.Email, &u.Rol, &u.Estado, &u.CreatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "usuario no encontrado"})
		return
	}

	c.JSON(http.StatusOK, u)
}

type userInput struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Rol      string `json:"rol"`
	Estado   string `json:"estado"`
}

// POST /api/users
func CreateUser(c *gin.Context) {
	var input userInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Println("CreateUser bind error:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload inválido: " + err.Error()})
		return
	}

	correo := strings.ToLower(strings.TrimSpace(input.Email))
	if correo == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email y password son obligatorios"})
		return
	}
	if input.Estado == "" {
		input.Estado = "activo"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al cifrar la contraseña"})
		return
	}

	res, err := intconfig.DB.Exec(`
		INSERT INTO users (nombre, email, password_hash, rol, estado, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NOW(), NOW())
	`, input.Nombre, correo, string(hash), input.Rol, input.Estado)
	if err != nil {
		log.Println("CreateUser insert error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al crear usuario: " + err.Error()})
		return
	}

	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{
		"id":     id,
		"nombre": input.Nombre,
		"email":  correo,
		"rol":    input.Rol,
		"estado": input.Estado,
	})
}

// PUT /api/users/:id
func UpdateUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	var input userInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload inválido: " + err.Error()})
		return
	}

	correo := strings.ToLower(strings.TrimSpace(input.Email))

	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al cifrar la contraseña"})
			return
		}
		_, err = intconfig.DB.Exec(`
			UPDATE users
			SET nombre = ?, email = ?, password_hash = ?, rol = ?, estado = ?, updated_at = NOW()
			WHERE id = ?
		`, input.Nombre, correo, string(hash), input.Rol, input.Estado, id)
		if err != nil {
			log.Println("UpdateUser update error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al actualizar usuario: " + err.Error()})
			return
		}
	} else {
		_, err = intconfig.DB.Exec(`
			UPDATE users
			SET nombre = ?, email = ?, rol = ?, estado = ?, updated_at = NOW()
			WHERE id = ?
		`, input.Nombre, correo, input.Rol, input.Estado, id)
		if err != nil {
			log.Println("UpdateUser update error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al actualizar usuario: " + err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "usuario actualizado", "id": id})
}

// DELETE /api/users/:id
func DeleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	res, err := intconfig.DB.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		log.Println("DeleteUser delete error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al eliminar usuario: " + err.Error()})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "usuario no encontrado"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "usuario eliminado", "id": id})
}
