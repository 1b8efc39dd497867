package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	intconfig "xcargo/internal/config"

	"github.com/gin-gonic/gin"
)

type ConductorRow struct {
	ID        int64  `json:"id"`
	Nombre    string `json:"nombre"`
	Correo    string `json:"correo"`
	Telefono  string `json:"telefono"`
	Empresa   string `json:"empresa"`
	Ciudad    string `json:"ciudad"`
	Estado    string `json:"estado"`
	CreatedAt string `json:"createdAt"`
}

// GET /api/conductores
func GetConductores(c *gin.Context) {
	rows, err := intconfig.DB.Query(`
		SELECT
			id,
			COALESCE(nombre, ''),
			COALESCE(correo, ''),
			COALESCE(telefono, ''),
			COALESCE(empresa, ''),
			COALESCE(ciudad, ''),
			COALESCE(estado, ''),
			COALESCE(DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s'), '')
		FROM conductores
		ORDER BY id DESC
	`)
	if err != nil {
		log.Println("GetConductores query error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al obtener conductores: " + err.Error()})
		return
	}
	defer rows.Close()

	conductores := []ConductorRow{}
	for rows.Next() {
		var d ConductorRow
		if err := rows.Scan(
			&d.ID,
			&d.Nombre,
			&d.Correo,
			&d.Telefono,
			&d.Empresa,
			&d.Ciudad,
			&d.Estado,
			&d.CreatedAt,
		); err != nil {
			log.Println("GetConductores scan error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al leer conductores: " + err.Error()})
			return
		}
		conductores = append(conductores, d)
	}

	if err := rows.Err(); err != nil {
		log.Println("GetConductores rows error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al leer conductores: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, conductores)
}

// GET /api/conductores/:id
func GetConductorByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	var d ConductorRow
	err = intconfig.DB.QueryRow(`
		SELECT
			id,
			COALESCE(nombre, ''),
			COALESCE(correo, ''),
			COALESCE(telefono, ''),
			COALESCE(empresa, ''),
			COALESCE(ciudad, ''),
			COALESCE(estado, ''),
			COALESCE(DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s'), '')
		FROM conductores
		WHERE id = ?
	`, id).Scan(&d.ID, &d.Nombre, &d.Correo, &d.Telefono, &d.Empresa, &d.Ciudad, &d.Estado, &d.CreatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "conductor no encontrado"})
		return
	}

	c.JSON(http.StatusOK, d)
}

// POST /api/conductores
func CreateConductor(c *gin.Context) {
	var input ConductorRow
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Println("CreateConductor bind error:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload inválido: " + err.Error()})
		return
	}

	input.Correo = strings.ToLower(strings.TrimSpace(input.Correo))
	if input.Correo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "el correo del conductor es obligatorio"})
		return
	}
	if input.Estado == "" {
		input.Estado = "activo"
	}

	res, err := intconfig.DB.Exec(`
		INSERT INTO conductores (nombre, correo, telefono, empresa, ciudad, estado)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		input.Nombre,
		input.Correo,
		input.Telefono,
		input.Empresa,
		input.Ciudad,
		input.Estado,
	)
	if err != nil {
		log.Println("CreateConductor insert error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al crear conductor: " + err.Error()})
		return
	}

	id, _ := res.LastInsertId()
	input.ID = id

	_ = intconfig.DB.QueryRow(`
		SELECT COALESCE(DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s'), '')
		FROM conductores
		WHERE id = ?
	`, id).Scan(&input.CreatedAt)

	c.JSON(http.StatusCreated, input)
}

// PUT /api/conductores/:id
func UpdateConductor(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	var input ConductorRow
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload inválido: " + err.Error()})
		return
	}

	input.Correo = strings.ToLower(strings.TrimSpace(input.Correo))

	res, err := intconfig.DB.Exec(`
		UPDATE conductores
		SET nombre = ?, correo = ?, telefono = ?, empresa = ?, ciudad = ?, estado = ?
		WHERE id = ?
	`,
		input.Nombre,
		input.Correo,
		input.Telefono,
		input.Empresa,
		input.Ciudad,
		input.Estado,
		id,
	)
	if err != nil {
		log.Println("UpdateConductor update error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al actualizar conductor: " + err.Error()})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "conductor no encontrado"})
		return
	}

	input.ID = id
	c.JSON(http.StatusOK, input)
}

// DELETE /api/conductores/:id
func DeleteConductor(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	res, err := intconfig.DB.Exec(`DELETE FROM conductores WHERE id = ?`, id)
	if err != nil {
		log.Println("DeleteConductor delete error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fallo al eliminar conductor: " + err.Error()})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "conductor no encontrado"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "conductor eliminado", "id": id})
}
