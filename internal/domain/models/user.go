package models

// User mirrors the users table minus the password hash.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Conductor is a driver registered in the operation.
type Conductor struct {
	ID        int64  `json:"id"`
	Nombre    string `json:"nombre"`
	Correo    string `json:"correo"`
	Telefono  string `json:"telefono"`
	Empresa   string `json:"empresa"`
	Estado    string `json:"estado"`
	CreadoEn  string `json:"creadoEn,omitempty"`
}
