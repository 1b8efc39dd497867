package domain

// Pagination carries paging params and totals.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total,omitempty"`
}

// RequestContext carries the authenticated identity attached by middleware.
type RequestContext struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Roles known to the operation.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleConductor  = "conductor"
)
