package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	userEmailKey = "userEmail"
	userRoleKey  = "userRole"
)

// RequireAuth validates the bearer token and attaches identity to the
// context. The frontend also sends redundant X-User-Email / X-User-Role
// headers; they are accepted as a fallback only when no token is present,
// which keeps older clients working.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := strings.TrimSpace(c.GetHeader("Authorization"))
		if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			raw := strings.TrimSpace(authz[len("bearer "):])
			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token inválido o vencido"})
				return
			}
			if email, ok := claims["email"].(string); ok {
				c.Set(userEmailKey, email)
			}
			if role, ok := claims["role"].(string); ok {
				c.Set(userRoleKey, role)
			}
			c.Next()
			return
		}

		email := strings.TrimSpace(c.GetHeader("X-User-Email"))
		role := strings.TrimSpace(c.GetHeader("X-User-Role"))
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "autenticación requerida"})
			return
		}
		c.Set(userEmailKey, email)
		c.Set(userRoleKey, role)
		c.Next()
	}
}

// RequireRoles only lets through requests whose role is in allowedRoles.
// Assumes RequireAuth already ran.
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(userRoleKey)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized: rol no presente en el contexto",
			})
			return
		}
		if _, ok := allowed[strings.ToLower(strings.TrimSpace(role))]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "forbidden: rol no autorizado",
			})
			return
		}
		c.Next()
	}
}

// GetUserEmail returns the authenticated email, "" when absent.
func GetUserEmail(c *gin.Context) string {
	return c.GetString(userEmailKey)
}

// GetUserRole returns the authenticated role, "" when absent.
func GetUserRole(c *gin.Context) string {
	return c.GetString(userRoleKey)
}
