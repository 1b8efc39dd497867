package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger prints one line per request with the request id and, once auth has
// resolved it, the acting correo, so staging activity can be tied to a
// conductor session.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		correo := GetUserEmail(c)
		if correo == "" {
			correo = "-"
		}

		log.Printf("[HTTP] request_id=%s correo=%s method=%s path=%s status=%d latency_ms=%.3f ip=%s",
			GetRequestID(c),
			correo,
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			float64(latency.Microseconds())/1000.0,
			c.ClientIP(),
		)
	}
}
