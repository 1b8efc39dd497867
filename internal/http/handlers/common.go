package handlers

import (
	"net/http"
	"sync"

	intconfig "xcargo/internal/config"
	"xcargo/internal/http/middleware"
	"xcargo/internal/ocr"
	"xcargo/internal/services"

	"github.com/gin-gonic/gin"
)

var (
	depsMu       sync.RWMutex
	env          intconfig.Env
	stagingStore *services.StagingStore
	ocrClient    *ocr.Client
)

// Setup wires the shared dependencies before the router mounts handlers.
func Setup(e intconfig.Env, store *services.StagingStore, client *ocr.Client) {
	depsMu.Lock()
	defer depsMu.Unlock()
	env = e
	stagingStore = store
	ocrClient = client
}

func currentEnv() intconfig.Env {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return env
}

func store() *services.StagingStore {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return stagingStore
}

func extractor() *ocr.Client {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return ocrClient
}

// RespondError sends standard error payload with request_id included.
// Keeps backward compatibility by always providing "message".
func RespondError(c *gin.Context, status int, message string, err error) {
	reqID := middleware.GetRequestID(c)
	payload := gin.H{
		"message":    message,
		"request_id": reqID,
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		RespondError(c, http.StatusBadRequest, "cuerpo vacío", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "payload inválido", err)
		return false
	}
	return true
}
