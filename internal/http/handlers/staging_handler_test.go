package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	intconfig "xcargo/internal/config"
	"xcargo/internal/http/middleware"
	"xcargo/internal/services"

	"github.com/gin-gonic/gin"
)

const testCorreo = "conductor@xcargo.co"

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := services.NewStagingStore(time.Minute)
	t.Cleanup(store.Close)
	Setup(intconfig.Env{JWTSecret: "test-secret", UploadsDir: t.TempDir()}, store, nil)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequireAuth([]byte("test-secret")))
	r.PUT("/api/pagos/staging/guias", SetStagingGuias)
	r.GET("/api/pagos/staging", GetStaging)
	r.POST("/api/pagos/staging/comprobantes", AddStagingComprobante)
	r.DELETE("/api/pagos/staging/comprobantes/:referencia", RemoveStagingComprobante)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Email", testCorreo)
	req.Header.Set("X-User-Role", "conductor")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doMultipart(t *testing.T, r *gin.Engine, fields map[string]string, withFile bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if withFile {
		fw, err := mw.CreateFormFile("file", "comprobante.jpg")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte("img")); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/pagos/staging/comprobantes", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-User-Email", testCorreo)
	req.Header.Set("X-User-Role", "conductor")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func comprobanteFields(referencia, valor string) map[string]string {
	return map[string]string{
		"valor":      valor,
		"fecha":      "2025-01-01",
		"hora":       "10:30",
		"tipo":       "consignacion",
		"entidad":    "Bancolombia",
		"referencia": referencia,
	}
}

func TestStagingFlow(t *testing.T) {
	r := newTestEngine(t)

	w := doJSON(t, r, http.MethodPut, "/api/pagos/staging/guias", gin.H{
		"guias": []gin.H{{"referencia": "G-A", "valor": 150000}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("SetGuias status = %d, body %s", w.Code, w.Body.String())
	}

	w = doMultipart(t, r, comprobanteFields("REF-1", "150.000"), true)
	if w.Code != http.StatusCreated {
		t.Fatalf("AddComprobante status = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/pagos/staging", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GetStaging status = %d", w.Code)
	}
	var snap struct {
		Comprobantes []struct {
			Referencia string  `json:"referencia"`
			Valor      float64 `json:"valor"`
		} `json:"comprobantes"`
		Cobertura struct {
			Faltante float64 `json:"faltante"`
		} `json:"cobertura"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(snap.Comprobantes) != 1 || snap.Comprobantes[0].Valor != 150000 {
		t.Fatalf("unexpected staged entries: %+v", snap.Comprobantes)
	}
	if snap.Cobertura.Faltante != 0 {
		t.Fatalf("faltante = %v, want 0", snap.Cobertura.Faltante)
	}
}

func TestStagingDuplicateNeedsConfirmation(t *testing.T) {
	r := newTestEngine(t)

	doJSON(t, r, http.MethodPut, "/api/pagos/staging/guias", gin.H{
		"guias": []gin.H{{"referencia": "G-A", "valor": 300000}},
	})
	if w := doMultipart(t, r, comprobanteFields("REF-1", "100000"), true); w.Code != http.StatusCreated {
		t.Fatalf("first add status = %d", w.Code)
	}

	// Same reference, different value: blocked without confirmation.
	w := doMultipart(t, r, comprobanteFields("REF-1", "200000"), true)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"requiere_confirmacion":true`) {
		t.Fatalf("conflict body missing requiere_confirmacion: %s", w.Body.String())
	}

	fields := comprobanteFields("REF-1", "200000")
	fields["confirmado"] = "true"
	if w := doMultipart(t, r, fields, true); w.Code != http.StatusCreated {
		t.Fatalf("confirmed add status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestStagingAddRequiresFile(t *testing.T) {
	r := newTestEngine(t)

	doJSON(t, r, http.MethodPut, "/api/pagos/staging/guias", gin.H{
		"guias": []gin.H{{"referencia": "G-A", "valor": 100000}},
	})
	w := doMultipart(t, r, comprobanteFields("REF-1", "100000"), false)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("add without file status = %d, want 400", w.Code)
	}
}

func TestStagingRemoveByReferencia(t *testing.T) {
	r := newTestEngine(t)

	doJSON(t, r, http.MethodPut, "/api/pagos/staging/guias", gin.H{
		"guias": []gin.H{{"referencia": "G-A", "valor": 300000}},
	})
	doMultipart(t, r, comprobanteFields("REF-1", "100000"), true)

	w := doJSON(t, r, http.MethodDelete, "/api/pagos/staging/comprobantes/REF-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("remove status = %d, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"eliminados":1`) {
		t.Fatalf("remove body = %s", w.Body.String())
	}

	w = doJSON(t, r, http.MethodDelete, "/api/pagos/staging/comprobantes/REF-1", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second remove status = %d, want 404", w.Code)
	}
}

func TestStagingRejectsMissingIdentity(t *testing.T) {
	r := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/api/pagos/staging", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status sin identidad = %d, want 401", w.Code)
	}
}
