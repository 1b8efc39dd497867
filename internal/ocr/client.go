package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"
)

var ErrMissingOCRBaseURL = errors.New("missing OCR_API_URL")
var ErrOCRNotConfigured = errors.New("ocr gateway not configured")

// Extraction is the provider's field-candidate payload for one comprobante
// image. Values are raw candidates; normalization happens downstream.
type Extraction struct {
	Valor      string `json:"valor"`
	Fecha      string `json:"fecha"`
	Hora       string `json:"hora"`
	Entidad    string `json:"entidad"`
	Referencia string `json:"referencia"`
	Tipo       string `json:"tipo"`

	Confianza     float64 `json:"confianza"`
	CalidadImagen float64 `json:"calidad_imagen"`

	Error   bool   `json:"error,omitempty"`
	Mensaje string `json:"mensaje,omitempty"`
	Texto   string `json:"texto,omitempty"`
}

// Client talks to the external comprobante-extraction service.
type Client struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	mockMode bool
}

func NewClient(baseURL, apiKey string) (*Client, error) {
	if isOCRMockEnabled() {
		log.Printf("[ocr][gateway] mock mode enabled")
		return &Client{mockMode: true}, nil
	}

	if strings.TrimSpace(baseURL) == "" {
		log.Printf("[ocr][gateway] missing OCR_API_URL")
		return nil, ErrMissingOCRBaseURL
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Extract uploads the captured file and returns provider field candidates.
// One-shot call, no retry: on failure the caller falls back to manual entry.
func (c *Client) Extract(ctx context.Context, filename string, data []byte) (Extraction, error) {
	if c != nil && c.mockMode {
		return c.mockExtract(filename, data), nil
	}

	if c == nil || c.http == nil {
		log.Printf("[ocr][gateway] gateway not configured")
		return Extraction{}, ErrOCRNotConfigured
	}
	log.Printf("[ocr][gateway] extract start file=%s size=%d", filename, len(data))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return Extraction{}, err
	}
	if _, err := part.Write(data); err != nil {
		return Extraction{}, err
	}
	if err := mw.Close(); err != nil {
		return Extraction{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract", &body)
	if err != nil {
		return Extraction{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("[ocr][gateway] extract transport failed err=%v", err)
		return Extraction{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Extraction{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[ocr][gateway] extract non-2xx status=%d", resp.StatusCode)
		return Extraction{}, fmt.Errorf("ocr service status %d", resp.StatusCode)
	}

	var out Extraction
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Printf("[ocr][gateway] extract decode failed err=%v", err)
		return Extraction{}, err
	}
	if out.Error {
		return Extraction{}, fmt.Errorf("ocr service error: %s", out.Mensaje)
	}

	// Some deployments only return the recognized text; parse fields here.
	if isEmptyFields(out) && strings.TrimSpace(out.Texto) != "" {
		parsed := ParseComprobanteText(out.Texto)
		parsed.Confianza = out.Confianza
		parsed.CalidadImagen = out.CalidadImagen
		out = parsed
	}

	log.Printf("[ocr][gateway] extract success ref=%s confianza=%.1f", out.Referencia, out.Confianza)
	return out, nil
}

func (c *Client) mockExtract(filename string, data []byte) Extraction {
	h := fnv.New32a()
	_, _ = h.Write([]byte(filename))
	_, _ = h.Write(data)
	ref := fmt.Sprintf("MOCK%08d", h.Sum32()%100000000)

	log.Printf("[ocr][gateway] mock extract file=%s ref=%s", filename, ref)
	return Extraction{
		Valor:         "150.000",
		Fecha:         time.Now().Format("2006-01-02"),
		Hora:          "10:30",
		Entidad:       "Bancolombia",
		Referencia:    ref,
		Tipo:          "consignacion",
		Confianza:     95,
		CalidadImagen: 90,
	}
}

func isEmptyFields(e Extraction) bool {
	return e.Valor == "" && e.Fecha == "" && e.Referencia == "" && e.Tipo == "" && e.Entidad == ""
}

func isOCRMockEnabled() bool {
	for _, key := range []string{"OCR_MOCK", "OCR_GATEWAY_MOCK"} {
		v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
		switch v {
		case "1", "true", "yes", "on", "mock":
			return true
		}
	}
	return false
}
