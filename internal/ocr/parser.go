package ocr

import (
	"regexp"
	"strings"
)

// ParseComprobanteText extracts comprobante field candidates from raw OCR
// text, for providers that return the recognized text instead of structured
// fields. Best effort: missing fields stay empty and the user completes the
// form by hand.
func ParseComprobanteText(text string) Extraction {
	return Extraction{
		Valor:      extractValor(text),
		Fecha:      extractFecha(text),
		Hora:       extractHora(text),
		Entidad:    extractEntidad(text),
		Referencia: extractReferencia(text),
		Tipo:       extractTipo(text),
		Texto:      text,
	}
}

var valorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:valor|monto|total|pago)[:\s]*\$?\s*([0-9][0-9.,]*)`),
	regexp.MustCompile(`\$\s*([0-9][0-9.,]*)`),
}

func extractValor(text string) string {
	for _, re := range valorPatterns {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

var fechaPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`),
	regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{4})\b`),
	regexp.MustCompile(`\b(\d{1,2}-\d{1,2}-\d{4})\b`),
}

func extractFecha(text string) string {
	for _, re := range fechaPatterns {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}

var horaPattern = regexp.MustCompile(`\b(\d{1,2}:\d{2}(?::\d{2})?\s*(?:[AaPp]\.?\s*[Mm]\.?)?)`)

func extractHora(text string) string {
	if m := horaPattern.FindStringSubmatch(text); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// Entities seen on Colombian comprobantes. Order matters: longer brands first.
var entidades = []string{
	"Bancolombia", "Davivienda", "Daviplata", "Banco de Bogota",
	"BBVA", "Nequi", "Efecty", "Corresponsal",
}

func extractEntidad(text string) string {
	lower := strings.ToLower(text)
	for _, e := range entidades {
		if strings.Contains(lower, strings.ToLower(e)) {
			return e
		}
	}
	return ""
}

var referenciaPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:referencia|comprobante|aprobaci[oó]n|transacci[oó]n)\s*(?:no\.?|n[uú]mero|#)?[:\s]*([A-Z0-9]{5,20})`),
	regexp.MustCompile(`\b(M\d{7,12})\b`),
	regexp.MustCompile(`\b(\d{8,15})\b`),
}

func extractReferencia(text string) string {
	for _, re := range referenciaPatterns {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// extractTipo proposes a payment-type candidate. It only suggests members of
// the closed set; the sanitizer downstream rejects everything else anyway.
func extractTipo(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "nequi"):
		return "nequi"
	case strings.Contains(lower, "consignacion"), strings.Contains(lower, "consignación"):
		return "consignacion"
	case strings.Contains(lower, "transferencia"):
		return "transferencia"
	}
	return ""
}
