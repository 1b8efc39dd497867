package utils

import "strings"

// Permitted comprobante payment types. Closed set: anything else detected
// by OCR or typed by the user is treated as absent, never coerced.
const (
	TipoConsignacion  = "consignacion"
	TipoNequi         = "nequi"
	TipoTransferencia = "transferencia"
)

// TiposPago lists the permitted values in display order.
var TiposPago = []string{TipoConsignacion, TipoNequi, TipoTransferencia}

// SanitizeTipoPago returns the trimmed input when it exactly matches one of
// the permitted payment types, otherwise "". Strict allow-list: a bank brand
// OCR mistook for a type ("Bancolombia") must come back empty, not guessed
// into the nearest value.
func SanitizeTipoPago(s string) string {
	t := strings.TrimSpace(s)
	switch t {
	case TipoConsignacion, TipoNequi, TipoTransferencia:
		return t
	}
	return ""
}
