package ocr

import "testing"

const sampleNequi = `Nequi
¡Envío exitoso!
Para: Juan Perez
Valor: $ 150.000
Fecha: 15/01/2025 10:30 a.m.
Referencia M12345678`

func TestParseComprobanteTextNequi(t *testing.T) {
	got := ParseComprobanteText(sampleNequi)

	if got.Valor != "150.000" {
		t.Errorf("valor = %q", got.Valor)
	}
	if got.Fecha != "15/01/2025" {
		t.Errorf("fecha = %q", got.Fecha)
	}
	if got.Hora != "10:30 a.m." {
		t.Errorf("hora = %q", got.Hora)
	}
	if got.Entidad != "Nequi" {
		t.Errorf("entidad = %q", got.Entidad)
	}
	if got.Referencia != "M12345678" {
		t.Errorf("referencia = %q", got.Referencia)
	}
	if got.Tipo != "nequi" {
		t.Errorf("tipo = %q", got.Tipo)
	}
}

const sampleConsignacion = `BANCOLOMBIA
Comprobante de consignacion
Comprobante No: 4587236915
Valor total $1.250.000
2025-02-03 14:05:00`

func TestParseComprobanteTextConsignacion(t *testing.T) {
	got := ParseComprobanteText(sampleConsignacion)

	if got.Valor != "1.250.000" {
		t.Errorf("valor = %q", got.Valor)
	}
	if got.Fecha != "2025-02-03" {
		t.Errorf("fecha = %q", got.Fecha)
	}
	if got.Entidad != "Bancolombia" {
		t.Errorf("entidad = %q", got.Entidad)
	}
	if got.Referencia != "4587236915" {
		t.Errorf("referencia = %q", got.Referencia)
	}
	if got.Tipo != "consignacion" {
		t.Errorf("tipo = %q", got.Tipo)
	}
}

func TestParseComprobanteTextEmptyOnNoise(t *testing.T) {
	got := ParseComprobanteText("recibo ilegible sin datos")
	if got.Valor != "" || got.Referencia != "" || got.Tipo != "" {
		t.Errorf("noise text should not fabricate fields: %+v", got)
	}
}
