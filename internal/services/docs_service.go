package services

import (
	"bytes"
	"fmt"

	"xcargo/internal/domain/models"
	"xcargo/internal/repositories"
	"xcargo/internal/utils"

	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// DocsService renders the downloadable "desprendible de pago" PDF for a
// submitted payment.
type DocsService struct {
	PagoRepo  repositories.PagoRepository
	RequestID string
	Loader    func(int64) (models.Pago, error)
}

func (s DocsService) GenerateDesprendible(pagoID int64) ([]byte, string, error) {
	pago, err := s.loadPago(pagoID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_desprendible", fmt.Sprintf("pago_id=%d", pagoID))
	return buildDesprendiblePDF(pago)
}

func (s DocsService) loadPago(pagoID int64) (models.Pago, error) {
	if s.Loader != nil {
		return s.Loader(pagoID)
	}
	return s.PagoRepo.GetByID(pagoID)
}

func buildDesprendiblePDF(p models.Pago) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Desprendible de Pago", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "DESPRENDIBLE DE PAGO")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	lines := [][2]string{
		{"Pago No.", fmt.Sprintf("%d", p.ID)},
		{"Conductor", p.Correo},
		{"Fecha", p.Fecha + " " + p.Hora},
		{"Tipo", p.Tipo},
		{"Entidad", p.Entidad},
		{"Referencia", p.Referencia},
		{"Valor total", utils.FormatPesos(int64(p.ValorTotal))},
		{"Estado", p.Estado},
	}
	if p.BonoAplicado > 0 {
		lines = append(lines, [2]string{"Bono aplicado", utils.FormatPesos(int64(p.BonoAplicado))})
	}
	for _, l := range lines {
		pdf.CellFormat(45, 7, l[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, l[1], "", 1, "L", false, 0, "")
	}

	if len(p.Guias) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Guías pagadas")
		pdf.Ln(9)

		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(50, 7, "Referencia", "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, "Cliente", "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, "Valor", "1", 0, "R", false, 0, "")
		pdf.CellFormat(0, 7, "Comp.", "1", 1, "C", false, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		for _, g := range p.Guias {
			pdf.CellFormat(50, 7, g.Referencia, "1", 0, "L", false, 0, "")
			pdf.CellFormat(60, 7, g.Cliente, "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 7, utils.FormatPesos(int64(g.Valor)), "1", 0, "R", false, 0, "")
			pdf.CellFormat(0, 7, fmt.Sprintf("%d", g.ComprobanteIdx+1), "1", 1, "C", false, 0, "")
		}
	}

	// QR with the payment reference for quick lookup at conciliación.
	if p.Referencia != "" {
		qr, err := qrcode.Encode(p.Referencia, qrcode.Medium, 256)
		if err == nil {
			opts := gofpdf.ImageOptions{ImageType: "PNG"}
			pdf.RegisterImageOptionsReader("qr-referencia", opts, bytes.NewReader(qr))
			pdf.ImageOptions("qr-referencia", 160, 20, 30, 30, false, opts, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("desprendible-%d.pdf", p.ID)
	return buf.Bytes(), filename, nil
}
