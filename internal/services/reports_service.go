package services

import (
	"fmt"
	"time"

	"xcargo/internal/domain/models"
	"xcargo/internal/repositories"

	"github.com/xuri/excelize/v2"
)

// ReportsService builds the payment history views used by supervisors.
type ReportsService struct {
	PagoRepo  repositories.PagoRepository
	RequestID string
	Loader    func(repositories.HistorialFilter) ([]models.Pago, error)
}

func (s ReportsService) Historial(f repositories.HistorialFilter) ([]models.Pago, error) {
	if s.Loader != nil {
		return s.Loader(f)
	}
	return s.PagoRepo.ListHistorial(f)
}

var historialHeaders = []string{"ID", "Correo", "Valor total", "Fecha", "Hora", "Tipo", "Entidad", "Referencia", "Estado", "Bono aplicado", "Creado"}

// HistorialExcel exports the filtered history as an .xlsx workbook.
func (s ReportsService) HistorialExcel(f repositories.HistorialFilter) ([]byte, string, error) {
	pagos, err := s.Historial(f)
	if err != nil {
		return nil, "", err
	}

	wb := excelize.NewFile()
	defer func() { _ = wb.Close() }()

	sheet := "Pagos"
	wb.SetSheetName("Sheet1", sheet)

	for col, h := range historialHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := wb.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", err
		}
	}

	for row, p := range pagos {
		values := []any{
			p.ID, p.Correo, p.ValorTotal, p.Fecha, p.Hora,
			p.Tipo, p.Entidad, p.Referencia, p.Estado, p.BonoAplicado, p.CreadoEn,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, "", err
			}
			if err := wb.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", err
			}
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("historial-pagos-%s.xlsx", time.Now().Format("20060102-150405"))
	return buf.Bytes(), filename, nil
}
