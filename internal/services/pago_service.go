package services

import (
	"fmt"
	"os"
	"path/filepath"

	"xcargo/internal/domain"
	"xcargo/internal/domain/models"
	"xcargo/internal/repositories"
	"xcargo/internal/utils"

	"github.com/google/uuid"
)

// PagoService assembles and persists the final submission: coverage check,
// late payment-type gate, file persistence, guide links and bono movements.
type PagoService struct {
	PagoRepo   repositories.PagoRepository
	BonoRepo   repositories.BonoRepository
	Staging    StagingService
	UploadsDir string
	RequestID  string
}

type RegistroResultado struct {
	PagoID    int64           `json:"pago_id"`
	Mensaje   string          `json:"mensaje"`
	Coverage  models.Coverage `json:"cobertura"`
	NuevoBono *models.Bono    `json:"nuevo_bono,omitempty"`
}

// Registrar submits the whole staged ledger for a conductor. Submission is
// ledger-wide: entries never reach "registrado" individually.
func (s PagoService) Registrar(correo string) (RegistroResultado, error) {
	snap := s.Staging.Snapshot(correo)

	if len(snap.Guias) == 0 {
		return RegistroResultado{}, domain.ValidationError{Field: "guias", Msg: "no hay guías cargadas"}
	}
	if len(snap.Comprobantes) == 0 {
		return RegistroResultado{}, domain.ValidationError{Field: "comprobantes", Msg: "no hay comprobantes agregados"}
	}

	// Late gate, independent of the add-time gate: a staged entry whose tipo
	// fails the allow-list means corrupted state and blocks the whole batch.
	for i, c := range snap.Comprobantes {
		if utils.SanitizeTipoPago(c.Tipo) == "" {
			return RegistroResultado{}, domain.ValidationError{
				Field: "tipo",
				Msg:   fmt.Sprintf("comprobante %d con tipo de pago inválido; retire el comprobante y vuelva a agregarlo", i+1),
			}
		}
	}

	cov := snap.Coverage
	if cov.Faltante > 0 {
		return RegistroResultado{}, domain.ValidationError{
			Field: "cobertura",
			Msg:   fmt.Sprintf("el valor pagado no cubre las guías; faltan %s", utils.FormatPesos(int64(cov.Faltante))),
		}
	}

	archivos, err := s.persistirArchivos(snap.Comprobantes)
	if err != nil {
		return RegistroResultado{}, domain.InternalError{Msg: "no se pudieron guardar los archivos", Err: err}
	}

	primero := snap.Comprobantes[0]
	pago := models.Pago{
		Correo:     correo,
		ValorTotal: cov.TotalComprobantes,
		Fecha:      primero.Fecha,
		Hora:       utils.NormalizeHoraWire(primero.Hora),
		Tipo:       primero.Tipo,
		Entidad:    primero.Entidad,
		Referencia: primero.Referencia,
		Estado:     "pendiente",
	}
	if snap.Bono != nil {
		pago.BonoAplicado = snap.Bono.SaldoDisponible
	}
	for i, c := range snap.Comprobantes {
		comp := c.Comprobante
		comp.Archivo = archivos[i]
		pago.Comprobantes = append(pago.Comprobantes, comp)
	}

	guias := asignarComprobantes(snap.Guias, snap.Comprobantes)

	pagoID, err := s.PagoRepo.CreatePago(pago, guias)
	if err != nil {
		s.borrarArchivos(archivos)
		return RegistroResultado{}, domain.InternalError{Msg: "no se pudo registrar el pago", Err: err}
	}

	if snap.Bono != nil {
		if err := s.BonoRepo.Consumir(snap.Bono.ID, snap.Bono.SaldoDisponible); err != nil {
			utils.LogEvent(s.RequestID, "pago", "bono_consumir_failed", err.Error())
		}
	}

	resultado := RegistroResultado{
		PagoID:   pagoID,
		Coverage: cov,
		Mensaje:  "Pago registrado. Pendiente de conciliación.",
	}

	if cov.Excedente > 0 {
		nuevo := models.Bono{
			ID:              uuid.New().String(),
			Correo:          correo,
			ReferenciaPago:  primero.Referencia,
			SaldoDisponible: cov.Excedente,
			Estado:          models.BonoActivo,
		}
		if err := s.BonoRepo.Create(nuevo); err != nil {
			utils.LogEvent(s.RequestID, "pago", "bono_create_failed", err.Error())
			resultado.Mensaje = "Pago registrado; el excedente no pudo generar bono, contacte a soporte."
		} else {
			resultado.NuevoBono = &nuevo
			resultado.Mensaje = fmt.Sprintf("Pago registrado. Se generó un bono por %s.", utils.FormatPesos(int64(cov.Excedente)))
		}
	}

	s.Staging.Store.Reset(correo)
	utils.LogEvent(s.RequestID, "pago", "registrar", fmt.Sprintf("correo=%s pago_id=%d comprobantes=%d", correo, pagoID, len(pago.Comprobantes)))
	return resultado, nil
}

func (s PagoService) persistirArchivos(comps []StagedComprobante) ([]string, error) {
	dir := s.UploadsDir
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	nombres := make([]string, 0, len(comps))
	for _, c := range comps {
		ext := filepath.Ext(c.ArchivoNombre)
		if ext == "" {
			ext = ".bin"
		}
		nombre := uuid.New().String() + ext
		if err := os.WriteFile(filepath.Join(dir, nombre), c.ArchivoDatos, 0o644); err != nil {
			s.borrarArchivos(nombres)
			return nil, err
		}
		nombres = append(nombres, nombre)
	}
	return nombres, nil
}

func (s PagoService) borrarArchivos(nombres []string) {
	dir := s.UploadsDir
	if dir == "" {
		dir = "uploads"
	}
	for _, n := range nombres {
		_ = os.Remove(filepath.Join(dir, n))
	}
}

// asignarComprobantes tags each guide with the index of the proof whose
// cumulative value covers the guide's starting offset, walking both lists
// in order.
func asignarComprobantes(guias []models.Guia, comps []StagedComprobante) []models.PagoGuia {
	acumulado := make([]float64, len(comps))
	total := 0.0
	for i, c := range comps {
		total += c.Valor
		acumulado[i] = total
	}

	out := make([]models.PagoGuia, 0, len(guias))
	inicio := 0.0
	for _, g := range guias {
		idx := len(comps) - 1
		for i, fin := range acumulado {
			if fin > inicio+centavo {
				idx = i
				break
			}
		}
		out = append(out, models.PagoGuia{
			Referencia:     g.Referencia,
			Tracking:       g.Tracking,
			Cliente:        g.Cliente,
			Valor:          g.Valor,
			ComprobanteIdx: idx,
		})
		inicio += g.Valor
	}
	return out
}
