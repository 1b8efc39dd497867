package services

import (
	"fmt"
	"strings"

	"xcargo/internal/domain"
	"xcargo/internal/domain/models"
	"xcargo/internal/utils"
)

// StagingService implements the staged-payment ledger: guides in, proofs
// staged through the sanitizer and duplicate gates, coverage recomputed on
// every read.
type StagingService struct {
	Store     *StagingStore
	RequestID string
}

// SetGuias loads the guides to pay into a fresh session. Guides are
// read-only afterwards; loading a new set restarts the staging flow.
func (s StagingService) SetGuias(correo string, guias []models.Guia) error {
	if len(guias) == 0 {
		return domain.ValidationError{Field: "guias", Msg: "debe incluir al menos una guía"}
	}
	for i, g := range guias {
		if strings.TrimSpace(g.Referencia) == "" {
			return domain.ValidationError{Field: "guias", Msg: fmt.Sprintf("guía %d sin referencia", i)}
		}
		if g.Valor <= 0 {
			return domain.ValidationError{Field: "guias", Msg: fmt.Sprintf("guía %s con valor inválido", g.Referencia)}
		}
	}

	s.Store.withSession(correo, func(sess *StagingSession) {
		sess.Guias = append([]models.Guia(nil), guias...)
		sess.Comprobantes = nil
		sess.Bono = nil
		sess.Borrador = nil
	})
	utils.LogEvent(s.RequestID, "staging", "set_guias", fmt.Sprintf("correo=%s guias=%d", correo, len(guias)))
	return nil
}

// Snapshot returns a copy of the current session plus derived coverage.
type Snapshot struct {
	Guias        []models.Guia       `json:"guias"`
	Comprobantes []StagedComprobante `json:"comprobantes"`
	Bono         *models.Bono        `json:"bono,omitempty"`
	Borrador     *Borrador           `json:"borrador,omitempty"`
	Coverage     models.Coverage     `json:"cobertura"`
}

func (s StagingService) Snapshot(correo string) Snapshot {
	var snap Snapshot
	s.Store.withSession(correo, func(sess *StagingSession) {
		snap.Guias = append([]models.Guia(nil), sess.Guias...)
		snap.Comprobantes = append([]StagedComprobante(nil), sess.Comprobantes...)
		if sess.Bono != nil {
			b := *sess.Bono
			snap.Bono = &b
		}
		if sess.Borrador != nil {
			b := *sess.Borrador
			snap.Borrador = &b
		}
		snap.Coverage = coverage(sess)
	})
	return snap
}

// AddInput is the manual or OCR-assisted form submitted for staging.
type AddInput struct {
	Valor         float64
	Fecha         string
	Hora          string
	Tipo          string
	Entidad       string
	Referencia    string
	ArchivoNombre string
	ArchivoDatos  []byte
	Confirmado    bool
}

// AddComprobante runs the validation gates and appends the entry.
//
// Duplicate policy, two tiers:
//   - an entry identical in referencia, valor, fecha, hora, entidad and tipo
//     already staged: hard reject, no override;
//   - same referencia but different valor or fecha: legitimate for split
//     payments, so the add is only accepted with Confirmado set after the
//     caller showed the conflicting pair to the user.
func (s StagingService) AddComprobante(correo string, in AddInput) error {
	in.Fecha = utils.NormalizeFecha(in.Fecha)
	in.Hora = utils.NormalizeHoraDisplay(utils.TrimOrEmpty(in.Hora))
	in.Entidad = utils.NormalizeSpace(in.Entidad)
	in.Referencia = utils.TrimOrEmpty(in.Referencia)

	tipo := utils.SanitizeTipoPago(in.Tipo)
	if tipo == "" {
		return domain.ValidationError{Field: "tipo", Msg: "tipo de pago no permitido"}
	}
	if len(in.ArchivoDatos) == 0 {
		return domain.ValidationError{Field: "archivo", Msg: "el comprobante requiere un archivo adjunto"}
	}
	if in.Valor <= 0 {
		return domain.ValidationError{Field: "valor", Msg: "valor inválido"}
	}
	if in.Fecha == "" {
		return domain.ValidationError{Field: "fecha", Msg: "fecha inválida"}
	}
	if in.Referencia == "" {
		return domain.ValidationError{Field: "referencia", Msg: "referencia requerida"}
	}

	var addErr error
	s.Store.withSession(correo, func(sess *StagingSession) {
		for _, existing := range sess.Comprobantes {
			if existing.Referencia != in.Referencia {
				continue
			}
			if existing.Valor == in.Valor &&
				existing.Fecha == in.Fecha &&
				existing.Hora == in.Hora &&
				existing.Entidad == in.Entidad &&
				existing.Tipo == tipo {
				addErr = domain.ConflictError{
					Resource: "comprobante",
					Msg:      "comprobante duplicado: ya fue agregado",
					Existing: existing.Comprobante,
				}
				return
			}
			if !in.Confirmado {
				addErr = domain.ConflictError{
					Resource:             "comprobante",
					Msg:                  "la referencia ya existe con datos distintos; confirme si son pagos separados",
					RequiereConfirmacion: true,
					Existing:             existing.Comprobante,
				}
				return
			}
		}

		sess.Comprobantes = append(sess.Comprobantes, StagedComprobante{
			Comprobante: models.Comprobante{
				Valor:      in.Valor,
				Fecha:      in.Fecha,
				Hora:       in.Hora,
				Tipo:       tipo,
				Entidad:    in.Entidad,
				Referencia: in.Referencia,
			},
			Estado:        models.ComprobanteEnEspera,
			ArchivoNombre: in.ArchivoNombre,
			ArchivoDatos:  in.ArchivoDatos,
		})
		sess.Borrador = nil
	})

	if addErr != nil {
		return addErr
	}
	utils.LogEvent(s.RequestID, "staging", "add", fmt.Sprintf("correo=%s ref=%s", correo, in.Referencia))
	return nil
}

// RemoveByReferencia drops every staged entry sharing the reference and
// returns how many were removed. Split payments share a reference and go
// down together.
func (s StagingService) RemoveByReferencia(correo, referencia string) int {
	referencia = utils.TrimOrEmpty(referencia)
	removed := 0
	s.Store.withSession(correo, func(sess *StagingSession) {
		kept := sess.Comprobantes[:0]
		for _, c := range sess.Comprobantes {
			if c.Referencia == referencia {
				removed++
				continue
			}
			kept = append(kept, c)
		}
		sess.Comprobantes = kept
	})
	if removed > 0 {
		utils.LogEvent(s.RequestID, "staging", "remove", fmt.Sprintf("correo=%s ref=%s n=%d", correo, referencia, removed))
	}
	return removed
}

// AplicarBono applies one bonus to the session, replacing any previous pick
// (radio-button semantics).
func (s StagingService) AplicarBono(correo string, bono models.Bono) error {
	if bono.Estado != models.BonoActivo || bono.SaldoDisponible <= 0 {
		return domain.ValidationError{Field: "bono", Msg: "bono no disponible"}
	}
	s.Store.withSession(correo, func(sess *StagingSession) {
		b := bono
		sess.Bono = &b
	})
	return nil
}

func (s StagingService) QuitarBono(correo string) {
	s.Store.withSession(correo, func(sess *StagingSession) {
		sess.Bono = nil
	})
}

// Coverage recomputes totals for the session.
func (s StagingService) Coverage(correo string) models.Coverage {
	var cov models.Coverage
	s.Store.withSession(correo, func(sess *StagingSession) {
		cov = coverage(sess)
	})
	return cov
}

const centavo = 0.01

func coverage(sess *StagingSession) models.Coverage {
	var cov models.Coverage
	for _, g := range sess.Guias {
		cov.TotalGuias += g.Valor
	}
	for _, c := range sess.Comprobantes {
		cov.TotalComprobantes += c.Valor
	}
	if sess.Bono != nil {
		cov.BonoAplicado = sess.Bono.SaldoDisponible
	}
	cov.Cobertura = cov.TotalComprobantes + cov.BonoAplicado

	diff := cov.TotalGuias - cov.Cobertura
	if diff > centavo {
		cov.Faltante = diff
	} else if -diff > centavo {
		cov.Excedente = -diff
	}
	return cov
}
