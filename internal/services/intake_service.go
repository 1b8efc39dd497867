package services

import (
	"context"
	"fmt"

	"xcargo/internal/domain/models"
	"xcargo/internal/ocr"
	"xcargo/internal/utils"
)

// Extraction quality below this produces a non-blocking warning.
const umbralConfianza = 70

// Extractor is the slice of the OCR client the intake needs.
type Extractor interface {
	Extract(ctx context.Context, filename string, data []byte) (ocr.Extraction, error)
}

// ReferenceChecker reports whether a comprobante reference was already
// registered for a payment type.
type ReferenceChecker interface {
	ReferenciaUsada(referencia, tipo string) (bool, error)
}

// IntakeService folds an OCR extraction into the session draft. Transport
// failures surface to the caller and leave the manual form path open; only
// an already-used nequi reference blocks the flow outright.
type IntakeService struct {
	OCR       Extractor
	PagoRepo  ReferenceChecker
	Store     *StagingStore
	RequestID string
}

// IntakeResult is what the form receives after an extraction round.
type IntakeResult struct {
	Comprobante   models.Comprobante `json:"comprobante"`
	Advertencias  []string           `json:"advertencias,omitempty"`
	Confianza     float64            `json:"confianza"`
	CalidadImagen float64            `json:"calidad_imagen"`

	// PermitirRegistro false means hard block: the draft was cleared and a
	// new capture/edit cycle must begin.
	PermitirRegistro bool `json:"permitir_registro"`
	// Descartado marks a stale result that arrived after a newer capture;
	// it did not touch the session draft.
	Descartado bool   `json:"descartado,omitempty"`
	Mensaje    string `json:"mensaje,omitempty"`
}

func (s IntakeService) Extraer(ctx context.Context, correo, filename string, data []byte) (IntakeResult, error) {
	gen := s.Store.BeginDraft(correo)
	utils.LogEvent(s.RequestID, "intake", "extract_start", fmt.Sprintf("correo=%s file=%s gen=%d", correo, filename, gen))

	ext, err := s.OCR.Extract(ctx, filename, data)
	if err != nil {
		// Manual entry stays available; nothing was staged.
		utils.LogEvent(s.RequestID, "intake", "extract_failed", err.Error())
		return IntakeResult{}, err
	}

	draft := models.Comprobante{
		Valor:      utils.ParseMonto(ext.Valor),
		Fecha:      utils.NormalizeFecha(ext.Fecha),
		Hora:       utils.NormalizeHoraDisplay(ext.Hora),
		Tipo:       utils.SanitizeTipoPago(ext.Tipo),
		Entidad:    utils.NormalizeSpace(ext.Entidad),
		Referencia: utils.TrimOrEmpty(ext.Referencia),
	}

	var advertencias []string
	if draft.Tipo == "" && utils.TrimOrEmpty(ext.Tipo) != "" {
		advertencias = append(advertencias, fmt.Sprintf("tipo detectado %q no permitido; seleccione el tipo manualmente", ext.Tipo))
	}
	if ext.Confianza > 0 && ext.Confianza < umbralConfianza {
		advertencias = append(advertencias, fmt.Sprintf("confianza de extracción baja (%.0f); verifique los datos", ext.Confianza))
	}

	if draft.Tipo == utils.TipoNequi && draft.Referencia != "" {
		usada, err := s.PagoRepo.ReferenciaUsada(draft.Referencia, utils.TipoNequi)
		if err != nil {
			// Verification outage degrades to a warning, never a block.
			advertencias = append(advertencias, "no se pudo verificar la referencia; revise antes de registrar")
			utils.LogEvent(s.RequestID, "intake", "ref_check_failed", err.Error())
		} else if usada {
			s.Store.ClearDraft(correo)
			utils.LogEvent(s.RequestID, "intake", "ref_in_use", fmt.Sprintf("correo=%s ref=%s", correo, draft.Referencia))
			return IntakeResult{
				PermitirRegistro: false,
				Mensaje:          fmt.Sprintf("la referencia %s ya fue registrada; capture un comprobante distinto", draft.Referencia),
			}, nil
		}
	}

	committed := s.Store.CommitDraft(correo, Borrador{
		Comprobante:   draft,
		Advertencias:  advertencias,
		Confianza:     ext.Confianza,
		CalidadImagen: ext.CalidadImagen,
		Gen:           gen,
	})
	if !committed {
		utils.LogEvent(s.RequestID, "intake", "stale_discarded", fmt.Sprintf("correo=%s gen=%d", correo, gen))
		return IntakeResult{
			PermitirRegistro: true,
			Descartado:       true,
			Mensaje:          "resultado descartado: existe una captura más reciente",
		}, nil
	}

	return IntakeResult{
		Comprobante:      draft,
		Advertencias:     advertencias,
		Confianza:        ext.Confianza,
		CalidadImagen:    ext.CalidadImagen,
		PermitirRegistro: true,
	}, nil
}
