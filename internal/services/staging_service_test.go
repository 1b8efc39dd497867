package services

import (
	"testing"
	"time"

	"xcargo/internal/domain"
	"xcargo/internal/domain/models"
)

func newTestStaging(t *testing.T) StagingService {
	t.Helper()
	store := NewStagingStore(time.Minute)
	t.Cleanup(store.Close)
	return StagingService{Store: store}
}

func guiasDe(valores ...float64) []models.Guia {
	out := make([]models.Guia, 0, len(valores))
	for i, v := range valores {
		out = append(out, models.Guia{Referencia: rune2ref(i), Valor: v})
	}
	return out
}

func rune2ref(i int) string {
	return "G-" + string(rune('A'+i))
}

func baseInput() AddInput {
	return AddInput{
		Valor:         100000,
		Fecha:         "2025-01-01",
		Hora:          "10:30",
		Tipo:          "consignacion",
		Entidad:       "Bancolombia",
		Referencia:    "A",
		ArchivoNombre: "comprobante.jpg",
		ArchivoDatos:  []byte("img"),
	}
}

func TestAddRejectsInvalidTipo(t *testing.T) {
	svc := newTestStaging(t)
	if err := svc.SetGuias("c@xcargo.co", guiasDe(100000)); err != nil {
		t.Fatalf("SetGuias error: %v", err)
	}

	in := baseInput()
	in.Tipo = "Bancolombia"
	err := svc.AddComprobante("c@xcargo.co", in)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error for off-enum tipo, got %v", err)
	}
	if n := len(svc.Snapshot("c@xcargo.co").Comprobantes); n != 0 {
		t.Fatalf("nothing should be staged, got %d entries", n)
	}
}

func TestAddRequiresFile(t *testing.T) {
	svc := newTestStaging(t)
	_ = svc.SetGuias("c@xcargo.co", guiasDe(100000))

	in := baseInput()
	in.ArchivoDatos = nil
	if err := svc.AddComprobante("c@xcargo.co", in); !domain.IsValidation(err) {
		t.Fatalf("expected validation error without file, got %v", err)
	}
}

func TestExactDuplicateRejectedWithoutPrompt(t *testing.T) {
	svc := newTestStaging(t)
	_ = svc.SetGuias("c@xcargo.co", guiasDe(300000))

	if err := svc.AddComprobante("c@xcargo.co", baseInput()); err != nil {
		t.Fatalf("first add error: %v", err)
	}

	err := svc.AddComprobante("c@xcargo.co", baseInput())
	conflict, ok := domain.AsConflict(err)
	if !ok {
		t.Fatalf("expected conflict, got %v", err)
	}
	if conflict.RequiereConfirmacion {
		t.Fatalf("exact duplicate must be rejected outright, not offered for confirmation")
	}

	// Confirmation must not override an exact duplicate either.
	in := baseInput()
	in.Confirmado = true
	if err := svc.AddComprobante("c@xcargo.co", in); !domain.IsConflict(err) {
		t.Fatalf("confirmado should not bypass exact-duplicate rule, got %v", err)
	}
}

func TestSameReferenceDifferentDataNeedsConfirmation(t *testing.T) {
	svc := newTestStaging(t)
	_ = svc.SetGuias("c@xcargo.co", guiasDe(300000))

	if err := svc.AddComprobante("c@xcargo.co", baseInput()); err != nil {
		t.Fatalf("first add error: %v", err)
	}

	in := baseInput()
	in.Valor = 200000
	err := svc.AddComprobante("c@xcargo.co", in)
	conflict, ok := domain.AsConflict(err)
	if !ok || !conflict.RequiereConfirmacion {
		t.Fatalf("expected confirmable conflict, got %v", err)
	}
	if conflict.Existing == nil {
		t.Fatalf("conflict should carry the existing counterpart for display")
	}
	if n := len(svc.Snapshot("c@xcargo.co").Comprobantes); n != 1 {
		t.Fatalf("declined add must not mutate the ledger, got %d entries", n)
	}

	in.Confirmado = true
	if err := svc.AddComprobante("c@xcargo.co", in); err != nil {
		t.Fatalf("confirmed add error: %v", err)
	}
	if n := len(svc.Snapshot("c@xcargo.co").Comprobantes); n != 2 {
		t.Fatalf("expected 2 staged entries after confirmation, got %d", n)
	}
}

func TestCoverageExactMatch(t *testing.T) {
	svc := newTestStaging(t)
	_ = svc.SetGuias("c@xcargo.co", guiasDe(150000))

	in := baseInput()
	in.Valor = 150000
	if err := svc.AddComprobante("c@xcargo.co", in); err != nil {
		t.Fatalf("add error: %v", err)
	}

	cov := svc.Coverage("c@xcargo.co")
	if cov.Faltante != 0 {
		t.Fatalf("faltante = %v, want 0", cov.Faltante)
	}
	if cov.Excedente != 0 {
		t.Fatalf("excedente = %v, want 0", cov.Excedente)
	}
}

func TestCoverageShortfall(t *testing.T) {
	svc := newTestStaging(t)
	_ = svc.SetGuias("c@xcargo.co", guiasDe(150000))

	in := baseInput()
	in.Valor = 100000
	if err := svc.AddComprobante("c@xcargo.co", in); err != nil {
		t.Fatalf("add error: %v", err)
	}

	cov := svc.Coverage("c@xcargo.co")
	if cov.Faltante != 50000 {
		t.Fatalf("faltante = %v, want 50000", cov.Faltante)
	}
}

func TestCoverageWithBonoAndExcedente(t *testing.T) {
	svc := newTestStaging(t)
	_ = svc.SetGuias("c@xcargo.co", guiasDe(150000))

	in := baseInput()
	in.Valor = 140000
	_ = svc.AddComprobante("c@xcargo.co", in)

	bono := models.Bono{ID: "b-1", Correo: "c@xcargo.co", SaldoDisponible: 30000, Estado: models.BonoActivo}
	if err := svc.AplicarBono("c@xcargo.co", bono); err != nil {
		t.Fatalf("AplicarBono error: %v", err)
	}

	cov := svc.Coverage("c@xcargo.co")
	if cov.Faltante != 0 {
		t.Fatalf("faltante = %v, want 0", cov.Faltante)
	}
	if cov.Excedente != 20000 {
		t.Fatalf("excedente = %v, want 20000", cov.Excedente)
	}

	svc.QuitarBono("c@xcargo.co")
	if cov := svc.Coverage("c@xcargo.co"); cov.Faltante != 10000 {
		t.Fatalf("faltante after removing bono = %v, want 10000", cov.Faltante)
	}
}

func TestRemoveByReferenciaRemovesSiblings(t *testing.T) {
	svc := newTestStaging(t)
	_ = svc.SetGuias("c@xcargo.co", guiasDe(300000))

	_ = svc.AddComprobante("c@xcargo.co", baseInput())

	split := baseInput()
	split.Valor = 200000
	split.Confirmado = true
	_ = svc.AddComprobante("c@xcargo.co", split)

	otro := baseInput()
	otro.Referencia = "B"
	_ = svc.AddComprobante("c@xcargo.co", otro)

	if n := svc.RemoveByReferencia("c@xcargo.co", "A"); n != 2 {
		t.Fatalf("expected 2 removals (split siblings go together), got %d", n)
	}
	snap := svc.Snapshot("c@xcargo.co")
	if len(snap.Comprobantes) != 1 || snap.Comprobantes[0].Referencia != "B" {
		t.Fatalf("unexpected ledger after removal: %+v", snap.Comprobantes)
	}
}

func TestSetGuiasResetsSession(t *testing.T) {
	svc := newTestStaging(t)
	_ = svc.SetGuias("c@xcargo.co", guiasDe(100000))
	_ = svc.AddComprobante("c@xcargo.co", baseInput())

	if err := svc.SetGuias("c@xcargo.co", guiasDe(80000, 20000)); err != nil {
		t.Fatalf("SetGuias error: %v", err)
	}
	snap := svc.Snapshot("c@xcargo.co")
	if len(snap.Comprobantes) != 0 {
		t.Fatalf("reloading guias must clear staged entries")
	}
	if len(snap.Guias) != 2 {
		t.Fatalf("expected 2 guias, got %d", len(snap.Guias))
	}
}

func TestSetGuiasValidation(t *testing.T) {
	svc := newTestStaging(t)
	if err := svc.SetGuias("c@xcargo.co", nil); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for empty guias, got %v", err)
	}
	if err := svc.SetGuias("c@xcargo.co", []models.Guia{{Referencia: "G", Valor: 0}}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for non-positive valor, got %v", err)
	}
}
