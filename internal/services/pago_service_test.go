package services

import (
	"testing"
	"time"

	"xcargo/internal/domain"
	"xcargo/internal/domain/models"
	"xcargo/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func newPagoService(t *testing.T) (PagoService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := NewStagingStore(time.Minute)
	t.Cleanup(store.Close)

	return PagoService{
		PagoRepo:   repositories.PagoRepository{DB: db},
		BonoRepo:   repositories.BonoRepository{DB: db},
		Staging:    StagingService{Store: store},
		UploadsDir: t.TempDir(),
	}, mock
}

func TestRegistrarHappyPath(t *testing.T) {
	svc, mock := newPagoService(t)

	_ = svc.Staging.SetGuias("c@xcargo.co", guiasDe(150000))
	in := baseInput()
	in.Valor = 150000
	if err := svc.Staging.AddComprobante("c@xcargo.co", in); err != nil {
		t.Fatalf("stage error: %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO pagos").WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("INSERT INTO pago_comprobantes").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO pago_guias").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	res, err := svc.Registrar("c@xcargo.co")
	if err != nil {
		t.Fatalf("Registrar error: %v", err)
	}
	if res.PagoID != 11 {
		t.Fatalf("pago id = %d, want 11", res.PagoID)
	}
	if res.NuevoBono != nil {
		t.Fatalf("exact coverage must not issue a bono")
	}

	// Submission is ledger-wide: the session is gone afterwards.
	if n := len(svc.Staging.Snapshot("c@xcargo.co").Comprobantes); n != 0 {
		t.Fatalf("session should be cleared after submit, got %d entries", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRegistrarBlocksOnShortfall(t *testing.T) {
	svc, mock := newPagoService(t)

	_ = svc.Staging.SetGuias("c@xcargo.co", guiasDe(150000))
	in := baseInput()
	in.Valor = 100000
	_ = svc.Staging.AddComprobante("c@xcargo.co", in)

	_, err := svc.Registrar("c@xcargo.co")
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error for shortfall, got %v", err)
	}
	// No DB call may happen on a blocked submit.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected DB activity: %v", err)
	}
	if n := len(svc.Staging.Snapshot("c@xcargo.co").Comprobantes); n != 1 {
		t.Fatalf("blocked submit must keep the ledger intact")
	}
}

func TestRegistrarLateTipoGate(t *testing.T) {
	svc, mock := newPagoService(t)

	_ = svc.Staging.SetGuias("c@xcargo.co", guiasDe(100000))
	_ = svc.Staging.AddComprobante("c@xcargo.co", baseInput())

	// Corrupt the staged entry behind the add-time gate to prove the
	// send-time gate stands on its own.
	svc.Staging.Store.withSession("c@xcargo.co", func(sess *StagingSession) {
		sess.Comprobantes[0].Tipo = "efectivo"
	})

	_, err := svc.Registrar("c@xcargo.co")
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error from late gate, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected DB activity: %v", err)
	}
}

func TestRegistrarIssuesBonoFromExcedente(t *testing.T) {
	svc, mock := newPagoService(t)

	_ = svc.Staging.SetGuias("c@xcargo.co", guiasDe(100000))
	in := baseInput()
	in.Valor = 130000
	_ = svc.Staging.AddComprobante("c@xcargo.co", in)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO pagos").WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec("INSERT INTO pago_comprobantes").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO pago_guias").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectExec("INSERT INTO bonos").WillReturnResult(sqlmock.NewResult(1, 1))

	res, err := svc.Registrar("c@xcargo.co")
	if err != nil {
		t.Fatalf("Registrar error: %v", err)
	}
	if res.NuevoBono == nil {
		t.Fatalf("expected a new bono from the overage")
	}
	if res.NuevoBono.SaldoDisponible != 30000 {
		t.Fatalf("bono saldo = %v, want 30000", res.NuevoBono.SaldoDisponible)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAsignarComprobantes(t *testing.T) {
	guias := []models.Guia{
		{Referencia: "G-1", Valor: 60000},
		{Referencia: "G-2", Valor: 60000},
		{Referencia: "G-3", Valor: 30000},
	}
	comps := []StagedComprobante{
		{Comprobante: models.Comprobante{Valor: 100000, Referencia: "A"}},
		{Comprobante: models.Comprobante{Valor: 50000, Referencia: "B"}},
	}

	links := asignarComprobantes(guias, comps)
	if len(links) != 3 {
		t.Fatalf("expected 3 links, got %d", len(links))
	}
	want := []int{0, 0, 1}
	for i, l := range links {
		if l.ComprobanteIdx != want[i] {
			t.Errorf("guia %s idx = %d, want %d", l.Referencia, l.ComprobanteIdx, want[i])
		}
	}
}
