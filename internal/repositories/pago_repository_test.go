package repositories

import (
	"testing"

	"xcargo/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestReferenciaUsada(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\)").
		WithArgs("M12345678", "nequi").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\)").
		WithArgs("M99999999", "nequi").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	repo := PagoRepository{DB: db}

	used, err := repo.ReferenciaUsada("M12345678", "nequi")
	if err != nil {
		t.Fatalf("ReferenciaUsada error: %v", err)
	}
	if !used {
		t.Fatalf("expected reference to be reported as used")
	}

	used, err = repo.ReferenciaUsada("M99999999", "nequi")
	if err != nil {
		t.Fatalf("ReferenciaUsada error: %v", err)
	}
	if used {
		t.Fatalf("expected reference to be reported as free")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReferenciaUsadaRejectsEmpty(t *testing.T) {
	repo := PagoRepository{}
	if _, err := repo.ReferenciaUsada("   ", "nequi"); err == nil {
		t.Fatalf("expected error for empty reference")
	}
}

func TestCreatePagoPersistsBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO pagos").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO pago_comprobantes").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO pago_comprobantes").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("INSERT INTO pago_guias").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := PagoRepository{DB: db}

	p := models.Pago{
		Correo:     "conductor@xcargo.co",
		ValorTotal: 150000,
		Fecha:      "2025-01-15",
		Hora:       "10:30:00",
		Tipo:       "consignacion",
		Entidad:    "Bancolombia",
		Referencia: "4587236915",
		Estado:     "pendiente",
		Comprobantes: []models.Comprobante{
			{Valor: 100000, Fecha: "2025-01-15", Hora: "10:30", Tipo: "consignacion", Referencia: "4587236915"},
			{Valor: 50000, Fecha: "2025-01-15", Hora: "11:00", Tipo: "nequi", Referencia: "M12345678"},
		},
	}
	guias := []models.PagoGuia{
		{Referencia: "G-001", Valor: 150000, ComprobanteIdx: 0},
	}

	id, err := repo.CreatePago(p, guias)
	if err != nil {
		t.Fatalf("CreatePago error: %v", err)
	}
	if id != 7 {
		t.Fatalf("expected pago id 7, got %d", id)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreatePagoRollsBackOnLinkFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO pagos").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec("INSERT INTO pago_comprobantes").
		WillReturnError(errDummy{})
	mock.ExpectRollback()

	repo := PagoRepository{DB: db}
	p := models.Pago{
		Correo:       "conductor@xcargo.co",
		Comprobantes: []models.Comprobante{{Valor: 1}},
	}

	if _, err := repo.CreatePago(p, nil); err == nil {
		t.Fatalf("expected error to propagate")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

type errDummy struct{}

func (errDummy) Error() string { return "exec failed" }
