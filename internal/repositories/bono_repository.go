package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	intconfig "xcargo/internal/config"
	"xcargo/internal/domain"
	"xcargo/internal/domain/models"
)

type BonoRepository struct {
	DB *sql.DB
}

func (r BonoRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// ListActivos returns the usable bonuses for a conductor plus total balance.
func (r BonoRepository) ListActivos(correo string) ([]models.Bono, float64, error) {
	correo = strings.TrimSpace(correo)
	if correo == "" {
		return nil, 0, fmt.Errorf("correo vacío")
	}
	db := r.db()
	if db == nil {
		return nil, 0, fmt.Errorf("base de datos no disponible")
	}

	rows, err := db.Query(`
		SELECT id,
		       COALESCE(correo,''),
		       COALESCE(referencia_pago,''),
		       COALESCE(saldo_disponible,0),
		       COALESCE(estado,''),
		       COALESCE(DATE_FORMAT(creado_en,'%Y-%m-%d %H:%i:%s'),'')
		FROM bonos
		WHERE correo = ? AND estado = ? AND saldo_disponible > 0
		ORDER BY creado_en ASC
	`, correo, models.BonoActivo)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	bonos := []models.Bono{}
	var total float64
	for rows.Next() {
		var b models.Bono
		if err := rows.Scan(&b.ID, &b.Correo, &b.ReferenciaPago, &b.SaldoDisponible, &b.Estado, &b.CreadoEn); err != nil {
			return nil, 0, err
		}
		total += b.SaldoDisponible
		bonos = append(bonos, b)
	}
	return bonos, total, rows.Err()
}

// GetActivo loads one bonus and verifies it belongs to the conductor and is
// still usable.
func (r BonoRepository) GetActivo(id, correo string) (models.Bono, error) {
	db := r.db()
	if db == nil {
		return models.Bono{}, fmt.Errorf("base de datos no disponible")
	}

	var b models.Bono
	err := db.QueryRow(`
		SELECT id,
		       COALESCE(correo,''),
		       COALESCE(referencia_pago,''),
		       COALESCE(saldo_disponible,0),
		       COALESCE(estado,''),
		       COALESCE(DATE_FORMAT(creado_en,'%Y-%m-%d %H:%i:%s'),'')
		FROM bonos
		WHERE id = ? AND correo = ? LIMIT 1
	`, id, correo).Scan(&b.ID, &b.Correo, &b.ReferenciaPago, &b.SaldoDisponible, &b.Estado, &b.CreadoEn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Bono{}, domain.NotFoundError{Resource: "bono"}
		}
		return models.Bono{}, err
	}
	if b.Estado != models.BonoActivo || b.SaldoDisponible <= 0 {
		return models.Bono{}, domain.ValidationError{Field: "bono", Msg: "sin saldo disponible o no activo"}
	}
	return b, nil
}

// Create issues a new bonus from a payment overage.
func (r BonoRepository) Create(b models.Bono) error {
	db := r.db()
	if db == nil {
		return fmt.Errorf("base de datos no disponible")
	}
	_, err := db.Exec(`
		INSERT INTO bonos (id, correo, referencia_pago, saldo_disponible, estado, creado_en)
		VALUES (?, ?, ?, ?, ?, NOW())
	`, b.ID, b.Correo, b.ReferenciaPago, b.SaldoDisponible, b.Estado)
	return err
}

// Consumir deducts an applied amount; a bonus drained to zero flips to
// agotado in the same statement.
func (r BonoRepository) Consumir(id string, monto float64) error {
	db := r.db()
	if db == nil {
		return fmt.Errorf("base de datos no disponible")
	}
	res, err := db.Exec(`
		UPDATE bonos
		SET saldo_disponible = saldo_disponible - ?,
		    estado = CASE WHEN saldo_disponible - ? <= 0 THEN ? ELSE estado END
		WHERE id = ? AND estado = ? AND saldo_disponible >= ?
	`, monto, monto, models.BonoAgotado, id, models.BonoActivo, monto)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("bono sin saldo suficiente")
	}
	return nil
}
