package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	intconfig "xcargo/internal/config"
	intdb "xcargo/internal/db"
	"xcargo/internal/domain/models"
)

type PagoRepository struct {
	DB *sql.DB
}

func (r PagoRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// ReferenciaUsada reports whether a comprobante reference of the given type
// was already registered. Backs the secondary check for nequi proofs.
func (r PagoRepository) ReferenciaUsada(referencia, tipo string) (bool, error) {
	referencia = strings.TrimSpace(referencia)
	if referencia == "" {
		return false, fmt.Errorf("referencia vacía")
	}
	db := r.db()
	if db == nil {
		return false, fmt.Errorf("base de datos no disponible")
	}

	var count int
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM pago_comprobantes
		WHERE referencia = ? AND tipo = ?
	`, referencia, tipo).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreatePago persists one submitted batch inside a transaction: the master
// row, one row per comprobante and the guide links tagged with the index of
// the comprobante that pays them.
func (r PagoRepository) CreatePago(p models.Pago, guias []models.PagoGuia) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, fmt.Errorf("base de datos no disponible")
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
		INSERT INTO pagos
			(correo, valor_total, fecha, hora, tipo, entidad, referencia, estado, bono_aplicado, creado_en)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())
	`,
		p.Correo,
		p.ValorTotal,
		intdb.NullIfEmpty(p.Fecha),
		p.Hora,
		p.Tipo,
		p.Entidad,
		p.Referencia,
		p.Estado,
		p.BonoAplicado,
	)
	if err != nil {
		return 0, err
	}
	pagoID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for idx, comp := range p.Comprobantes {
		if _, err := tx.Exec(`
			INSERT INTO pago_comprobantes
				(pago_id, idx, valor, fecha, hora, tipo, entidad, referencia, archivo)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, pagoID, idx, comp.Valor, intdb.NullIfEmpty(comp.Fecha), comp.Hora, comp.Tipo, comp.Entidad, comp.Referencia, comp.Archivo); err != nil {
			return 0, err
		}
	}

	for _, g := range guias {
		if _, err := tx.Exec(`
			INSERT INTO pago_guias
				(pago_id, referencia, tracking, cliente, valor, comprobante_idx)
			VALUES (?, ?, ?, ?, ?, ?)
		`, pagoID, g.Referencia, g.Tracking, g.Cliente, g.Valor, g.ComprobanteIdx); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return pagoID, nil
}

// HistorialFilter narrows the payment history listing.
type HistorialFilter struct {
	Correo      string
	Tipo        string
	FechaInicio string
	FechaFin    string
	Page        int
	PageSize    int
}

// ListHistorial returns submitted payments newest first.
func (r PagoRepository) ListHistorial(f HistorialFilter) ([]models.Pago, error) {
	db := r.db()
	if db == nil {
		return nil, fmt.Errorf("base de datos no disponible")
	}

	where := []string{"1=1"}
	args := []any{}
	if f.Correo != "" {
		where = append(where, "correo = ?")
		args = append(args, f.Correo)
	}
	if f.Tipo != "" {
		where = append(where, "tipo = ?")
		args = append(args, f.Tipo)
	}
	if f.FechaInicio != "" {
		where = append(where, "fecha >= ?")
		args = append(args, f.FechaInicio)
	}
	if f.FechaFin != "" {
		where = append(where, "fecha <= ?")
		args = append(args, f.FechaFin)
	}

	query := `
		SELECT id,
		       COALESCE(correo,''),
		       COALESCE(valor_total,0),
		       COALESCE(DATE_FORMAT(fecha,'%Y-%m-%d'),''),
		       COALESCE(hora,''),
		       COALESCE(tipo,''),
		       COALESCE(entidad,''),
		       COALESCE(referencia,''),
		       COALESCE(estado,''),
		       COALESCE(bono_aplicado,0),
		       COALESCE(DATE_FORMAT(creado_en,'%Y-%m-%d %H:%i:%s'),'')
		FROM pagos
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY id DESC`

	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, f.PageSize, (page-1)*f.PageSize)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pagos := []models.Pago{}
	for rows.Next() {
		var p models.Pago
		if err := rows.Scan(
			&p.ID,
			&p.Correo,
			&p.ValorTotal,
			&p.Fecha,
			&p.Hora,
			&p.Tipo,
			&p.Entidad,
			&p.Referencia,
			&p.Estado,
			&p.BonoAplicado,
			&p.CreadoEn,
		); err != nil {
			return nil, err
		}
		pagos = append(pagos, p)
	}
	return pagos, rows.Err()
}

// GetByID loads a payment with its comprobantes and guide links.
func (r PagoRepository) GetByID(id int64) (models.Pago, error) {
	db := r.db()
	if db == nil {
		return models.Pago{}, fmt.Errorf("base de datos no disponible")
	}

	var p models.Pago
	err := db.QueryRow(`
		SELECT id,
		       COALESCE(correo,''),
		       COALESCE(valor_total,0),
		       COALESCE(DATE_FORMAT(fecha,'%Y-%m-%d'),''),
		       COALESCE(hora,''),
		       COALESCE(tipo,''),
		       COALESCE(entidad,''),
		       COALESCE(referencia,''),
		       COALESCE(estado,''),
		       COALESCE(bono_aplicado,0),
		       COALESCE(DATE_FORMAT(creado_en,'%Y-%m-%d %H:%i:%s'),'')
		FROM pagos
		WHERE id = ? LIMIT 1
	`, id).Scan(
		&p.ID,
		&p.Correo,
		&p.ValorTotal,
		&p.Fecha,
		&p.Hora,
		&p.Tipo,
		&p.Entidad,
		&p.Referencia,
		&p.Estado,
		&p.BonoAplicado,
		&p.CreadoEn,
	)
	if err != nil {
		return models.Pago{}, err
	}

	comps, err := db.Query(`
		SELECT COALESCE(valor,0),
		       COALESCE(DATE_FORMAT(fecha,'%Y-%m-%d'),''),
		       COALESCE(hora,''),
		       COALESCE(tipo,''),
		       COALESCE(entidad,''),
		       COALESCE(referencia,''),
		       COALESCE(archivo,'')
		FROM pago_comprobantes
		WHERE pago_id = ?
		ORDER BY idx ASC
	`, id)
	if err != nil {
		return models.Pago{}, err
	}
	defer comps.Close()
	for comps.Next() {
		var c models.Comprobante
		if err := comps.Scan(&c.Valor, &c.Fecha, &c.Hora, &c.Tipo, &c.Entidad, &c.Referencia, &c.Archivo); err != nil {
			return models.Pago{}, err
		}
		p.Comprobantes = append(p.Comprobantes, c)
	}
	if err := comps.Err(); err != nil {
		return models.Pago{}, err
	}

	links, err := db.Query(`
		SELECT COALESCE(referencia,''),
		       COALESCE(tracking,''),
		       COALESCE(cliente,''),
		       COALESCE(valor,0),
		       COALESCE(comprobante_idx,0)
		FROM pago_guias
		WHERE pago_id = ?
		ORDER BY id ASC
	`, id)
	if err != nil {
		return models.Pago{}, err
	}
	defer links.Close()
	for links.Next() {
		var g models.PagoGuia
		if err := links.Scan(&g.Referencia, &g.Tracking, &g.Cliente, &g.Valor, &g.ComprobanteIdx); err != nil {
			return models.Pago{}, err
		}
		p.Guias = append(p.Guias, g)
	}
	return p, links.Err()
}
