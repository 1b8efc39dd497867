package db

import "database/sql"

// QueryRower is satisfied by *sql.DB and *sql.Tx alike.
type QueryRower interface {
	QueryRow(query string, args ...any) *sql.Row
}

// NullIfEmpty helps store optional strings without wiping existing data.
func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func HasTable(q QueryRower, table string) bool {
	var name sql.NullString
	err := q.QueryRow(`
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1
	`, table).Scan(&name)

	if err != nil {
		return false
	}
	return name.Valid && name.String != ""
}

func HasColumn(q QueryRower, table, column string) bool {
	var name sql.NullString
	err := q.QueryRow(`
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		  AND column_name = ?
		LIMIT 1
	`, table, column).Scan(&name)

	if err != nil {
		return false
	}
	return name.Valid && name.String != ""
}
