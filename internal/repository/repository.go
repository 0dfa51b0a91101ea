package repository

import "database/sql"

// Queryer is satisfied by both *sql.DB and *sql.Tx so oracle checks can run
// inside or outside a transaction.
type Queryer interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Exec(query string, args ...interface{}) (sql.Result, error)
}
