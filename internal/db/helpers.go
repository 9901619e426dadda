package db

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// Queryer and Execer are satisfied by both *sql.DB and *sql.Tx so repository
// methods can run standalone or inside a transaction.
type Queryer interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
}

type Execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// NullIfEmpty helps store optional strings without wiping existing data.
func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// IsDuplicateKey reports a MySQL unique-constraint violation (error 1062).
// The verification ledger leans on this to resolve concurrent first scans.
func IsDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
