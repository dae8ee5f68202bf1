package repositories

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// Querier is satisfied by both *sql.DB and *sql.Tx so repository
// methods can run standalone or inside a caller-owned transaction.
type Querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// IsDuplicate reports whether err is a MySQL unique-key violation.
func IsDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
