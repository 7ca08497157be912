package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrorDump flattens an error chain for structured logs.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Chain      []string `json:"chain,omitempty"`

	// Driver holds the database family that produced the error, if any.
	Driver     string `json:"db_driver,omitempty"`
	DBCode     string `json:"db_code,omitempty"`
	Constraint string `json:"db_constraint,omitempty"`
	Table      string `json:"db_table,omitempty"`
	Column     string `json:"db_column,omitempty"`
	Detail     string `json:"db_detail,omitempty"`
}

// sqlite reports constraint failures only through the message text,
// e.g. "UNIQUE constraint failed: stores.store_id".
var sqliteConstraintKinds = []string{"UNIQUE", "FOREIGN KEY", "NOT NULL", "CHECK"}

// Dump walks err and extracts the database diagnostics it carries.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		d.Driver = "postgres"
		d.DBCode = pgxErr.Code
		d.Constraint = pgxErr.ConstraintName
		d.Table = pgxErr.TableName
		d.Column = pgxErr.ColumnName
		d.Detail = pgxErr.Detail
		return d
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		d.Driver = "postgres"
		d.DBCode = string(pqErr.Code)
		d.Constraint = pqErr.Constraint
		d.Table = pqErr.Table
		d.Column = pqErr.Column
		d.Detail = pqErr.Detail
		return d
	}

	for e := err; e != nil && d.Driver == ""; e = errors.Unwrap(e) {
		dumpSQLite(&d, e.Error())
	}
	return d
}

func dumpSQLite(d *ErrorDump, msg string) {
	for _, kind := range sqliteConstraintKinds {
		marker := kind + " constraint failed"
		idx := strings.Index(msg, marker)
		if idx < 0 {
			continue
		}
		d.Driver = "sqlite"
		d.DBCode = kind
		target := strings.TrimSpace(strings.TrimPrefix(msg[idx+len(marker):], ":"))
		if target == "" {
			return
		}
		// Composite keys are listed comma separated; the first names the table.
		first := strings.TrimSpace(strings.Split(target, ",")[0])
		d.Constraint = target
		if table, column, ok := strings.Cut(first, "."); ok {
			d.Table = table
			d.Column = column
		}
		return
	}
}
