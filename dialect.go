package crud

import (
	"context"
	"fmt"
	"strings"
)

// Dialect captures what differs between database engines: identifier
// quoting, single-row statement suffixes and index metadata.
type Dialect interface {
	// DriverName is the database/sql driver name; it also selects the
	// placeholder style through sqlx.
	DriverName() string
	QuoteIdent(name string) string
	// SingleRowSuffix is appended to UPDATE and DELETE statements.
	SingleRowSuffix() string
	// IndexQuery returns a query yielding one row per indexed column with
	// at least the columns Key_name and Column_name.
	IndexQuery(table string) string
}

// PrimaryKeyResolver finds the primary-key column of a table.
type PrimaryKeyResolver interface {
	ResolvePrimaryKey(ctx context.Context, table string) (string, error)
}

// MySQL is the default dialect.
var MySQL Dialect = mysqlDialect{}

// Postgres emulates MySQL's SHOW INDEX shape over pg_index.
var Postgres Dialect = postgresDialect{}

// DialectFor returns the built-in dialect registered for driver.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "", "mysql":
		return MySQL, nil
	case "postgres", "postgresql", "pq":
		return Postgres, nil
	}
	return nil, fmt.Errorf("crud: unsupported driver %q", driver)
}

type mysqlDialect struct{}

func (mysqlDialect) DriverName() string { return "mysql" }

func (mysqlDialect) QuoteIdent(name string) string { return "`" + name + "`" }

func (mysqlDialect) SingleRowSuffix() string { return " LIMIT 1" }

func (mysqlDialect) IndexQuery(table string) string {
	return "SHOW INDEX FROM " + table
}

type postgresDialect struct{}

func (postgresDialect) DriverName() string { return "postgres" }

func (postgresDialect) QuoteIdent(name string) string { return `"` + name + `"` }

// PostgreSQL has no LIMIT on UPDATE or DELETE; the primary key already
// restricts the statement to one row.
func (postgresDialect) SingleRowSuffix() string { return "" }

func (postgresDialect) IndexQuery(table string) string {
	lit := "'" + strings.ReplaceAll(table, "'", "''") + "'"
	return `SELECT CASE WHEN i.indisprimary THEN 'PRIMARY' ELSE c.relname END AS "Key_name", ` +
		`a.attname AS "Column_name" ` +
		`FROM pg_index i ` +
		`JOIN pg_class c ON c.oid = i.indexrelid ` +
		`JOIN pg_attribute a ON a.attrelid = i.indrelid AND a.attnum = ANY(i.indkey) ` +
		`WHERE i.indrelid = ` + lit + `::regclass`
}

// primaryKeyFrom scans index rows for the first whose Key_name is
// "primary" in any case.
func primaryKeyFrom(rows []Record) (string, bool) {
	for _, row := range rows {
		key, ok := row.Lookup("Key_name")
		if !ok || !strings.EqualFold(key.String(), "primary") {
			continue
		}
		col, ok := row.Lookup("Column_name")
		if !ok || col.String() == "" {
			continue
		}
		return col.String(), true
	}
	return "", false
}
