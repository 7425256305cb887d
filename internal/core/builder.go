// File: internal/core/builder.go
package core

import (
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

// bindvars numbers placeholders in the style of one sqlx bind type.
type bindvars struct {
	bindType int
	n        int
}

func (b *bindvars) next() string {
	b.n++
	switch b.bindType {
	case sqlx.DOLLAR:
		return "$" + strconv.Itoa(b.n)
	case sqlx.NAMED:
		return ":arg" + strconv.Itoa(b.n)
	case sqlx.AT:
		return "@p" + strconv.Itoa(b.n)
	}
	return "?"
}

// cond replaces every ? of a WHERE condition with the next placeholder.
func (b *bindvars) cond(c string) string {
	if !strings.Contains(c, "?") {
		return c
	}
	var sb strings.Builder
	for _, r := range c {
		if r == '?' {
			sb.WriteString(b.next())
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// term is one column of an INSERT or SET list: either bound through a
// placeholder or a raw expression emitted as given.
type term struct {
	col   string
	expr  string
	bound bool
}

// InsertBuilder assembles a single-row INSERT statement
type InsertBuilder struct {
	table    string
	bindType int
	quote    func(string) string
	terms    []term
	args     []interface{}
}

// NewInsertBuilder starts an INSERT whose placeholders follow bindType
// (one of the sqlx bind types).
func NewInsertBuilder(table string, bindType int) *InsertBuilder {
	return &InsertBuilder{table: table, bindType: bindType, quote: noQuote}
}

// Quote sets the identifier quoting applied to column names
func (b *InsertBuilder) Quote(fn func(string) string) *InsertBuilder {
	b.quote = fn
	return b
}

// Value adds a column bound through a positional placeholder
func (b *InsertBuilder) Value(col string, arg interface{}) *InsertBuilder {
	b.terms = append(b.terms, term{col: col, bound: true})
	b.args = append(b.args, arg)
	return b
}

// Expr adds a column whose value is spliced as raw SQL
func (b *InsertBuilder) Expr(col, expr string) *InsertBuilder {
	b.terms = append(b.terms, term{col: col, expr: expr})
	return b
}

// Build assembles the SQL query string and returns it with args
func (b *InsertBuilder) Build() (string, []interface{}) {
	bv := &bindvars{bindType: b.bindType}
	cols := make([]string, len(b.terms))
	values := make([]string, len(b.terms))
	for i, t := range b.terms {
		cols[i] = b.quote(t.col)
		if t.bound {
			values[i] = bv.next()
		} else {
			values[i] = t.expr
		}
	}
	query := "INSERT INTO " + b.table +
		" (" + strings.Join(cols, ", ") + ")" +
		" VALUES (" + strings.Join(values, ", ") + ")"
	return query, b.args
}

// UpdateBuilder assembles an UPDATE statement
type UpdateBuilder struct {
	table     string
	bindType  int
	sets      []term
	args      []interface{}
	whereOps  []string
	whereArgs []interface{}
	suffix    string
}

func NewUpdateBuilder(table string, bindType int) *UpdateBuilder {
	return &UpdateBuilder{table: table, bindType: bindType}
}

// Set assigns a column through a positional placeholder
func (b *UpdateBuilder) Set(col string, arg interface{}) *UpdateBuilder {
	b.sets = append(b.sets, term{col: col, bound: true})
	b.args = append(b.args, arg)
	return b
}

// SetExpr assigns a column a raw SQL expression
func (b *UpdateBuilder) SetExpr(col, expr string) *UpdateBuilder {
	b.sets = append(b.sets, term{col: col, expr: expr})
	return b
}

// Where adds a condition written with ? placeholders; they are renumbered
// for the bind type when the statement is built.
func (b *UpdateBuilder) Where(cond string, vals ...interface{}) *UpdateBuilder {
	b.whereOps = append(b.whereOps, cond)
	b.whereArgs = append(b.whereArgs, vals...)
	return b
}

// Suffix is appended verbatim after the WHERE clause (e.g. " LIMIT 1")
func (b *UpdateBuilder) Suffix(s string) *UpdateBuilder {
	b.suffix = s
	return b
}

// Build assembles the SQL query string and returns it with args; SET
// arguments precede WHERE arguments
func (b *UpdateBuilder) Build() (string, []interface{}) {
	bv := &bindvars{bindType: b.bindType}
	sets := make([]string, len(b.sets))
	for i, t := range b.sets {
		if t.bound {
			sets[i] = t.col + "=" + bv.next()
		} else {
			sets[i] = t.col + "=" + t.expr
		}
	}
	query := "UPDATE " + b.table + " SET " + strings.Join(sets, ", ")
	query += where(bv, b.whereOps)
	query += b.suffix
	args := make([]interface{}, 0, len(b.args)+len(b.whereArgs))
	args = append(args, b.args...)
	args = append(args, b.whereArgs...)
	return query, args
}

// DeleteBuilder assembles a DELETE statement
type DeleteBuilder struct {
	table    string
	bindType int
	whereOps []string
	args     []interface{}
	suffix   string
}

func NewDeleteBuilder(table string, bindType int) *DeleteBuilder {
	return &DeleteBuilder{table: table, bindType: bindType}
}

func (b *DeleteBuilder) Where(cond string, vals ...interface{}) *DeleteBuilder {
	b.whereOps = append(b.whereOps, cond)
	b.args = append(b.args, vals...)
	return b
}

func (b *DeleteBuilder) Suffix(s string) *DeleteBuilder {
	b.suffix = s
	return b
}

func (b *DeleteBuilder) Build() (string, []interface{}) {
	bv := &bindvars{bindType: b.bindType}
	return "DELETE FROM " + b.table + where(bv, b.whereOps) + b.suffix, b.args
}

func where(bv *bindvars, conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	out := make([]string, len(conds))
	for i, c := range conds {
		out[i] = bv.cond(c)
	}
	return " WHERE " + strings.Join(out, " AND ")
}

func noQuote(s string) string { return s }
