// Package crud turns ordered column/value records into parameterized
// INSERT, UPDATE and DELETE statements and reads query results back as
// records, over a single pinned database connection.
//
// A Mapper owns exactly one connection from Open (or New) until Close:
//
//	m, err := crud.Open(ctx, crud.Config{Credentials: crud.Credentials{Host: "localhost", ...}})
//	if err != nil {
//		return err
//	}
//	defer m.Close()
//
//	rec := crud.Record{
//		{Column: "firstName", Value: crud.Text("Foo")},
//		{Column: "created", Value: crud.Raw("NOW()")},
//	}
//	err = m.Create(ctx, "employees", rec)
//
// Ordinary SQL failures never panic; each operation reports them as an
// error value, and batch operations report one error slot per row.
package crud

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/TechXTT/crud/internal/core"
	"github.com/TechXTT/crud/internal/plugin"
	"github.com/TechXTT/crud/internal/typeconv"
	"github.com/TechXTT/crud/pkg/config"
	"github.com/TechXTT/crud/pkg/runtime"
	"github.com/jmoiron/sqlx"
)

type (
	Config      = config.Config
	Credentials = config.Credentials
	Hooks       = plugin.Hooks
	NopHooks    = plugin.Nop
)

// Mapper maps records to statements on one connection. It is safe for
// concurrent use; operations are serialized.
type Mapper struct {
	mu       sync.Mutex
	closed   bool
	db       *sqlx.DB
	conn     *sqlx.Conn
	dialect  Dialect
	bindType int
	resolver PrimaryKeyResolver
	hooks    Hooks
	logger   *slog.Logger
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithLogger sets the logger for statement tracing at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mapper) { m.logger = l }
}

// WithResolver replaces the index-metadata primary-key lookup.
func WithResolver(r PrimaryKeyResolver) Option {
	return func(m *Mapper) { m.resolver = r }
}

// WithHooks installs lifecycle callbacks around create, update and delete.
func WithHooks(h Hooks) Option {
	return func(m *Mapper) { m.hooks = h }
}

// Open resolves cfg against its defaults, connects and pins a single
// connection. A field with neither a value nor a default fails with a
// *MissingParameterError before any connection attempt.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Mapper, error) {
	creds, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	dialect, err := DialectFor(cfg.DriverName())
	if err != nil {
		return nil, err
	}
	dsn, err := runtime.DSN(dialect.DriverName(), creds)
	if err != nil {
		return nil, err
	}
	db, err := runtime.Connect(ctx, dialect.DriverName(), dsn)
	if err != nil {
		return nil, err
	}
	return newMapper(ctx, db, dialect, opts)
}

// New wraps an already opened handle. The Mapper takes ownership of db and
// closes it in Close.
func New(ctx context.Context, db *sql.DB, dialect Dialect, opts ...Option) (*Mapper, error) {
	if dialect == nil {
		dialect = MySQL
	}
	return newMapper(ctx, sqlx.NewDb(db, dialect.DriverName()), dialect, opts)
}

func newMapper(ctx context.Context, db *sqlx.DB, dialect Dialect, opts []Option) (*Mapper, error) {
	m := &Mapper{
		db:       db,
		dialect:  dialect,
		bindType: sqlx.BindType(dialect.DriverName()),
		hooks:    plugin.Nop{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	conn, err := core.Pin(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("crud: %w", err)
	}
	m.conn = conn
	return m, nil
}

// Close releases the connection. Only the first call does any work.
func (m *Mapper) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	if err := core.Release(m.conn, m.db); err != nil {
		return fmt.Errorf("crud: %w", err)
	}
	return nil
}

// Dialect returns the dialect statements are generated for.
func (m *Mapper) Dialect() Dialect { return m.dialect }

func (m *Mapper) lock() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	return nil
}

// Create inserts rec into table. Raw values are spliced into the VALUES
// list; everything else is bound positionally in column order.
func (m *Mapper) Create(ctx context.Context, table string, rec Record) error {
	if err := m.lock(); err != nil {
		return err
	}
	defer m.mu.Unlock()
	return m.create(ctx, table, rec)
}

// CreateBatch inserts every record independently. results[i] is the
// outcome for batch[i]; earlier successes are not undone by later failures.
func (m *Mapper) CreateBatch(ctx context.Context, table string, batch Batch) []error {
	results := make([]error, len(batch))
	for i, rec := range batch {
		results[i] = m.Create(ctx, table, rec)
	}
	return results
}

func (m *Mapper) create(ctx context.Context, table string, rec Record) error {
	if len(rec) == 0 {
		return fmt.Errorf("crud: insert into %s: %w", table, ErrEmptyRecord)
	}
	if err := m.hooks.BeforeCreate(ctx, table, rec); err != nil {
		return fmt.Errorf("crud: before create: %w", err)
	}

	b := core.NewInsertBuilder(table, m.bindType).Quote(m.dialect.QuoteIdent)
	for _, f := range rec {
		if f.Value.IsRaw() {
			b.Expr(f.Column, f.Value.String())
			continue
		}
		arg, err := f.Value.Param()
		if err != nil {
			return fmt.Errorf("crud: insert into %s: column %s: %w", table, f.Column, err)
		}
		b.Value(f.Column, arg)
	}
	query, args := b.Build()
	if _, err := m.exec(ctx, query, args); err != nil {
		return err
	}

	if err := m.hooks.AfterCreate(ctx, table, rec); err != nil {
		m.logger.DebugContext(ctx, "after create hook failed", "table", table, "error", err)
	}
	return nil
}

// Read runs a complete query without parameters and returns every row in
// result order. A query the driver refuses to prepare yields a nil slice
// and an error matching ErrStatementPreparation; a query with no rows
// yields an empty, non-nil slice.
func (m *Mapper) Read(ctx context.Context, query string) ([]Record, error) {
	if err := m.lock(); err != nil {
		return nil, err
	}
	defer m.mu.Unlock()
	return m.read(ctx, query)
}

func (m *Mapper) read(ctx context.Context, query string) ([]Record, error) {
	m.logger.DebugContext(ctx, "crud read", "query", query)
	stmt, err := m.conn.PreparexContext(ctx, query)
	if err != nil {
		m.logger.DebugContext(ctx, "prepare failed", "query", query, "error", err)
		return nil, prepareError(query, err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryxContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("crud: query %q: %w", query, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("crud: columns: %w", err)
	}
	dbTypes := make([]string, len(cols))
	if types, err := rows.ColumnTypes(); err == nil {
		for i, ct := range types {
			dbTypes[i] = ct.DatabaseTypeName()
		}
	}

	results := []Record{}
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("crud: scan row %d: %w", len(results), err)
		}
		rec := make(Record, 0, len(cols))
		for i, col := range cols {
			rec = rec.Set(col, fromDriver(vals[i], dbTypes[i]))
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("crud: iterating rows: %w", err)
	}
	return results, nil
}

// Update sets the columns of rec on the row whose primary key equals id.
// An empty primaryKey is resolved from the table's index metadata on every
// call. The id is bound as a parameter.
func (m *Mapper) Update(ctx context.Context, table string, rec Record, id any, primaryKey string) error {
	if err := m.lock(); err != nil {
		return err
	}
	defer m.mu.Unlock()
	return m.update(ctx, table, rec, id, primaryKey, false)
}

// UpdateBatch updates each record independently. A record that carries the
// primary-key column targets the row with that value; the others target id.
func (m *Mapper) UpdateBatch(ctx context.Context, table string, batch Batch, id any, primaryKey string) []error {
	results := make([]error, len(batch))
	for i, rec := range batch {
		if err := m.lock(); err != nil {
			results[i] = err
			continue
		}
		results[i] = m.update(ctx, table, rec, id, primaryKey, true)
		m.mu.Unlock()
	}
	return results
}

func (m *Mapper) update(ctx context.Context, table string, rec Record, id any, pk string, rowID bool) error {
	if len(rec) == 0 {
		return fmt.Errorf("crud: update %s: %w", table, ErrEmptyRecord)
	}
	if pk == "" {
		var err error
		if pk, err = m.resolvePrimaryKey(ctx, table); err != nil {
			return err
		}
	}
	target, err := ValueOf(id)
	if err != nil {
		return fmt.Errorf("crud: update %s: id: %w", table, err)
	}
	if v, ok := rec.Get(pk); rowID && ok && !v.IsRaw() {
		target = v
	}
	if target.IsRaw() {
		return fmt.Errorf("crud: update %s: id cannot be a raw expression", table)
	}
	idArg, err := target.Param()
	if err != nil {
		return fmt.Errorf("crud: update %s: id: %w", table, err)
	}
	if err := m.hooks.BeforeUpdate(ctx, table, rec, idArg); err != nil {
		return fmt.Errorf("crud: before update: %w", err)
	}

	b := core.NewUpdateBuilder(table, m.bindType)
	for _, f := range rec {
		if f.Value.IsRaw() {
			b.SetExpr(f.Column, f.Value.String())
			continue
		}
		arg, err := f.Value.Param()
		if err != nil {
			return fmt.Errorf("crud: update %s: column %s: %w", table, f.Column, err)
		}
		b.Set(f.Column, arg)
	}
	query, args := b.Where(pk+" = ?", idArg).Suffix(m.dialect.SingleRowSuffix()).Build()
	if _, err := m.exec(ctx, query, args); err != nil {
		return err
	}

	if err := m.hooks.AfterUpdate(ctx, table, rec, idArg); err != nil {
		m.logger.DebugContext(ctx, "after update hook failed", "table", table, "error", err)
	}
	return nil
}

// Delete removes the row whose primary key equals id and returns id. When
// nothing was deleted the error matches ErrNoRowsAffected.
func (m *Mapper) Delete(ctx context.Context, table string, id int64, primaryKey string) (int64, error) {
	if err := m.lock(); err != nil {
		return 0, err
	}
	defer m.mu.Unlock()

	if primaryKey == "" {
		var err error
		if primaryKey, err = m.resolvePrimaryKey(ctx, table); err != nil {
			return 0, err
		}
	}
	if err := m.hooks.BeforeDelete(ctx, table, id); err != nil {
		return 0, fmt.Errorf("crud: before delete: %w", err)
	}

	query, args := core.NewDeleteBuilder(table, m.bindType).
		Where(primaryKey+"=?", id).
		Suffix(m.dialect.SingleRowSuffix()).
		Build()
	res, err := m.exec(ctx, query, args)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("crud: rows affected: %w", err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("crud: delete from %s where %s=%d: %w", table, primaryKey, id, ErrNoRowsAffected)
	}

	if err := m.hooks.AfterDelete(ctx, table, id); err != nil {
		m.logger.DebugContext(ctx, "after delete hook failed", "table", table, "error", err)
	}
	return id, nil
}

// ResolvePrimaryKey returns the primary-key column of table. Nothing is
// cached; every call queries the metadata again.
func (m *Mapper) ResolvePrimaryKey(ctx context.Context, table string) (string, error) {
	if err := m.lock(); err != nil {
		return "", err
	}
	defer m.mu.Unlock()
	return m.resolvePrimaryKey(ctx, table)
}

func (m *Mapper) resolvePrimaryKey(ctx context.Context, table string) (string, error) {
	if m.resolver != nil {
		pk, err := m.resolver.ResolvePrimaryKey(ctx, table)
		if err != nil {
			return "", fmt.Errorf("crud: resolve primary key of %s: %w", table, err)
		}
		if pk == "" {
			return "", fmt.Errorf("crud: %s: %w", table, ErrUnresolvedPrimaryKey)
		}
		return pk, nil
	}
	rows, err := m.read(ctx, m.dialect.IndexQuery(table))
	if err != nil {
		return "", fmt.Errorf("crud: resolve primary key of %s: %w", table, err)
	}
	pk, ok := primaryKeyFrom(rows)
	if !ok {
		return "", fmt.Errorf("crud: %s: %w", table, ErrUnresolvedPrimaryKey)
	}
	return pk, nil
}

func (m *Mapper) exec(ctx context.Context, query string, args []interface{}) (sql.Result, error) {
	m.logger.DebugContext(ctx, "crud exec", "query", query, "params", len(args))

	stmt, err := m.conn.PreparexContext(ctx, query)
	if err != nil {
		m.logger.DebugContext(ctx, "prepare failed", "query", query, "error", err)
		return nil, prepareError(query, err)
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx, args...)
	if err != nil {
		m.logger.DebugContext(ctx, "exec failed", "query", query, "error", err)
		return nil, fmt.Errorf("crud: exec %q: %w", query, err)
	}
	return res, nil
}

// fromDriver converts a scanned column into a Value, using the column's
// database type to tell text bytes from binary bytes.
func fromDriver(v interface{}, dbType string) Value {
	switch x := v.(type) {
	case []byte:
		if typeconv.IsBinary(dbType) {
			return Blob(append([]byte(nil), x...))
		}
		if typeconv.IsNumeric(dbType) {
			if n, ok := Text(string(x)).Int64(); ok {
				return Int(n)
			}
			if f, err := strconv.ParseFloat(string(x), 64); err == nil {
				return Float(f)
			}
		}
		return Text(string(x))
	case time.Time:
		return Text(x.Format(time.DateTime))
	}
	if val, err := ValueOf(v); err == nil && !val.IsRaw() {
		return val
	}
	if s, ok := v.(string); ok {
		return Text(s)
	}
	return Text(fmt.Sprint(v))
}
