package crud

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectFor(t *testing.T) {
	d, err := DialectFor("")
	require.NoError(t, err)
	assert.Equal(t, MySQL, d)

	d, err = DialectFor("PostgreSQL")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)

	_, err = DialectFor("sqlite3")
	require.Error(t, err)
}

func TestDialect_Quoting(t *testing.T) {
	assert.Equal(t, "`firstName`", MySQL.QuoteIdent("firstName"))
	assert.Equal(t, `"firstName"`, Postgres.QuoteIdent("firstName"))
	assert.Equal(t, " LIMIT 1", MySQL.SingleRowSuffix())
	assert.Empty(t, Postgres.SingleRowSuffix())
}

func TestDialect_IndexQuery(t *testing.T) {
	assert.Equal(t, "SHOW INDEX FROM employees", MySQL.IndexQuery("employees"))
	q := Postgres.IndexQuery("o'brien")
	assert.Contains(t, q, `'o''brien'::regclass`)
	assert.Contains(t, q, `"Key_name"`)
	assert.Contains(t, q, `"Column_name"`)
}

func TestPrimaryKeyFrom(t *testing.T) {
	rows := []Record{
		{{Column: "Key_name", Value: Text("idx_a")}, {Column: "Column_name", Value: Text("a")}},
		{{Column: "Key_name", Value: Text("Primary")}, {Column: "Column_name", Value: Text("employee_id")}},
		{{Column: "Key_name", Value: Text("PRIMARY")}, {Column: "Column_name", Value: Text("second")}},
	}
	pk, ok := primaryKeyFrom(rows)
	require.True(t, ok)
	assert.Equal(t, "employee_id", pk)

	_, ok = primaryKeyFrom(rows[:1])
	assert.False(t, ok)
	_, ok = primaryKeyFrom(nil)
	assert.False(t, ok)
}

func TestFromDriver(t *testing.T) {
	assert.Equal(t, KindBlob, fromDriver([]byte{0, 1}, "VARBINARY").Kind())
	assert.Equal(t, KindText, fromDriver([]byte("abc"), "VARCHAR").Kind())

	n, ok := fromDriver([]byte("12"), "INT").Int64()
	require.True(t, ok)
	assert.Equal(t, int64(12), n)
	assert.Equal(t, KindFloat, fromDriver([]byte("1.5"), "DOUBLE").Kind())

	assert.Equal(t, KindInt, fromDriver(int64(3), "").Kind())
	assert.Equal(t, KindFloat, fromDriver(2.5, "").Kind())
	assert.True(t, fromDriver(nil, "").IsNull())
	assert.Equal(t, KindText, fromDriver("function: x", "").Kind())
	assert.Equal(t, "2026-01-02 03:04:05",
		fromDriver(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), "DATETIME").String())
}
