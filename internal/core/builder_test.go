package core

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func backtick(s string) string { return "`" + s + "`" }

func TestInsertBuild_AllPlaceholders(t *testing.T) {
	sql, args := NewInsertBuilder("employees", sqlx.QUESTION).
		Quote(backtick).
		Value("firstName", "Foo").
		Value("lastName", "Bar").
		Value("department", "Foobar").
		Build()

	require.Equal(t,
		"INSERT INTO employees (`firstName`, `lastName`, `department`) VALUES (?, ?, ?)",
		sql,
	)
	require.Equal(t, []interface{}{"Foo", "Bar", "Foobar"}, args)
}

func TestInsertBuild_ExprIsSpliced(t *testing.T) {
	sql, args := NewInsertBuilder("events", sqlx.QUESTION).
		Quote(backtick).
		Value("name", "boot").
		Expr("created_at", "NOW()").
		Build()

	require.Equal(t, "INSERT INTO events (`name`, `created_at`) VALUES (?, NOW())", sql)
	require.Equal(t, []interface{}{"boot"}, args)
}

func TestInsertBuild_DefaultsToUnquoted(t *testing.T) {
	sql, _ := NewInsertBuilder("t", sqlx.QUESTION).Value("a", 1).Build()
	require.Equal(t, "INSERT INTO t (a) VALUES (?)", sql)
}

func TestUpdateBuild_SetArgsBeforeWhereArgs(t *testing.T) {
	sql, args := NewUpdateBuilder("employees", sqlx.QUESTION).
		Set("department", "Sales").
		SetExpr("updated_at", "NOW()").
		Set("grade", 3).
		Where("employee_id = ?", 859649).
		Suffix(" LIMIT 1").
		Build()

	require.Equal(t,
		"UPDATE employees SET department=?, updated_at=NOW(), grade=? WHERE employee_id = ? LIMIT 1",
		sql,
	)
	require.Equal(t, []interface{}{"Sales", 3, 859649}, args)
}

func TestDeleteBuild(t *testing.T) {
	sql, args := NewDeleteBuilder("employees", sqlx.QUESTION).
		Where("employee_id=?", int64(7)).
		Suffix(" LIMIT 1").
		Build()

	require.Equal(t, "DELETE FROM employees WHERE employee_id=? LIMIT 1", sql)
	require.Equal(t, []interface{}{int64(7)}, args)
}

func TestDeleteBuild_NoSuffix(t *testing.T) {
	sql, _ := NewDeleteBuilder("t", sqlx.QUESTION).Where("id=?", 1).Build()
	require.Equal(t, "DELETE FROM t WHERE id=?", sql)
}

func TestInsertBuild_DollarLeavesExprUntouched(t *testing.T) {
	sql, args := NewInsertBuilder("notes", sqlx.DOLLAR).
		Value("a", 1).
		Expr("b", "concat('why?', 'x')").
		Value("c", 2).
		Build()

	require.Equal(t, "INSERT INTO notes (a, b, c) VALUES ($1, concat('why?', 'x'), $2)", sql)
	require.Equal(t, []interface{}{1, 2}, args)
}

func TestUpdateBuild_DollarNumbersSetThenWhere(t *testing.T) {
	sql, args := NewUpdateBuilder("t", sqlx.DOLLAR).
		Where("id = ?", 9).
		Set("a", "x").
		SetExpr("b", "coalesce(b, '?')").
		Set("c", "y").
		Build()

	require.Equal(t, "UPDATE t SET a=$1, b=coalesce(b, '?'), c=$2 WHERE id = $3", sql)
	require.Equal(t, []interface{}{"x", "y", 9}, args)
}

func TestDeleteBuild_Dollar(t *testing.T) {
	sql, _ := NewDeleteBuilder("t", sqlx.DOLLAR).Where("id=?", 1).Build()
	require.Equal(t, "DELETE FROM t WHERE id=$1", sql)
}
