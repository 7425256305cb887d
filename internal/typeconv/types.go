package typeconv

import "strings"

// CanonicalType normalizes driver-reported column type names so MySQL and
// PostgreSQL spellings compare equal.
func CanonicalType(typ string) string {
	t := strings.ToUpper(strings.TrimSpace(typ))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = t[:i]
	}
	t = strings.TrimPrefix(t, "UNSIGNED ")
	switch t {
	case "INT", "INT2", "INT4", "INT8", "INTEGER", "TINYINT", "SMALLINT", "MEDIUMINT", "BIGINT", "YEAR":
		return "INTEGER"
	case "BOOL", "BOOLEAN", "BIT":
		return "BOOLEAN"
	case "REAL", "FLOAT", "FLOAT4", "FLOAT8", "DOUBLE", "DOUBLE PRECISION":
		return "REAL"
	case "DECIMAL", "NUMERIC":
		return "DECIMAL"
	case "CHAR", "VARCHAR", "TEXT", "TINYTEXT", "MEDIUMTEXT", "LONGTEXT", "BPCHAR", "NAME", "ENUM", "SET", "JSON", "JSONB":
		return "TEXT"
	case "BLOB", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB", "BINARY", "VARBINARY", "BYTEA", "GEOMETRY":
		return "BLOB"
	case "TIMESTAMP", "TIMESTAMPTZ", "DATETIME", "DATE", "TIME", "TIMETZ":
		return "TIMESTAMP"
	case "UUID":
		return "UUID"
	default:
		return t
	}
}

// IsBinary reports whether raw bytes from a column of this type are opaque
// data rather than text.
func IsBinary(typ string) bool {
	return CanonicalType(typ) == "BLOB"
}

// IsNumeric reports whether text bytes from a column of this type hold a
// number.
func IsNumeric(typ string) bool {
	switch CanonicalType(typ) {
	case "INTEGER", "REAL", "BOOLEAN":
		return true
	}
	return false
}
