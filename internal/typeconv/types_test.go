package typeconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalType(t *testing.T) {
	cases := map[string]string{
		"int4":             "INTEGER",
		"BIGINT":           "INTEGER",
		"varchar(255)":     "TEXT",
		"bpchar":           "TEXT",
		"LONGBLOB":         "BLOB",
		"bytea":            "BLOB",
		"float8":           "REAL",
		"DOUBLE":           "REAL",
		"timestamptz":      "TIMESTAMP",
		"UNSIGNED BIGINT":  "INTEGER",
		"DECIMAL(10,2)":    "DECIMAL",
		"something_custom": "SOMETHING_CUSTOM",
	}
	for in, want := range cases {
		assert.Equal(t, want, CanonicalType(in), in)
	}
}

func TestIsBinary(t *testing.T) {
	assert.True(t, IsBinary("VARBINARY"))
	assert.True(t, IsBinary("bytea"))
	assert.False(t, IsBinary("VARCHAR"))
	assert.False(t, IsBinary(""))
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("INT"))
	assert.True(t, IsNumeric("float4"))
	assert.False(t, IsNumeric("DECIMAL"))
	assert.False(t, IsNumeric("TEXT"))
}
