package runtime

import (
	"context"
	"net/url"
	"testing"

	"github.com/TechXTT/crud/pkg/config"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var creds = config.Credentials{Host: "localhost", User: "cgi", Password: "password", Database: "schedule"}

func TestDSN_MySQL(t *testing.T) {
	dsn, err := DSN("mysql", creds)
	require.NoError(t, err)

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "cgi", cfg.User)
	assert.Equal(t, "password", cfg.Passwd)
	assert.Equal(t, "tcp", cfg.Net)
	assert.Equal(t, "localhost:3306", cfg.Addr)
	assert.Equal(t, "schedule", cfg.DBName)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, "utf8mb4_general_ci", cfg.Collation)
}

func TestDSN_MySQLKeepsExplicitPort(t *testing.T) {
	c := creds
	c.Host = "db.internal:3307"
	dsn, err := DSN("mysql", c)
	require.NoError(t, err)
	assert.Contains(t, dsn, "@tcp(db.internal:3307)/schedule")
}

func TestDSN_Postgres(t *testing.T) {
	dsn, err := DSN("postgres", creds)
	require.NoError(t, err)

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "localhost:5432", u.Host)
	assert.Equal(t, "/schedule", u.Path)
	assert.Equal(t, "cgi", u.User.Username())
	pass, _ := u.User.Password()
	assert.Equal(t, "password", pass)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
}

func TestDSN_UnsupportedDriver(t *testing.T) {
	_, err := DSN("oracle", creds)
	require.Error(t, err)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "postgres://h/db?sslmode=disable", Normalize("postgres", "postgres://h/db"))
	assert.Equal(t, "postgres://h/db?x=1&sslmode=disable", Normalize("postgres", "postgres://h/db?x=1"))
	assert.Equal(t, "postgres://h/db?sslmode=require", Normalize("postgres", "postgres://h/db?sslmode=require"))
	assert.Equal(t, "u:p@tcp(h:3306)/db", Normalize("mysql", "u:p@tcp(h:3306)/db"))
}

func TestConnect_EmptyDSN(t *testing.T) {
	_, err := Connect(context.Background(), "mysql", "")
	require.ErrorIs(t, err, ErrEmptyDSN)
}
