package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_ArgumentsOverrideDefaults(t *testing.T) {
	cfg := Config{
		Credentials: Credentials{Host: "db.internal", User: "app"},
		Defaults:    Credentials{Host: "localhost", User: "cgi", Password: "secret", Database: "schedule"},
	}
	got, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, Credentials{Host: "db.internal", User: "app", Password: "secret", Database: "schedule"}, got)
}

func TestResolve_MissingFieldIsNamed(t *testing.T) {
	cases := []struct {
		cfg   Config
		field string
	}{
		{Config{}, "host"},
		{Config{Credentials: Credentials{Host: "h"}}, "user"},
		{Config{Credentials: Credentials{Host: "h"}, Defaults: Credentials{User: "u"}}, "password"},
		{Config{Credentials: Credentials{Host: "h", User: "u", Password: "p"}}, "database"},
	}
	for _, c := range cases {
		_, err := c.cfg.Resolve()
		require.Error(t, err)
		var mp *MissingParameterError
		require.True(t, errors.As(err, &mp))
		assert.Equal(t, c.field, mp.Field)
		assert.ErrorIs(t, err, ErrMissingParameter)
		assert.Contains(t, err.Error(), "no "+c.field+" defined")
	}
}

func TestDriverName_Default(t *testing.T) {
	assert.Equal(t, "mysql", Config{}.DriverName())
	assert.Equal(t, "postgres", Config{Driver: "postgres"}.DriverName())
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	for _, k := range []string{EnvDriver, EnvHost, EnvUser, EnvPassword, EnvDatabase} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"CRUD_DRIVER=postgres\nCRUD_HOST=localhost\nCRUD_USER=cgi\nCRUD_PASSWORD=password\nCRUD_DATABASE=schedule\n"),
		0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Driver)
	assert.Equal(t, Credentials{Host: "localhost", User: "cgi", Password: "password", Database: "schedule"}, cfg.Defaults)
	assert.Empty(t, cfg.Host)
}

func TestLoad_ProcessEnvWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CRUD_HOST=from-file\n"), 0o644))
	t.Setenv(EnvHost, "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Defaults.Host)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	require.Error(t, err)
}
