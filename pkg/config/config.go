package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvDriver   = "CRUD_DRIVER"
	EnvHost     = "CRUD_HOST"
	EnvUser     = "CRUD_USER"
	EnvPassword = "CRUD_PASSWORD"
	EnvDatabase = "CRUD_DATABASE"
)

// DefaultDriver is used when neither the config nor the environment name one.
const DefaultDriver = "mysql"

// ErrMissingParameter is matched by every *MissingParameterError.
var ErrMissingParameter = errors.New("crud: missing connection parameter")

// MissingParameterError names the connection field that has neither a value
// nor a default.
type MissingParameterError struct {
	Field string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("crud: no %s defined for SQL connection", e.Field)
}

func (e *MissingParameterError) Is(target error) bool {
	return target == ErrMissingParameter
}

// Credentials identify one database on one server.
type Credentials struct {
	Host     string
	User     string
	Password string
	Database string
}

// Config holds connection settings. Empty fields of the embedded
// Credentials fall back to Defaults.
type Config struct {
	Driver string
	Credentials
	Defaults Credentials
}

// Resolve merges the credentials with their defaults. Fields are checked in
// the order host, user, password, database and the first one left empty is
// reported.
func (c Config) Resolve() (Credentials, error) {
	var out Credentials
	fields := []struct {
		name     string
		val, def string
		dst      *string
	}{
		{"host", c.Host, c.Defaults.Host, &out.Host},
		{"user", c.User, c.Defaults.User, &out.User},
		{"password", c.Password, c.Defaults.Password, &out.Password},
		{"database", c.Database, c.Defaults.Database, &out.Database},
	}
	for _, f := range fields {
		switch {
		case f.val != "":
			*f.dst = f.val
		case f.def != "":
			*f.dst = f.def
		default:
			return Credentials{}, &MissingParameterError{Field: f.name}
		}
	}
	return out, nil
}

// DriverName returns the configured driver or DefaultDriver.
func (c Config) DriverName() string {
	if c.Driver == "" {
		return DefaultDriver
	}
	return c.Driver
}

// Load reads .env files (the working directory's .env when none are given;
// missing files are ignored) and returns a Config whose Defaults come from
// the environment. Variables already set in the process win over the files.
func Load(files ...string) (*Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	if len(files) == 0 {
		// a missing .env is not an error
		_ = godotenv.Load()
	}

	return &Config{
		Driver: os.Getenv(EnvDriver),
		Defaults: Credentials{
			Host:     os.Getenv(EnvHost),
			User:     os.Getenv(EnvUser),
			Password: os.Getenv(EnvPassword),
			Database: os.Getenv(EnvDatabase),
		},
	}, nil
}
