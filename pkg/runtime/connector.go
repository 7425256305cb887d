package runtime

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/TechXTT/crud/pkg/config"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ErrEmptyDSN is returned by Connect when no data source name is given.
var ErrEmptyDSN = errors.New("runtime: DSN is empty")

const (
	mysqlPort    = "3306"
	postgresPort = "5432"
)

// DSN builds a data source name for driver from resolved credentials.
func DSN(driver string, c config.Credentials) (string, error) {
	switch driver {
	case "mysql":
		cfg := mysql.NewConfig()
		cfg.User = c.User
		cfg.Passwd = c.Password
		cfg.Net = "tcp"
		cfg.Addr = withPort(c.Host, mysqlPort)
		cfg.DBName = c.Database
		cfg.ParseTime = true
		cfg.Collation = "utf8mb4_general_ci"
		return cfg.FormatDSN(), nil
	case "postgres":
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(c.User, c.Password),
			Host:   withPort(c.Host, postgresPort),
			Path:   "/" + c.Database,
		}
		return Normalize(driver, u.String()), nil
	}
	return "", fmt.Errorf("unsupported driver %q", driver)
}

// Normalize disables SSL for postgres:// DSNs that do not choose a mode.
func Normalize(driver, dsn string) string {
	if driver == "postgres" && strings.HasPrefix(dsn, "postgres://") && !strings.Contains(dsn, "sslmode=") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn = dsn + sep + "sslmode=disable"
	}
	return dsn
}

// Connect opens a database handle and verifies it with a ping.
func Connect(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	if dsn == "" {
		return nil, ErrEmptyDSN
	}
	db, err := sqlx.ConnectContext(ctx, driver, Normalize(driver, dsn))
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	return db, nil
}

func withPort(host, port string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(strings.Trim(host, "[]"), port)
}
