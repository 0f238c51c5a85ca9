package database

import (
	"errors"
)

// ErrUnsupportedDriver is returned for storage drivers other than sqlite and postgres.
var ErrUnsupportedDriver = errors.New("unsupported storage driver")

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// StorageConfig selects and configures the storage engine.
type StorageConfig struct {
	// Driver is "sqlite" or "postgres"
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlite"`

	SQLite   SQLiteConfig   `yaml:"sqlite" env-prefix:"SQLITE_"`
	Postgres PostgresConfig `yaml:"postgres" env-prefix:"POSTGRES_"`
}
