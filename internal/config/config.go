// Package config holds the explicit run configuration for the pipeline.
// Everything comes from environment variables (with an optional .env
// file) and is resolved once in Load — nothing else in the module reads
// the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all pipeline configuration.
type Config struct {
	Mongo MongoConfig
	API   APIConfig
	SQL   SQLConfig
	Data  DataConfig
}

// MongoConfig holds document-store connection settings.
type MongoConfig struct {
	// URI is the MongoDB connection string (default: mongodb://localhost:27017)
	URI string

	// Database is the database the run operates on (default: BikeCorpDB)
	Database string

	// ConnectTimeout bounds the initial connect+ping (default: 10s)
	ConnectTimeout time.Duration
}

// APIConfig holds HTTP source settings.
type APIConfig struct {
	// Address is the API host; empty means "not configured" and every
	// fetch goes straight to the local fallback.
	Address string

	// Port is appended as ":<port>" only when non-empty.
	Port string

	// Timeout is the per-request timeout (default: 2s)
	Timeout time.Duration
}

// SQLConfig holds relational source settings.
type SQLConfig struct {
	// Driver is one of "mysql", "postgres", "sqlite" (default: mysql)
	Driver string

	Host     string
	Port     int
	User     string
	Password string
	Database string

	// Timeout is the per-query timeout (default: 2s)
	Timeout time.Duration
}

// DataConfig holds the local data folders used for CSV input and for
// the API/SQL fallback copies.
type DataConfig struct {
	// Dir is the data root (default: "data"); the csv/api/db subfolders
	// mirror the layout the upstream exporter writes.
	Dir string
}

// CSVDir is where the primary CSV datasets live.
func (d *DataConfig) CSVDir() string { return filepath.Join(d.Dir, "csv") }

// APIFallbackDir holds local copies used when the API is unreachable.
func (d *DataConfig) APIFallbackDir() string { return filepath.Join(d.Dir, "api") }

// SQLFallbackDir holds local copies used when the database is unreachable.
func (d *DataConfig) SQLFallbackDir() string { return filepath.Join(d.Dir, "db") }

// Load reads configuration from the environment, applying defaults and
// validating the result. A .env file in the working directory is loaded
// first when present.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional; absence is not an error

	sqlPort, err := getenvInt("SQL_PORT", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Mongo: MongoConfig{
			URI:            getenv("MONGO_URI", "mongodb://localhost:27017"),
			Database:       getenv("MONGO_DATABASE", "BikeCorpDB"),
			ConnectTimeout: getenvDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		},
		API: APIConfig{
			Address: getenv("API_ADDRESS", ""),
			Port:    getenv("API_PORT", ""),
			Timeout: getenvDuration("API_TIMEOUT", 2*time.Second),
		},
		SQL: SQLConfig{
			Driver:   getenv("SQL_DRIVER", "mysql"),
			Host:     getenv("SQL_HOST", ""),
			Port:     sqlPort,
			User:     getenv("SQL_USER", ""),
			Password: getenv("SQL_PASSWORD", ""),
			Database: getenv("SQL_DATABASE", ""),
			Timeout:  getenvDuration("SQL_TIMEOUT", 2*time.Second),
		},
		Data: DataConfig{
			Dir: getenv("DATA_DIR", "data"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail mid-run.
func (c *Config) Validate() error {
	switch c.SQL.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported SQL_DRIVER: %q", c.SQL.Driver)
	}
	if c.Mongo.URI == "" {
		return fmt.Errorf("MONGO_URI must not be empty")
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("MONGO_DATABASE must not be empty")
	}
	if c.API.Timeout <= 0 || c.SQL.Timeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	// Accept bare seconds ("2") as well as Go duration syntax ("2s").
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
