package sources

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"regexp"
	"time"

	"bikeetl/internal/config"
	"bikeetl/internal/etl"
)

// ── SQL Source ──────────────────────────────────────────────
// Reads whole tables from a relational database over database/sql.
// Shares one implementation across the mysql, postgres, and sqlite
// drivers; the per-driver DSN builders live in their own files.
// Failures fall back to the local CSV copy, same as the API source.

// SQLSource fetches "SELECT * FROM <table>".
type SQLSource struct {
	db       *sql.DB
	timeout  time.Duration
	fallback *CSVSource
}

// NewSQLSource opens a pooled connection for the configured driver.
// database/sql opens lazily, so an unreachable server surfaces on the
// first Fetch (and triggers the fallback), not here.
func NewSQLSource(cfg config.SQLConfig, fallback *CSVSource) (*SQLSource, error) {
	var dsn string
	switch cfg.Driver {
	case "mysql":
		dsn = buildMySQLDSN(cfg)
	case "postgres":
		dsn = buildPostgresDSN(cfg)
	case "sqlite":
		dsn = buildSQLiteDSN(cfg)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	// Sensible pool settings for a short-lived batch run
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(10 * time.Minute)

	return &SQLSource{db: db, timeout: cfg.Timeout, fallback: fallback}, nil
}

func (s *SQLSource) Name() string { return "sql" }

// Close releases the connection pool.
func (s *SQLSource) Close() error { return s.db.Close() }

func (s *SQLSource) Fetch(ctx context.Context, table string) (*etl.Table, error) {
	t, err := s.queryTable(ctx, table)
	if err != nil {
		log.Printf("[SQL] %v — will use local file instead", err)
		return s.fallback.Fetch(ctx, table)
	}
	return t, nil
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func (s *SQLSource) queryTable(ctx context.Context, table string) (*etl.Table, error) {
	// The table name is interpolated into the statement, so it must be
	// a bare identifier.
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name: %q", table)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	out := &etl.Table{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for j := range values {
			ptrs[j] = &values[j]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		data := make(map[string]any, len(cols))
		for j, col := range cols {
			data[col] = formatSQLValue(values[j])
		}
		out.Rows = append(out.Rows, etl.Record{Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate: %w", err)
	}

	return out, nil
}

// formatSQLValue normalizes driver values for the document store:
// byte slices become strings, timestamps become RFC3339 strings.
func formatSQLValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return val
	}
}
