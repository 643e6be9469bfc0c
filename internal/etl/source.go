package etl

import "context"

// ── Source ──────────────────────────────────────────────────
// A Source retrieves a named dataset from an external system.
// Implementations live in etl/sources/ — one file per source type.
// The pipeline is strictly sequential, so sources fetch whole tables
// rather than streaming record channels.

// Source is the interface every data source must implement.
type Source interface {
	// Name identifies the source type ("csv", "api", "sql") in logs
	// and run summaries.
	Name() string

	// Fetch retrieves the named dataset as a table.
	// Network-backed sources fall back to a local CSV copy on any
	// failure; an error here means even the fallback failed.
	Fetch(ctx context.Context, dataset string) (*Table, error)
}
