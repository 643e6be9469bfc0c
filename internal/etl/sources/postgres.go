package sources

import (
	"fmt"

	"bikeetl/internal/config"

	_ "github.com/lib/pq"
)

// buildPostgresDSN constructs a Postgres connection string from the SQL config.
func buildPostgresDSN(cfg config.SQLConfig) string {
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, port, cfg.User, cfg.Password, cfg.Database,
	)
}
