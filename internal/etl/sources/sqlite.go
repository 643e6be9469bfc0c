package sources

import (
	"bikeetl/internal/config"

	_ "modernc.org/sqlite"
)

// buildSQLiteDSN treats the configured host as the database file path.
// WAL mode with a busy timeout tolerates a concurrent writer.
func buildSQLiteDSN(cfg config.SQLConfig) string {
	return cfg.Host + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}
