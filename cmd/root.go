// Package cmd implements the bikeetl command line. Every command loads
// the config, opens the store for the duration of the command, and
// closes it on all exit paths (close failures are logged, never fatal).
package cmd

import (
	"log"
	"os"

	"bikeetl/internal/config"
	"bikeetl/internal/etl/sources"
	"bikeetl/internal/pipeline"
	"bikeetl/internal/store"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "bikeetl",
	Short:         "ETL pipeline for the BikeCorp retail dataset",
	Long:          "bikeetl extracts the BikeCorp datasets from CSV files, the export API,\nand the relational database, loads them into MongoDB, and applies the\nfixed cleaning sequence.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI. Errors have already been logged by the command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("[BIKEETL] %v", err)
		os.Exit(1)
	}
}

// openStore loads config and acquires the store connection.
func openStore(cmd *cobra.Command) (*config.Config, *store.Mongo, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cmd.Context(), cfg.Mongo)
	if err != nil {
		return nil, nil, err
	}
	return cfg, st, nil
}

// closeStore releases the store connection; failures are logged only.
func closeStore(st *store.Mongo) {
	if err := st.Close(); err != nil {
		log.Printf("[MONGO] Close: %v", err)
	}
}

// newPipeline wires the three sources and their fallbacks. The returned
// cleanup releases the SQL connection pool.
func newPipeline(cfg *config.Config, st *store.Mongo) (*pipeline.Pipeline, func(), error) {
	sqlSrc, err := sources.NewSQLSource(cfg.SQL, sources.NewCSVSource(cfg.Data.SQLFallbackDir()))
	if err != nil {
		return nil, nil, err
	}
	p := &pipeline.Pipeline{
		Store: st,
		CSV:   sources.NewCSVSource(cfg.Data.CSVDir()),
		API:   sources.NewAPISource(cfg.API, sources.NewCSVSource(cfg.Data.APIFallbackDir())),
		SQL:   sqlSrc,
	}
	cleanup := func() {
		if err := sqlSrc.Close(); err != nil {
			log.Printf("[SQL] Close: %v", err)
		}
	}
	return p, cleanup, nil
}
