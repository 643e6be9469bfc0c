package cmd

import (
	"fmt"
	"time"

	"bikeetl/internal/pipeline"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Extract all datasets, load them, then run the cleaning sequence",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore(st)

		p, cleanup, err := newPipeline(cfg, st)
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := p.Run(cmd.Context())
		printResult(result)
		return err
	},
}

func init() { rootCmd.AddCommand(runCmd) }

func printResult(result *pipeline.Result) {
	if result == nil {
		return
	}
	fmt.Printf("run %s (%s)\n", result.ID, result.Duration.Round(time.Millisecond))
	for _, d := range result.Datasets {
		fmt.Printf("  %-12s %6d rows  via %s\n", d.Dataset, d.Rows, d.Source)
	}
}
