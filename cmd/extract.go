package cmd

import "github.com/spf13/cobra"

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract all datasets and raw-load them into the store",
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

		result, err := p.Extract(cmd.Context())
		printResult(result)
		return err
	},
}

func init() { rootCmd.AddCommand(extractCmd) }
