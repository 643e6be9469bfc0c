package cmd

import (
	"bikeetl/internal/pipeline"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Run the cleaning sequence against already-loaded collections",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore(st)

		// Clean never touches the sources, only the store.
		p := &pipeline.Pipeline{Store: st}
		return p.Clean(cmd.Context())
	},
}

func init() { rootCmd.AddCommand(cleanCmd) }
