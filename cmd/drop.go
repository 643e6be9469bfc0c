package cmd

import "github.com/spf13/cobra"

var dropCmd = &cobra.Command{
	Use:   "drop <collection>...",
	Short: "Drop the named collections from the store",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore(st)

		return st.Drop(cmd.Context(), args)
	},
}

func init() { rootCmd.AddCommand(dropCmd) }
