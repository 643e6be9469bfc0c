package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var distinctCmd = &cobra.Command{
	Use:   "distinct <collection> <field>",
	Short: "List the distinct values of a field in a collection",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore(st)

		values, err := st.Distinct(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		for _, v := range values {
			fmt.Println(v)
		}
		return nil
	},
}

func init() { rootCmd.AddCommand(distinctCmd) }
