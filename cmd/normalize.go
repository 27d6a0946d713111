package cmd

import (
	"fmt"
	"github.com/meysamhadeli/sandkit/utils"
	"github.com/spf13/cobra"
)

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <path>",
		Short: "Rewrite forward slashes as escaped backslashes.",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), utils.NormalizePath(args[0]))
		},
	}
}
