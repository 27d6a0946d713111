package cmd

import (
	"fmt"
	"github.com/meysamhadeli/sandkit/config"
	"github.com/meysamhadeli/sandkit/constants/lipgloss"
	"github.com/meysamhadeli/sandkit/utils"
	"github.com/spf13/cobra"
	"runtime"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version and check the Go runtime.",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "sandkit %s (%s)\n", config.DefaultConfig.Version, runtime.Version())

			if utils.CheckGoVersion(utils.DefaultMinGoVersion) {
				fmt.Fprintln(out, lipgloss.Green.Render("✓ Go runtime supported"))
			} else {
				fmt.Fprintln(out, lipgloss.Yellow.Render(fmt.Sprintf("Go runtime older than %s", utils.DefaultMinGoVersion)))
			}
		},
	}
}
