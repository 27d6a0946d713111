package cmd

import (
	"fmt"
	"github.com/meysamhadeli/sandkit/constants/lipgloss"
	"github.com/meysamhadeli/sandkit/file_analyzer"
	"github.com/meysamhadeli/sandkit/report_generator"
	"github.com/spf13/cobra"
	"path/filepath"
	"time"
)

func newReportCmd() *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Build and view per-sample HTML reports.",
	}

	reportCmd.AddCommand(newReportAppendCmd(), newReportShowCmd())

	return reportCmd
}

func newReportAppendCmd() *cobra.Command {
	appendCmd := &cobra.Command{
		Use:   "append <file>",
		Short: "Append a task block to the report of a sample.",
		Long: `The 'append' subcommand hashes the sample, creates <reports_directory>/<sha256>/ when needed
and appends a block for the task (VM and snapshot) to its index.html. Recordings, traffic
and memory dumps and screenshots already stored in that directory are linked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			vm, _ := flags.GetString("vm")
			snapshot, _ := flags.GetString("snapshot")
			name, _ := flags.GetString("name")
			fileArgs, _ := flags.GetString("args")
			timeout, _ := flags.GetDuration("timeout")
			network, _ := flags.GetString("network")

			rootDependencies, err := handleRootCommand(cmd)
			if err != nil {
				return err
			}

			stop := startSpinner("Hashing " + args[0] + "...")
			record, err := rootDependencies.FileAnalyzer.Inspect(args[0])
			stop()
			if err != nil {
				return &exitError{code: file_analyzer.StatusCode(err), err: err}
			}

			if name == "" {
				name = filepath.Base(args[0])
			}

			path, err := rootDependencies.ReportGenerator.Append(
				report_generator.Task{VM: vm, Snapshot: snapshot},
				report_generator.Sample{
					Name:         name,
					Arguments:    fileArgs,
					SizeKB:       record.SizeKB,
					SHA256:       record.SHA256,
					MD5:          record.MD5,
					Timeout:      timeout,
					NetworkState: network,
				},
			)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), lipgloss.Green.Render("✓ Report updated: "+path))
			return nil
		},
	}

	appendCmd.Flags().String("vm", "", "Name of the virtual machine that ran the task.")
	appendCmd.Flags().String("snapshot", "", "Snapshot the task was started from.")
	appendCmd.Flags().String("name", "", "Sample name shown in the report (defaults to the file name).")
	appendCmd.Flags().String("args", "", "Arguments the sample was started with.")
	appendCmd.Flags().Duration("timeout", 60*time.Second, "How long the sample was run.")
	appendCmd.Flags().String("network", "", "Network state of the VM during the task.")
	_ = appendCmd.MarkFlagRequired("vm")
	_ = appendCmd.MarkFlagRequired("snapshot")

	return appendCmd
}

func newReportShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <sha256>",
		Short: "Print the report of a sample with syntax highlighting.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rootDependencies, err := handleRootCommand(cmd)
			if err != nil {
				return err
			}

			path, err := rootDependencies.ReportGenerator.IndexPath(args[0])
			if err != nil {
				return err
			}
			return report_generator.Highlight(cmd.OutOrStdout(), path, rootDependencies.Config.Theme)
		},
	}
}
