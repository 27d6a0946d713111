package cmd

import (
	"errors"
	"fmt"
	"github.com/meysamhadeli/sandkit/config"
	"github.com/meysamhadeli/sandkit/constants/lipgloss"
	"github.com/meysamhadeli/sandkit/file_analyzer"
	"github.com/meysamhadeli/sandkit/file_analyzer/contracts"
	"github.com/meysamhadeli/sandkit/logger"
	loggerContracts "github.com/meysamhadeli/sandkit/logger/contracts"
	"github.com/meysamhadeli/sandkit/report_generator"
	"github.com/meysamhadeli/sandkit/utils"
	"github.com/spf13/cobra"
	"os"
	"runtime"
)

const usageNotice = "This tool only contains helper commands for the sandbox workflow and does nothing on its own. Run 'sandkit --help' for the available commands."

// RootDependencies is shared by every subcommand.
type RootDependencies struct {
	Cwd             string
	Config          *config.Config
	Logger          loggerContracts.ILogger
	FileAnalyzer    contracts.IFileAnalyzer
	ReportGenerator *report_generator.ReportGenerator
}

// exitError carries the process exit status of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// ExitCode returns the status a command error should terminate the process with.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	return 1
}

// NewRootCmd builds the sandkit command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sandkit",
		Short: "Helpers for a malware-analysis sandbox workflow.",
		Long: `sandkit computes sample hashes and sizes, generates randomized file names for
delivering samples into a guest VM, and appends task results to per-sample HTML reports.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if version, _ := cmd.Flags().GetBool("version"); version {
				fmt.Fprintln(cmd.OutOrStdout(), config.DefaultConfig.Version)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), usageNotice)
			return &exitError{code: 1}
		},
	}

	config.InitFlags(rootCmd)

	rootCmd.AddCommand(
		newInfoCmd(),
		newRenameCmd(),
		newReportCmd(),
		newNormalizeCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the CLI and exits with the command's status.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		var exitErr *exitError
		if !errors.As(err, &exitErr) || exitErr.err != nil {
			fmt.Fprintln(os.Stderr, lipgloss.Red.Render(err.Error()))
		}
		os.Exit(ExitCode(err))
	}
}

func handleRootCommand(cmd *cobra.Command) (*RootDependencies, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current working directory: %w", err)
	}

	cfg, err := config.LoadConfigs(cmd.Root(), cwd)
	if err != nil {
		return nil, err
	}

	log, err := logger.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		return nil, err
	}

	if !utils.CheckGoVersion(cfg.MinGoVersion) {
		log.Warn("Go runtime is older than the supported minimum", "runtime", runtime.Version(), "minimum", cfg.MinGoVersion)
	}

	dirMode, err := cfg.DirMode()
	if err != nil {
		return nil, err
	}

	return &RootDependencies{
		Cwd:             cwd,
		Config:          cfg,
		Logger:          log,
		FileAnalyzer:    file_analyzer.NewFileAnalyzer(log, cfg.HashBlockSize),
		ReportGenerator: report_generator.NewReportGenerator(cfg.ReportsDirectory, dirMode, log),
	}, nil
}
