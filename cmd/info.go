package cmd

import (
	"encoding/json"
	"fmt"
	"github.com/meysamhadeli/sandkit/constants/lipgloss"
	"github.com/meysamhadeli/sandkit/file_analyzer"
	"github.com/meysamhadeli/sandkit/file_analyzer/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"io"
	"strings"
)

func newInfoCmd() *cobra.Command {
	infoCmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Show hashes, size and lookup links of a sample.",
		Long: `The 'info' subcommand computes the SHA-256, MD5 and XXH3 digests and the size of a sample
and prints them together with VirusTotal and Google search links. The exit status is 1 when
the file does not exist.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")

			rootDependencies, err := handleRootCommand(cmd)
			if err != nil {
				return err
			}
			return handleInfoCommand(cmd.OutOrStdout(), rootDependencies, args[0], output)
		},
	}

	infoCmd.Flags().StringP("output", "o", "", "Output format: '' (styled box), 'json' or 'yaml'.")

	return infoCmd
}

func handleInfoCommand(out io.Writer, rootDependencies *RootDependencies, path string, output string) error {
	stop := startSpinner("Hashing " + path + "...")
	record, err := rootDependencies.FileAnalyzer.Inspect(path)
	stop()

	if err != nil {
		return &exitError{code: file_analyzer.StatusCode(err), err: err}
	}

	return writeRecord(out, record, output)
}

func writeRecord(out io.Writer, record *models.FileRecord, output string) error {
	switch strings.ToLower(output) {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(record)
	case "yaml", "yml":
		encoder := yaml.NewEncoder(out)
		defer encoder.Close()
		return encoder.Encode(record)
	case "":
		info := fmt.Sprintf("%s\nFile: %s\nSHA256: %s\nMD5: %s\nXXH3: %s\nSize: %d Kb\nVirusTotal: %s\nGoogle: %s",
			lipgloss.Info.Render("File info"), record.Path, record.SHA256, record.MD5, record.XXH3, record.SizeKB,
			record.VirusTotalURL(), record.GoogleSearchURL())
		fmt.Fprintln(out, lipgloss.BoxStyle.Render(info))
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", output)
	}
}
