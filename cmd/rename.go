package cmd

import (
	"fmt"
	"github.com/meysamhadeli/sandkit/utils"
	"github.com/spf13/cobra"
	"math/rand"
	"time"
)

func newRenameCmd() *cobra.Command {
	renameCmd := &cobra.Command{
		Use:   "rename <file>",
		Short: "Generate a random remote file name for a sample.",
		Long: `The 'rename' subcommand prints a destination path in the guest made of a logical folder
(desktop, downloads, documents, temp) or a custom folder, 4 to 20 random letters and the
extension of the sample.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			login, _ := cmd.Flags().GetString("login")
			folder, _ := cmd.Flags().GetString("folder")
			seed, _ := cmd.Flags().GetInt64("seed")

			rootDependencies, err := handleRootCommand(cmd)
			if err != nil {
				return err
			}

			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			randomizer := utils.NewFilenameRandomizer(
				rand.New(rand.NewSource(seed)),
				rootDependencies.Config.FolderMap(),
				rootDependencies.Config.DefaultExtension,
				rootDependencies.Logger,
			)

			fmt.Fprintln(cmd.OutOrStdout(), randomizer.Randomize(login, args[0], folder))
			return nil
		},
	}

	renameCmd.Flags().StringP("login", "l", "", "Login of the guest user.")
	renameCmd.Flags().StringP("folder", "f", "desktop", "Destination: desktop, downloads, documents, temp or a custom path.")
	renameCmd.Flags().Int64("seed", 0, "Seed for the random source (0 uses the current time).")
	_ = renameCmd.MarkFlagRequired("login")

	return renameCmd
}
