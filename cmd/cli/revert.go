package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var revertCmd = &cobra.Command{
	Use:   "revert <path>...",
	Short: "Restore files to their content at the current branch tip.",
	Long:  `Discards local modifications to exactly the listed paths, restoring them from HEAD and restaging them. Files not listed are untouched.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		_, _, repo, err := setup()
		if err != nil {
			slog.Error("failed to initialize", "error", err)
			os.Exit(1)
		}
		if err := repo.RevertPaths(args); err != nil {
			slog.Error("revert failed", "error", err)
			os.Exit(1)
		}
		slog.Info("paths reverted to HEAD", "count", len(args))
	},
}

func init() { //nolint:gochecknoinits
	rootCmd.AddCommand(revertCmd)
}
