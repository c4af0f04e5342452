package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show branches, remotes and the default remote.",
	Run: func(_ *cobra.Command, _ []string) {
		cfg, _, repo, err := setup()
		if err != nil {
			slog.Error("failed to initialize", "error", err)
			os.Exit(1)
		}

		branches, err := repo.BranchNames()
		if err != nil {
			slog.Error("listing branches failed", "error", err)
			os.Exit(1)
		}
		remotes, err := repo.RemoteNames()
		if err != nil {
			slog.Error("listing remotes failed", "error", err)
			os.Exit(1)
		}

		fmt.Println("branches:")
		for _, b := range branches {
			fmt.Printf("  %s\n", b)
		}
		fmt.Println("remotes:")
		for _, r := range remotes {
			fmt.Printf("  %s\n", r)
		}

		name, ok, err := repo.DefaultRemoteName(cfg.DefaultRemote)
		if err != nil {
			slog.Error("resolving default remote failed", "error", err)
			os.Exit(1)
		}
		if ok {
			fmt.Printf("default remote: %s\n", name)
		} else {
			fmt.Println("default remote: (none configured)")
		}
	},
}

func init() { //nolint:gochecknoinits
	rootCmd.AddCommand(infoCmd)
}
