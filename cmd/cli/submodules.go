package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sevigo/reposync/internal/gitrepo"
)

var submodulesRecursive bool

var submodulesCmd = &cobra.Command{
	Use:   "submodules",
	Short: "Initialize and update all submodules.",
	Long:  `Updates every submodule declared in the repository configuration, initializing missing ones. Failures are isolated per submodule.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cfg, _, repo, err := setup()
		if err != nil {
			slog.Error("failed to initialize", "error", err)
			os.Exit(1)
		}
		if !cmd.Flags().Changed("recursive") {
			submodulesRecursive = cfg.Recursive
		}

		outcomes, err := repo.UpdateSubmodules(context.Background(), gitrepo.SubmoduleOptions{
			Recursive:   submodulesRecursive,
			Credentials: resolver(cfg),
			Sink:        newConsoleSink(nil),
		})
		if err != nil {
			slog.Error("submodule update aborted", "error", err)
			os.Exit(1)
		}

		failed := 0
		for _, o := range outcomes {
			if !o.OK() {
				failed++
				fmt.Printf("submodule %s (%s): %v\n", o.Name, o.Path, o.Err)
			}
		}
		if failed > 0 {
			slog.Error("submodule update finished with failures", "failed", failed, "total", len(outcomes))
			os.Exit(1)
		}
		slog.Info("submodules up to date", "count", len(outcomes))
	},
}

func init() { //nolint:gochecknoinits
	submodulesCmd.Flags().BoolVarP(&submodulesRecursive, "recursive", "r", true, "recurse into nested submodules")
	rootCmd.AddCommand(submodulesCmd)
}
