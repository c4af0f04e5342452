package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sevigo/reposync/internal/gitrepo"
)

var fetchPrune bool

var fetchCmd = &cobra.Command{
	Use:   "fetch [remote...]",
	Short: "Fetch one or more remotes with live progress.",
	Long:  `Fetches the named remotes in order, or every configured remote when none are named. Each remote gets its own result; one remote failing does not stop the others.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, log, repo, err := setup()
		if err != nil {
			slog.Error("failed to initialize", "error", err)
			os.Exit(1)
		}
		if !cmd.Flags().Changed("prune") {
			fetchPrune = cfg.Prune
		}

		ctx := context.Background()
		opts := gitrepo.FetchOptions{
			Prune:       fetchPrune,
			Credentials: resolver(cfg),
			Sink:        newConsoleSink(nil),
		}

		var outcomes []gitrepo.FetchOutcome
		if len(args) == 0 {
			outcomes, err = repo.FetchAll(ctx, opts)
		} else {
			for _, name := range args {
				var batch []gitrepo.FetchOutcome
				batch, err = repo.FetchByName(ctx, name, opts)
				if err != nil {
					break
				}
				if len(batch) == 0 {
					log.Warn("remote not configured, nothing fetched", "remote", name)
				}
				outcomes = append(outcomes, batch...)
			}
		}
		if err != nil {
			slog.Error("fetch aborted", "error", err)
			os.Exit(1)
		}

		failed := 0
		for _, o := range outcomes {
			if !o.OK() {
				failed++
				fmt.Printf("remote %s: %v\n", o.Remote, o.Err)
			}
		}
		if failed > 0 {
			slog.Error("fetch finished with failures", "failed", failed, "total", len(outcomes))
			os.Exit(1)
		}
		slog.Info("fetch finished", "remotes", len(outcomes))
	},
}

func init() { //nolint:gochecknoinits
	fetchCmd.Flags().BoolVar(&fetchPrune, "prune", false, "prune remote-tracking refs deleted upstream")
	rootCmd.AddCommand(fetchCmd)
}
