package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/spf13/cobra"
)

var aheadCmd = &cobra.Command{
	Use:   "ahead <branch>",
	Short: "List commits on HEAD that a branch does not have yet.",
	Long:  `Walks history from the current tip and prints every commit the named branch does not contain, newest first. These are the commits a rebase onto that branch would replay.`,
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		_, _, repo, err := setup()
		if err != nil {
			slog.Error("failed to initialize", "error", err)
			os.Exit(1)
		}

		iter, err := repo.CommitsAheadOf(args[0])
		if err != nil {
			slog.Error("divergence walk failed", "branch", args[0], "error", err)
			os.Exit(1)
		}

		count := 0
		err = iter.ForEach(func(c *object.Commit) error {
			count++
			subject, _, _ := strings.Cut(c.Message, "\n")
			fmt.Printf("%s %s\n", c.Hash.String()[:12], subject)
			return nil
		})
		if err != nil {
			slog.Error("divergence walk failed", "branch", args[0], "error", err)
			os.Exit(1)
		}
		slog.Info("divergence computed", "branch", args[0], "commits_ahead", count)
	},
}

func init() { //nolint:gochecknoinits
	rootCmd.AddCommand(aheadCmd)
}
