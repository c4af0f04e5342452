package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sevigo/reposync/internal/config"
	"github.com/sevigo/reposync/internal/gitrepo"
	"github.com/sevigo/reposync/internal/logger"
)

var (
	repoPath  string
	authToken string
)

var rootCmd = &cobra.Command{
	Use:   "reposync",
	Short: "reposync keeps a local git working copy in sync with its remotes.",
	Long:  `A synchronization tool for git working copies: fetches remotes with live progress, updates submodules recursively, and reports which commits a branch would replay onto another.`,
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&repoPath, "repo", "C", "", "path to the repository (default: REPO_PATH or current directory)")
	rootCmd.PersistentFlags().StringVarP(&authToken, "token", "t", "", "auth token for HTTP remotes")

	if err := viper.BindPFlag("REPO_PATH", rootCmd.PersistentFlags().Lookup("repo")); err != nil {
		slog.Error("Error binding flag", "error", err)
		os.Exit(1)
	}
	if err := viper.BindPFlag("AUTH_TOKEN", rootCmd.PersistentFlags().Lookup("token")); err != nil {
		slog.Error("Error binding flag", "error", err)
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("REPOSYNC")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// setup loads configuration, builds the logger and opens the repository.
// Shared by every subcommand.
func setup() (*config.Config, *slog.Logger, *gitrepo.Repo, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	log := logger.New(cfg.Log, nil)
	slog.SetDefault(log)

	repo, err := gitrepo.Open(cfg.RepoPath, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, repo, nil
}

// resolver picks credentials based on configuration: a configured token
// means basic auth, otherwise transports run anonymous.
func resolver(cfg *config.Config) gitrepo.CredentialResolver {
	if cfg.AuthToken == "" {
		return gitrepo.AnonymousResolver{}
	}
	return gitrepo.TokenResolver{Username: cfg.AuthUsername, Token: cfg.AuthToken}
}
