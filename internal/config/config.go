// Package config loads the tool's configuration from the environment and an
// optional .env file, with viper handling precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"

	"github.com/sevigo/reposync/internal/logger"
)

// Config holds the application's configuration values.
type Config struct {
	RepoPath      string
	DefaultRemote string
	Prune         bool
	Recursive     bool
	AuthToken     string
	AuthUsername  string
	Log           logger.Config
}

// Load reads configuration from environment variables and a .env file and
// sets sensible defaults. Only structural problems are errors; a missing
// token simply means anonymous transport.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")

	viper.SetDefault("REPO_PATH", ".")
	viper.SetDefault("DEFAULT_REMOTE", "origin")
	viper.SetDefault("FETCH_PRUNE", false)
	viper.SetDefault("SUBMODULES_RECURSIVE", true)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")

	// A missing .env is fine; a present-but-broken one is a hard failure.
	// Running with half-applied settings against a live repo is worse.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}

	cfg := &Config{
		RepoPath:      viper.GetString("REPO_PATH"),
		DefaultRemote: viper.GetString("DEFAULT_REMOTE"),
		Prune:         viper.GetBool("FETCH_PRUNE"),
		Recursive:     viper.GetBool("SUBMODULES_RECURSIVE"),
		AuthToken:     viper.GetString("AUTH_TOKEN"),
		AuthUsername:  viper.GetString("AUTH_USERNAME"),
		Log: logger.Config{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
	}
	if cfg.RepoPath == "" {
		return nil, fmt.Errorf("REPO_PATH must not be empty")
	}
	if cfg.DefaultRemote == "" {
		return nil, fmt.Errorf("DEFAULT_REMOTE must not be empty")
	}
	return cfg, nil
}
