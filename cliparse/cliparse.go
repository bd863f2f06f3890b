// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	DataDir      string
	BaseURL      string

	AdminPassword string
	ChannelSecret string
	ChannelToken  string

	GithubToken  string
	GithubRepo   string
	GithubBranch string
	SnapshotPath string
}

// ParseFlags validates flags and applies env-variable fallbacks
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("rollcall", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL (empty = file-only persistence)")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.DataDir, "data", "", "Directory for state file and snapshot fallback")
	fs.StringVar(&cfg.BaseURL, "base-url", "", "Public base URL, enables keep-alive self-ping")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminPassword, "admin-password", "", "Shared admin password (prefer env)")
	fs.StringVar(&cfg.ChannelSecret, "channel-secret", "", "LINE channel secret (prefer env)")
	fs.StringVar(&cfg.ChannelToken, "channel-token", "", "LINE channel access token (prefer env)")
	fs.StringVar(&cfg.GithubToken, "github-token", "", "GitHub token for the snapshot mirror (prefer env)")
	fs.StringVar(&cfg.GithubRepo, "github-repo", "", "GitHub repository (owner/name) for the snapshot mirror")
	fs.StringVar(&cfg.GithubBranch, "github-branch", "", "Branch for the snapshot mirror (default branch if empty)")
	fs.StringVar(&cfg.SnapshotPath, "snapshot-path", "", "Path of the snapshot file inside the repository")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("DATABASE_TYPE must be sqlite or postgres")
	}
	if cfg.DataDir == "" {
		cfg.DataDir = os.Getenv("DATA_DIR")
		if cfg.DataDir == "" {
			cfg.DataDir = "./data"
		}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("BASE_URL")
	}

	// Secrets - MUST be provided
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	}
	if cfg.AdminPassword == "" {
		return Config{}, errors.New("ADMIN_PASSWORD required")
	}

	if cfg.ChannelSecret == "" {
		cfg.ChannelSecret = os.Getenv("LINE_CHANNEL_SECRET")
	}
	if cfg.ChannelSecret == "" {
		return Config{}, errors.New("LINE_CHANNEL_SECRET required")
	}

	if cfg.ChannelToken == "" {
		cfg.ChannelToken = os.Getenv("LINE_CHANNEL_TOKEN")
	}
	if cfg.ChannelToken == "" {
		return Config{}, errors.New("LINE_CHANNEL_TOKEN required")
	}

	// The snapshot mirror is optional; configuring a repo makes the token
	// mandatory
	if cfg.GithubRepo == "" {
		cfg.GithubRepo = os.Getenv("GITHUB_REPO")
	}
	if cfg.GithubToken == "" {
		cfg.GithubToken = os.Getenv("GITHUB_TOKEN")
	}
	if cfg.GithubBranch == "" {
		cfg.GithubBranch = os.Getenv("GITHUB_BRANCH")
	}
	if cfg.SnapshotPath == "" {
		cfg.SnapshotPath = os.Getenv("SNAPSHOT_PATH")
		if cfg.SnapshotPath == "" {
			cfg.SnapshotPath = "snapshot.csv"
		}
	}
	if cfg.GithubRepo != "" && cfg.GithubToken == "" {
		return Config{}, errors.New("GITHUB_TOKEN required when GITHUB_REPO is set")
	}

	return cfg, nil
}
