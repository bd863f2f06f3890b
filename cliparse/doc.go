// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

CLI flags take precedence over environment variables.

# CLI Flags

	-p                Server port (default: 3318)
	-d                Database URL (empty = file-only persistence)
	-t                Database type: sqlite or postgres (default: sqlite)
	--data            Data directory for state file and local snapshot
	--base-url        Public base URL; when set the keep-alive self-ping runs
	--admin-password  Shared admin password (prefer env)
	--channel-secret  LINE channel secret (prefer env)
	--channel-token   LINE channel access token (prefer env)
	--github-token    GitHub token for the snapshot mirror (prefer env)
	--github-repo     GitHub repository (owner/name) for the snapshot mirror
	--github-branch   Branch for the snapshot mirror
	--snapshot-path   Path of the snapshot file inside the repository

# Environment Variables

	PORT, DATABASE_URL, DATABASE_TYPE, DATA_DIR, BASE_URL,
	ADMIN_PASSWORD, LINE_CHANNEL_SECRET, LINE_CHANNEL_TOKEN,
	GITHUB_TOKEN, GITHUB_REPO, GITHUB_BRANCH, SNAPSHOT_PATH

# Validation

ParseFlags returns an error if required values are missing:

  - ADMIN_PASSWORD must be provided
  - LINE_CHANNEL_SECRET and LINE_CHANNEL_TOKEN must be provided
  - GITHUB_TOKEN must be provided when GITHUB_REPO is set

The database and the GitHub mirror are both optional: without them the bot
persists to local files only.
*/
package cliparse
