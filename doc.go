// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the rollcall bot server.

Rollcall is a LINE chat bot that manages sign-up roll-call lists (接龍) for
recurring group sessions: capacity-limited rosters with a waitlist,
anonymous placeholder slots, scheduled open-time reminders, and durable
persistence across restarts.

# Starting the Server

The server reads environment variables (a .env file is honored) or CLI
flags for configuration:

	ADMIN_PASSWORD=... LINE_CHANNEL_SECRET=... LINE_CHANNEL_TOKEN=... go run main.go

# Configuration

Required settings:

  - ADMIN_PASSWORD (--admin-password): shared admin password
  - LINE_CHANNEL_SECRET (--channel-secret): webhook signature key
  - LINE_CHANNEL_TOKEN (--channel-token): messaging access token

Optional settings:

  - PORT (-p): server port (default: 3318)
  - DATABASE_URL (-d) / DATABASE_TYPE (-t): key/blob state table; absent
    means file-only persistence
  - GITHUB_REPO / GITHUB_TOKEN / GITHUB_BRANCH / SNAPSHOT_PATH: remote
    mirror for the flattened CSV snapshot
  - DATA_DIR (--data): local state directory (default: ./data)
  - BASE_URL (--base-url): enables the keep-alive self-ping

# Architecture

The server uses a handler-based architecture with dependency injection:

  - command: free-text command grammar → intents
  - roster: in-memory registry + engine applying intents
  - models: domain types and chat-message rendering
  - storage: persistence coordinator (DB/file + CSV snapshot mirror)
  - githubstore: versioned blob driver over the GitHub contents API
  - transport: LINE messaging adapter and display-name cache
  - scheduler: minute-aligned reminder scan, expiry sweep, keep-alive
  - handlers: webhook event handling and admin commands
  - router, middleware, db, cliparse: HTTP and configuration glue

See package documentation for each component.
*/
package main
