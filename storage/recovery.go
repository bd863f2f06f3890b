// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/danielhkuo/rollcall/models"
)

// Recover rebuilds the registry from whichever store has data, in order of
// fidelity: the full-state database, then the local state file, then the
// flattened CSV snapshot (remote mirror first, local copy second). Call once
// before Start.
func (c *Coordinator) Recover(ctx context.Context) {
	if games := c.loadFromDB(ctx); len(games) > 0 {
		slog.Info("state recovered from database", "games", len(games))
		c.reg.Restore(games)
		return
	}
	if games := c.loadFromStateFile(); len(games) > 0 {
		slog.Info("state recovered from state file", "games", len(games))
		c.reg.Restore(games)
		return
	}
	if games := c.loadFromSnapshot(ctx); len(games) > 0 {
		slog.Info("state recovered from flattened snapshot", "games", len(games))
		c.reg.Restore(games)
		return
	}
	slog.Info("no persisted state found, starting empty")
}

func (c *Coordinator) loadFromDB(ctx context.Context) map[string]*models.Game {
	if !c.dbOK() {
		return nil
	}
	rows, err := c.db.QueryContext(ctx, c.stmts.SelectAll)
	if err != nil {
		c.breakDB("select", err)
		return nil
	}
	defer rows.Close()

	games := make(map[string]*models.Game)
	for rows.Next() {
		var key, blob string
		if err := rows.Scan(&key, &blob); err != nil {
			c.breakDB("scan", err)
			return nil
		}
		var g models.Game
		if err := json.Unmarshal([]byte(blob), &g); err != nil {
			slog.Warn("skipping undecodable game blob", "key", key, "error", err)
			continue
		}
		games[key] = &g
	}
	if err := rows.Err(); err != nil {
		c.breakDB("rows", err)
		return nil
	}
	return games
}

func (c *Coordinator) loadFromStateFile() map[string]*models.Game {
	path := filepath.Join(c.dataDir, stateFile)
	blob, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read state file", "path", path, "error", err)
		}
		return nil
	}
	var games map[string]*models.Game
	if err := json.Unmarshal(blob, &games); err != nil {
		slog.Warn("failed to decode state file", "path", path, "error", err)
		return nil
	}
	return games
}

func (c *Coordinator) loadFromSnapshot(ctx context.Context) map[string]*models.Game {
	var content []byte

	if c.blob != nil {
		rctx, cancel := context.WithTimeout(ctx, remoteTimeout)
		defer cancel()
		remote, version, err := c.blob.Get(rctx)
		switch err {
		case nil:
			content = remote
			c.lastVersion = version
		case ErrNotFound:
		default:
			slog.Warn("failed to read remote snapshot", "error", err)
		}
	}
	if content == nil {
		path := filepath.Join(c.dataDir, snapshotFile)
		local, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				slog.Warn("failed to read local snapshot", "path", path, "error", err)
			}
			return nil
		}
		content = local
	}

	games, err := DecodeSnapshot(content, time.Now())
	if err != nil {
		slog.Warn("failed to decode snapshot", "error", err)
		return nil
	}
	return games
}
