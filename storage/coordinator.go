// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danielhkuo/rollcall/db"
	"github.com/danielhkuo/rollcall/models"
	"github.com/danielhkuo/rollcall/roster"
)

const (
	// DebounceWindow coalesces bursts of file saves into one write.
	DebounceWindow = 2 * time.Second

	remoteTimeout = 15 * time.Second

	stateFile         = "games.json"
	snapshotFile      = "snapshot.csv"
	snapshotQueueSize = 64
)

// Coordinator makes roster state durable across restarts. It maintains two
// independent representations: the full-state store (one blob per
// conversation in a key/blob table, with a debounced whole-registry JSON
// file as fallback) and a flattened CSV snapshot mirrored to a remote
// versioned blob store through a single-writer FIFO queue.
//
// Any database error permanently downgrades the process to file-only mode;
// remote snapshot failures fall back per-write and self-heal.
type Coordinator struct {
	reg     *roster.Registry
	db      *sql.DB // nil when no database is configured
	stmts   db.Statements
	dataDir string
	blob    BlobStore // nil when no remote mirror is configured

	dbBroken atomic.Bool

	mu        sync.Mutex // guards saveTimer
	saveTimer *time.Timer

	snapCh chan struct{}
	quit   chan struct{}
	wg     sync.WaitGroup

	// lastVersion is touched only by the snapshot worker goroutine
	lastVersion string
}

func New(reg *roster.Registry, dbConn *sql.DB, driver, dataDir string, blob BlobStore) *Coordinator {
	return &Coordinator{
		reg:     reg,
		db:      dbConn,
		stmts:   db.StatementsFor(driver),
		dataDir: dataDir,
		blob:    blob,
		snapCh:  make(chan struct{}, snapshotQueueSize),
		quit:    make(chan struct{}),
	}
}

// Start launches the snapshot write queue. Call after Recover.
func (c *Coordinator) Start() {
	c.wg.Add(1)
	go c.snapshotWorker()
}

// SaveGame durably records one conversation's current state. Immediate mode
// bypasses the file debounce for operations that must not be lost before the
// reply goes out (create, modify, join, leave, clear). Fire-and-forget:
// failures degrade, they never propagate to the caller.
func (c *Coordinator) SaveGame(gid string, immediate bool) {
	if c.dbOK() {
		if g, ok := c.reg.Game(gid); ok {
			c.upsert(gid, g)
		}
	}
	c.scheduleFileSave(immediate)
	c.queueSnapshot()
}

// DeleteGame removes one conversation from every store.
func (c *Coordinator) DeleteGame(gid string) {
	if c.dbOK() {
		if _, err := c.db.Exec(c.stmts.Delete, gid); err != nil {
			c.breakDB("delete", err)
		}
	}
	c.scheduleFileSave(true)
	c.queueSnapshot()
}

// SaveAll flushes the whole registry, used after sweeps that touch many
// conversations at once.
func (c *Coordinator) SaveAll(immediate bool) {
	if c.dbOK() {
		for gid, g := range c.reg.Snapshot() {
			if !c.dbOK() {
				break
			}
			c.upsert(gid, g)
		}
	}
	c.scheduleFileSave(immediate)
	c.queueSnapshot()
}

// Shutdown performs the bounded best-effort flush: cancels the pending
// debounce and writes the state file now, then drains the snapshot queue and
// forces one final remote write.
func (c *Coordinator) Shutdown(ctx context.Context) {
	c.mu.Lock()
	if c.saveTimer != nil {
		c.saveTimer.Stop()
		c.saveTimer = nil
	}
	c.mu.Unlock()
	c.writeStateFile()

	close(c.quit)
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		slog.Warn("shutdown flush timed out", "error", ctx.Err())
	}
}

// DBMode reports how full-state saves are currently persisted, for admin
// diagnostics.
func (c *Coordinator) DBMode() string {
	switch {
	case c.db == nil:
		return "file-only (no database configured)"
	case c.dbBroken.Load():
		return "file-only (database degraded)"
	default:
		return "database"
	}
}

// ListStored returns the keys currently present in the database table.
func (c *Coordinator) ListStored(ctx context.Context) ([]string, error) {
	if !c.dbOK() {
		return nil, sql.ErrConnDone
	}
	rows, err := c.db.QueryContext(ctx, c.stmts.SelectAll)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var key, blob string
		if err := rows.Scan(&key, &blob); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (c *Coordinator) dbOK() bool {
	return c.db != nil && !c.dbBroken.Load()
}

// breakDB downgrades to file-only mode for the rest of the process lifetime.
func (c *Coordinator) breakDB(op string, err error) {
	if c.dbBroken.CompareAndSwap(false, true) {
		slog.Error("database unavailable, downgrading to file-only persistence", "op", op, "error", err)
	}
}

func (c *Coordinator) upsert(gid string, g *models.Game) {
	blob, err := json.Marshal(g)
	if err != nil {
		slog.Error("failed to marshal game", "gid", gid, "error", err)
		return
	}
	if _, err := c.db.Exec(c.stmts.Upsert, gid, string(blob)); err != nil {
		c.breakDB("upsert", err)
	}
}

func (c *Coordinator) scheduleFileSave(immediate bool) {
	if immediate {
		c.mu.Lock()
		if c.saveTimer != nil {
			c.saveTimer.Stop()
			c.saveTimer = nil
		}
		c.mu.Unlock()
		c.writeStateFile()
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.saveTimer != nil {
		return // a pending save already covers this mutation
	}
	c.saveTimer = time.AfterFunc(DebounceWindow, func() {
		c.mu.Lock()
		c.saveTimer = nil
		c.mu.Unlock()
		c.writeStateFile()
	})
}

func (c *Coordinator) writeStateFile() {
	blob, err := json.Marshal(c.reg.Snapshot())
	if err != nil {
		slog.Error("failed to marshal registry", "error", err)
		return
	}
	path := filepath.Join(c.dataDir, stateFile)
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		slog.Error("failed to write state file", "path", path, "error", err)
	}
}

func (c *Coordinator) queueSnapshot() {
	select {
	case c.snapCh <- struct{}{}:
	default:
		// the worker reads live registry state at write time, so a full
		// queue already covers this mutation
	}
}

func (c *Coordinator) snapshotWorker() {
	defer c.wg.Done()
	for {
		select {
		case <-c.snapCh:
			c.writeSnapshot()
		case <-c.quit:
			for {
				select {
				case <-c.snapCh:
				default:
					c.writeSnapshot()
					return
				}
			}
		}
	}
}

// writeSnapshot pushes the flattened CSV to the remote versioned store,
// retrying a version conflict exactly once before falling back to the local
// copy. Called only from the worker goroutine, so writes never interleave.
func (c *Coordinator) writeSnapshot() {
	content := EncodeSnapshot(c.reg.Snapshot())

	if c.blob == nil {
		c.writeLocalSnapshot(content)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()

	version := c.lastVersion
	if version == "" {
		_, v, err := c.blob.Get(ctx)
		switch err {
		case nil:
			version = v
		case ErrNotFound:
			version = ""
		default:
			slog.Warn("snapshot read failed, keeping local copy", "error", err)
			c.writeLocalSnapshot(content)
			return
		}
	}

	newVersion, err := c.blob.Put(ctx, content, version)
	if err == ErrVersionConflict {
		_, v, rerr := c.blob.Get(ctx)
		if rerr != nil && rerr != ErrNotFound {
			slog.Warn("snapshot re-read failed, keeping local copy", "error", rerr)
			c.lastVersion = ""
			c.writeLocalSnapshot(content)
			return
		}
		newVersion, err = c.blob.Put(ctx, content, v)
	}
	if err != nil {
		slog.Warn("snapshot write failed, keeping local copy", "error", err)
		c.lastVersion = ""
		c.writeLocalSnapshot(content)
		return
	}
	c.lastVersion = newVersion
}

func (c *Coordinator) writeLocalSnapshot(content []byte) {
	path := filepath.Join(c.dataDir, snapshotFile)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		slog.Error("failed to write local snapshot", "path", path, "error", err)
	}
}
