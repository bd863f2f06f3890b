// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/rollcall/db"
	"github.com/danielhkuo/rollcall/models"
	"github.com/danielhkuo/rollcall/roster"
)

// fakeBlob is an in-memory versioned store. It lives here rather than in
// testutil because testutil depends on this package.
type fakeBlob struct {
	mu      sync.Mutex
	content []byte
	version int
	getErr  error
	putErr  error
	gets    int
	puts    int
}

func (f *fakeBlob) tag() string {
	if f.version == 0 {
		return ""
	}
	return fmt.Sprintf("v%d", f.version)
}

func (f *fakeBlob) Get(ctx context.Context) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return nil, "", f.getErr
	}
	if f.content == nil {
		return nil, "", ErrNotFound
	}
	return append([]byte(nil), f.content...), f.tag(), nil
}

func (f *fakeBlob) Put(ctx context.Context, content []byte, version string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.putErr != nil {
		return "", f.putErr
	}
	if version != f.tag() {
		return "", ErrVersionConflict
	}
	f.content = append([]byte(nil), content...)
	f.version++
	return f.tag(), nil
}

// bump simulates another writer updating the remote store.
func (f *fakeBlob) bump(content []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.content = append([]byte(nil), content...)
	f.version++
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(db.TypeSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := db.CreateSchema(conn); err != nil {
		t.Fatal(err)
	}
	return conn
}

func seedRegistry(gids ...string) *roster.Registry {
	reg := roster.NewRegistry()
	games := make(map[string]*models.Game, len(gids))
	for _, gid := range gids {
		g := models.NewGame("t", 2, 0, time.Now())
		g.Sections[0].List = []models.Entry{models.RealName("某人")}
		games[gid] = g
	}
	reg.Restore(games)
	return reg
}

func TestSaveGameWritesDatabase(t *testing.T) {
	conn := openTestDB(t)
	c := New(seedRegistry("C1"), conn, db.TypeSQLite, t.TempDir(), nil)

	c.SaveGame("C1", true)

	keys, err := c.ListStored(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 1 || keys[0] != "C1" {
		t.Errorf("keys = %v", keys)
	}
}

func TestDeleteGameRemovesRow(t *testing.T) {
	conn := openTestDB(t)
	c := New(seedRegistry("C1"), conn, db.TypeSQLite, t.TempDir(), nil)
	c.SaveGame("C1", true)

	c.DeleteGame("C1")
	keys, err := c.ListStored(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 0 {
		t.Errorf("keys = %v", keys)
	}
}

func TestDatabaseErrorDowngradesPermanently(t *testing.T) {
	conn := openTestDB(t)
	c := New(seedRegistry("C1"), conn, db.TypeSQLite, t.TempDir(), nil)
	if got := c.DBMode(); got != "database" {
		t.Fatalf("DBMode() = %q", got)
	}

	conn.Close()
	c.SaveGame("C1", true)

	if got := c.DBMode(); got != "file-only (database degraded)" {
		t.Errorf("DBMode() = %q", got)
	}
	if _, err := c.ListStored(context.Background()); err == nil {
		t.Error("ListStored should fail in degraded mode")
	}
}

func TestDBModeWithoutDatabase(t *testing.T) {
	c := New(seedRegistry(), nil, db.TypeSQLite, t.TempDir(), nil)
	if got := c.DBMode(); got != "file-only (no database configured)" {
		t.Errorf("DBMode() = %q", got)
	}
}

func TestImmediateSaveWritesStateFileNow(t *testing.T) {
	dir := t.TempDir()
	c := New(seedRegistry("C1"), nil, db.TypeSQLite, dir, nil)

	c.SaveGame("C1", true)

	blob, err := os.ReadFile(filepath.Join(dir, stateFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(blob), `"C1"`) {
		t.Errorf("state file = %s", blob)
	}
}

func TestDebouncedSaveCoalesces(t *testing.T) {
	dir := t.TempDir()
	c := New(seedRegistry("C1"), nil, db.TypeSQLite, dir, nil)

	c.SaveGame("C1", false)
	c.SaveGame("C1", false)

	if _, err := os.Stat(filepath.Join(dir, stateFile)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("state file written before the debounce window: %v", err)
	}
	c.mu.Lock()
	pending := c.saveTimer != nil
	c.mu.Unlock()
	if !pending {
		t.Error("expected one pending debounced save")
	}
}

func TestShutdownFlushesPendingSave(t *testing.T) {
	dir := t.TempDir()
	c := New(seedRegistry("C1"), nil, db.TypeSQLite, dir, nil)
	c.Start()

	c.SaveGame("C1", false)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c.Shutdown(ctx)

	if _, err := os.ReadFile(filepath.Join(dir, stateFile)); err != nil {
		t.Errorf("state file missing after shutdown: %v", err)
	}
	if _, err := os.ReadFile(filepath.Join(dir, snapshotFile)); err != nil {
		t.Errorf("local snapshot missing after shutdown: %v", err)
	}
}

func TestWriteSnapshotRemote(t *testing.T) {
	blob := &fakeBlob{}
	c := New(seedRegistry("C1"), nil, db.TypeSQLite, t.TempDir(), blob)

	c.writeSnapshot()

	if !strings.Contains(string(blob.content), "某人") {
		t.Errorf("remote content = %s", blob.content)
	}
	if c.lastVersion != "v1" {
		t.Errorf("lastVersion = %q", c.lastVersion)
	}

	// the cached version skips the pre-write read on the next push
	gets := blob.gets
	c.writeSnapshot()
	if blob.gets != gets {
		t.Errorf("gets = %d, want %d", blob.gets, gets)
	}
	if c.lastVersion != "v2" {
		t.Errorf("lastVersion = %q", c.lastVersion)
	}
}

func TestWriteSnapshotConflictRetriesOnce(t *testing.T) {
	blob := &fakeBlob{}
	c := New(seedRegistry("C1"), nil, db.TypeSQLite, t.TempDir(), blob)
	c.writeSnapshot()

	// another writer advances the remote version behind our back
	blob.bump([]byte("theirs"))
	c.writeSnapshot()

	if blob.puts != 3 {
		// initial create, stale put, conflict re-put, and nothing more
		t.Errorf("puts = %d", blob.puts)
	}
	if !strings.Contains(string(blob.content), "某人") {
		t.Errorf("remote content = %s", blob.content)
	}
	if c.lastVersion != "v3" {
		t.Errorf("lastVersion = %q", c.lastVersion)
	}
}

func TestWriteSnapshotFallsBackToLocalFile(t *testing.T) {
	dir := t.TempDir()
	blob := &fakeBlob{putErr: errors.New("remote down")}
	c := New(seedRegistry("C1"), nil, db.TypeSQLite, dir, blob)

	c.writeSnapshot()

	content, err := os.ReadFile(filepath.Join(dir, snapshotFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "某人") {
		t.Errorf("local snapshot = %s", content)
	}
	if c.lastVersion != "" {
		t.Errorf("lastVersion = %q, want reset", c.lastVersion)
	}
}
