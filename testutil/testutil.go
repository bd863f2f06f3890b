// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/rollcall/cliparse"
	"github.com/danielhkuo/rollcall/db"
	"github.com/danielhkuo/rollcall/storage"
)

// SetupTestDB creates a fresh sqlite database with the state schema. Each
// test gets its own file under t.TempDir, so no cleanup or server is needed.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig(t *testing.T) cliparse.Config {
	t.Helper()
	return cliparse.Config{
		Port:          3318,
		DatabaseType:  db.TypeSQLite,
		DataDir:       t.TempDir(),
		AdminPassword: "test-admin-password",
		ChannelSecret: "test-channel-secret",
		ChannelToken:  "test-channel-token",
	}
}

// Message is one recorded outbound message.
type Message struct {
	To   string // reply token or conversation id
	Text string
}

// FakeTransport records replies and pushes and serves display names from a
// fixed map. It stands in for the LINE adapter in handler, engine and
// scheduler tests.
type FakeTransport struct {
	mu      sync.Mutex
	replies []Message
	pushes  []Message

	Names    map[string]string // "gid/userID" -> display name
	ReplyErr error
	PushErr  error
	NameErr  error
}

func NewFakeTransport() *FakeTransport {
	return &FakeTransport{Names: make(map[string]string)}
}

func (f *FakeTransport) Reply(ctx context.Context, replyToken, text string) error {
	if f.ReplyErr != nil {
		return f.ReplyErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, Message{To: replyToken, Text: text})
	return nil
}

func (f *FakeTransport) Push(ctx context.Context, gid, text string) error {
	if f.PushErr != nil {
		return f.PushErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushes = append(f.pushes, Message{To: gid, Text: text})
	return nil
}

func (f *FakeTransport) DisplayName(ctx context.Context, gid, userID string) (string, error) {
	if f.NameErr != nil {
		return "", f.NameErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if name, ok := f.Names[gid+"/"+userID]; ok {
		return name, nil
	}
	return "", fmt.Errorf("no profile for %s in %s", userID, gid)
}

// Replies returns a copy of the recorded replies.
func (f *FakeTransport) Replies() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Message(nil), f.replies...)
}

// Pushes returns a copy of the recorded pushes.
func (f *FakeTransport) Pushes() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Message(nil), f.pushes...)
}

// FakeBlobStore is an in-memory versioned blob store with injectable
// failures, matching the optimistic-concurrency contract of the real one.
type FakeBlobStore struct {
	mu      sync.Mutex
	content []byte
	version int

	GetErr error
	PutErr error
	Gets   int
	Puts   int
}

func NewFakeBlobStore() *FakeBlobStore {
	return &FakeBlobStore{}
}

func (f *FakeBlobStore) Get(ctx context.Context) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Gets++
	if f.GetErr != nil {
		return nil, "", f.GetErr
	}
	if f.content == nil {
		return nil, "", storage.ErrNotFound
	}
	return append([]byte(nil), f.content...), f.versionTag(), nil
}

func (f *FakeBlobStore) Put(ctx context.Context, content []byte, version string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Puts++
	if f.PutErr != nil {
		return "", f.PutErr
	}
	current := ""
	if f.content != nil {
		current = f.versionTag()
	}
	if version != current {
		return "", storage.ErrVersionConflict
	}
	f.content = append([]byte(nil), content...)
	f.version++
	return f.versionTag(), nil
}

// Bump advances the version out from under the next writer, simulating a
// concurrent update to the remote blob.
func (f *FakeBlobStore) Bump(content []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.content = append([]byte(nil), content...)
	f.version++
}

// Content returns the current stored blob.
func (f *FakeBlobStore) Content() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]byte(nil), f.content...)
}

func (f *FakeBlobStore) versionTag() string {
	return fmt.Sprintf("v%d", f.version)
}
