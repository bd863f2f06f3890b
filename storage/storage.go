// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means the remote blob does not exist yet; a Put with an
	// empty version creates it.
	ErrNotFound = errors.New("blob not found")

	// ErrVersionConflict means the supplied version tag no longer matches
	// the remote blob. The writer re-reads and retries exactly once.
	ErrVersionConflict = errors.New("blob version conflict")
)

// BlobStore is a remote versioned blob: reads return the current content
// and its version tag, writes are conditioned on the previously observed
// tag (empty tag = create).
type BlobStore interface {
	Get(ctx context.Context) (content []byte, version string, err error)
	Put(ctx context.Context, content []byte, version string) (newVersion string, err error)
}
