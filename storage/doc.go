// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package storage makes roster state durable across restarts.

Two independent representations are maintained:

  - The full-state store: one JSON blob per conversation upserted into a
    key/blob table, plus a whole-registry JSON file written with a short
    debounce (an immediate mode bypasses it for mutations that must survive
    the reply). A database error at any point downgrades the process to
    file-only mode permanently; the roster keeps operating from memory.

  - The flattened CSV snapshot: one row per non-anonymous entry across all
    conversations, mirrored to a remote versioned blob store through a
    single-writer FIFO queue. Each write is conditioned on the last observed
    version tag; a conflict triggers exactly one re-read-and-retry before
    the write falls back to a local copy. Remote failures are per-write and
    self-heal on the next success.

Recover rebuilds the registry at startup from whichever source has data:
database, then state file, then snapshot (remote before local). Snapshot
recovery restores real names and inferred capacities only; anonymous slots
are not representable in the flattened format.
*/
package storage
