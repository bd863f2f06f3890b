// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the roster domain types and their chat rendering.

# Types

A Game is the roster for one conversation and owns one or two Sections. A
Section is an ordered list of entries with a confirmed capacity (Limit) and a
waitlist capacity (BackupLimit). Capacity boundaries are computed from list
position at render time, never stored, so shrinking Limit reclassifies
trailing members without moving anything.

An Entry is either a real display name or an anonymous placeholder. Real
names are unique within a section; placeholders repeat freely and are
removed last-in-first-out.

# Persistence contract

Game marshals to the JSON blob stored per conversation. The field names and
the legacy "__ANON__" string form of anonymous entries are load-bearing:
blobs written by earlier runs must keep decoding.

# Rendering

Render produces the message shown for queries, confirmations and scheduled
pushes: numbered confirmed lines (numbers tied to array index), a
lookahead-only fold for runs of anonymous entries, open-seat markers, and an
independently numbered waitlist block.
*/
package models
