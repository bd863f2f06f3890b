// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package githubstore implements the remote versioned blob store on the GitHub
contents API.

The snapshot lives as one file in a repository; its contents-API blob SHA is
the optimistic-concurrency version tag. Get returns content plus SHA, Put
writes conditioned on the last observed SHA (empty SHA creates the file) and
reports a stale SHA as storage.ErrVersionConflict so the coordinator can
re-read and retry once.

All calls run on a fixed-timeout HTTP client; a timeout is an ordinary
failure that triggers the coordinator's local-file fallback.
*/
package githubstore
