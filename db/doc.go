// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

The bot stores full roster state as one JSON blob per conversation in a
single key/blob table. Both PostgreSQL (lib/pq) and SQLite (modernc.org's
pure-Go driver) are supported; the DATABASE_TYPE setting picks the driver
and StatementsFor returns the matching placeholder style.

The database is optional: without DATABASE_URL the persistence coordinator
runs in file-only mode from the start.
*/
package db
