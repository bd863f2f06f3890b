// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package roster holds the live roll-call state and the engine that mutates it.

The Registry is the single source of truth while the process runs; the
persistence stores are projections of it. The Engine applies parsed command
intents atomically, one intent at a time: the registry lock is held across
read-mutate-render so no concurrent webhook delivery sees a partial update.

Engine errors are user-facing rejection reasons (duplicate names, no active
game, premature join before the scheduled open, nothing to modify) and are
replied verbatim. Collaborator failures never surface here: a failed
display-name lookup falls back to a generic name.

PopDueReminders and SweepExpired serve the scheduler: the former clears and
returns matured schedules (at-most-once), the latter drops games idle for
more than seven days.
*/
package roster
