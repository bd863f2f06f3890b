// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package scheduler runs the bot's time-triggered work on a single repeating
timer aligned to the top of each minute.

Each tick scans all games for matured reminder timestamps. A reminder fires
at most once: the scan clears the schedule field and persists that change
before attempting the push, so a failed push is logged and never retried.
One eager scan runs at startup, outside the minute alignment, to catch
reminders that matured while the process was stopped. A reentrancy guard
turns overlapping firings into no-ops.

The same tick drives the hourly expiry sweep (games idle for more than seven
days are deleted) and, when a base URL is configured, a ten-minute
keep-alive self-ping with its own fixed timeout.
*/
package scheduler
