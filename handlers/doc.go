// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers connects LINE webhook deliveries to the roster core.

Each text-message event flows through interpret → engine → persist → reply.
Lines that match no command produce no reply at all; rejected commands get
exactly one short explanation. Redelivered webhook events are suppressed by
delivery id. Panics inside intent handling are recovered and logged, and the
webhook is acknowledged with 200 regardless, so the platform never disables
it.

Admin commands ride the same webhook: a shared-password login marks the
calling user as admin for the process lifetime, after which the diagnostic
commands (status, db, schedule, push, check) answer; for everyone else they
are silent no-ops.
*/
package handlers
