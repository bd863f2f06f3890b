// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package roster

import (
	"sort"
	"time"

	"github.com/danielhkuo/rollcall/models"
)

// Reminder is a matured schedule popped by a scan, ready to push.
type Reminder struct {
	GID     string
	Message string
}

// PopDueReminders clears every past-or-present schedule and returns one
// reminder per cleared game, in conversation-id order. Clearing before the
// push is dispatched is what guarantees at-most-once firing: a failed push
// is logged by the caller and never retried. Games holding an unusable
// stored schedule value are corrected to "no schedule" and reported so the
// correction gets persisted.
func (e *Engine) PopDueReminders(now time.Time) (reminders []Reminder, corrected []string) {
	e.reg.mu.Lock()
	defer e.reg.mu.Unlock()

	gids := make([]string, 0, len(e.reg.games))
	for gid := range e.reg.games {
		gids = append(gids, gid)
	}
	sort.Strings(gids)

	for _, gid := range gids {
		g := e.reg.games[gid]
		if g.ScheduleTime == nil {
			continue
		}
		at, ok := g.ScheduledFor()
		if !ok {
			g.ClearSchedule()
			corrected = append(corrected, gid)
			continue
		}
		if at.After(now) {
			continue
		}
		g.ClearSchedule()
		reminders = append(reminders, Reminder{GID: gid, Message: models.Render(g)})
	}
	return reminders, corrected
}

// SweepExpired deletes every game idle past the expiry window, regardless of
// its active flag, and returns the deleted conversation ids.
func (e *Engine) SweepExpired(now time.Time) []string {
	e.reg.mu.Lock()
	defer e.reg.mu.Unlock()

	var deleted []string
	for gid, g := range e.reg.games {
		if g.Expired(now) {
			delete(e.reg.games, gid)
			deleted = append(deleted, gid)
		}
	}
	sort.Strings(deleted)
	return deleted
}
