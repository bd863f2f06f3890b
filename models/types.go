// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"time"
)

// Defaults applied when a create command omits 人數/候補
const (
	DefaultLimit       = 10
	DefaultBackupLimit = 5
)

// Defaults applied when rebuilding a game from the flattened snapshot,
// which does not carry capacities for every section.
const (
	RecoverLimitFloor  = 20
	RecoverBackupLimit = 5
)

// AnonToken is the legacy wire form of an anonymous entry. It is the
// persistence contract for both the full-state blob and older data, so it
// must never change.
const AnonToken = "__ANON__"

// AnonMask is what an anonymous entry looks like in rendered output.
const AnonMask = "***"

// ExpireAfter is how long a game may sit without a mutation before the
// expiry sweep deletes it.
const ExpireAfter = 7 * 24 * time.Hour

// Entry is one slot in a section list: either a real display name (unique
// within its section) or an anonymous placeholder. It marshals to the legacy
// string form so blobs stay readable across runs.
type Entry struct {
	Name      string
	Anonymous bool
}

// RealName returns a named entry.
func RealName(name string) Entry {
	return Entry{Name: name}
}

// Anon returns an anonymous placeholder entry.
func Anon() Entry {
	return Entry{Anonymous: true}
}

// Display returns the rendered form of the entry.
func (e Entry) Display() string {
	if e.Anonymous {
		return AnonMask
	}
	return e.Name
}

func (e Entry) MarshalJSON() ([]byte, error) {
	if e.Anonymous {
		return json.Marshal(AnonToken)
	}
	return json.Marshal(e.Name)
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == AnonToken {
		*e = Entry{Anonymous: true}
	} else {
		*e = Entry{Name: s}
	}
	return nil
}

// Section is one sub-list of a game with its own capacity and waitlist.
// Positions below Limit are confirmed, positions in [Limit, Limit+BackupLimit)
// are waitlisted, anything beyond is kept but never rendered.
type Section struct {
	Title       string  `json:"title"`
	Limit       int     `json:"limit"`
	BackupLimit int     `json:"backupLimit"`
	Label       string  `json:"label"`
	List        []Entry `json:"list"`
}

// HasName reports whether a real entry with this name is already present.
func (s *Section) HasName(name string) bool {
	for _, e := range s.List {
		if !e.Anonymous && e.Name == name {
			return true
		}
	}
	return false
}

// RealNames returns the non-anonymous names in list order.
func (s *Section) RealNames() []string {
	names := make([]string, 0, len(s.List))
	for _, e := range s.List {
		if !e.Anonymous {
			names = append(names, e.Name)
		}
	}
	return names
}

// RemoveName deletes every occurrence of a real name from the list and
// reports whether anything was removed.
func (s *Section) RemoveName(name string) bool {
	removed := false
	kept := s.List[:0]
	for _, e := range s.List {
		if !e.Anonymous && e.Name == name {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	s.List = kept
	return removed
}

// RemoveLastAnon deletes the most recently added placeholder (LIFO) and
// reports whether one existed.
func (s *Section) RemoveLastAnon() bool {
	for i := len(s.List) - 1; i >= 0; i-- {
		if s.List[i].Anonymous {
			s.List = append(s.List[:i], s.List[i+1:]...)
			return true
		}
	}
	return false
}

// Game is the roster for one conversation. JSON field names are the
// cross-run persistence contract; do not rename them.
type Game struct {
	Title          string    `json:"title"`
	Note           string    `json:"note"`
	Active         bool      `json:"active"`
	StartTime      int64     `json:"startTime"`
	LastActiveTime int64     `json:"lastActiveTime"`
	ScheduleTime   *int64    `json:"scheduleTime"`
	ScheduleInput  string    `json:"scheduleInput"`
	Anonymous      []string  `json:"anonymous"`
	AnonymousCount int       `json:"anonymousCount"`
	Sections       []Section `json:"sections"`
}

// NewGame creates an active game with its primary section.
func NewGame(title string, limit, backupLimit int, now time.Time) *Game {
	ms := now.UnixMilli()
	return &Game{
		Title:          title,
		Active:         true,
		StartTime:      ms,
		LastActiveTime: ms,
		Sections: []Section{{
			Limit:       limit,
			BackupLimit: backupLimit,
		}},
	}
}

// Touch records a mutation for expiry purposes.
func (g *Game) Touch(now time.Time) {
	g.LastActiveTime = now.UnixMilli()
}

// ScheduledFor returns the pending reminder time, or false when none is set
// or the stored value is not a usable timestamp.
func (g *Game) ScheduledFor() (time.Time, bool) {
	if g.ScheduleTime == nil || *g.ScheduleTime <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(*g.ScheduleTime), true
}

// ClearSchedule drops the pending reminder.
func (g *Game) ClearSchedule() {
	g.ScheduleTime = nil
	g.ScheduleInput = ""
}

// Expired reports whether the game has been idle past the expiry window.
// Legacy blobs may lack lastActiveTime, so startTime is the fallback.
func (g *Game) Expired(now time.Time) bool {
	last := g.LastActiveTime
	if last == 0 {
		last = g.StartTime
	}
	return now.Sub(time.UnixMilli(last)) > ExpireAfter
}

// Clone returns a deep copy, used when handing state to the persistence
// coordinator so writers never observe a half-applied intent.
func (g *Game) Clone() *Game {
	cp := *g
	if g.ScheduleTime != nil {
		t := *g.ScheduleTime
		cp.ScheduleTime = &t
	}
	cp.Anonymous = append([]string(nil), g.Anonymous...)
	cp.Sections = make([]Section, len(g.Sections))
	for i, s := range g.Sections {
		cp.Sections[i] = s
		cp.Sections[i].List = append([]Entry(nil), s.List...)
	}
	return &cp
}
