// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"strconv"
	"strings"
)

// EllipsisMark is printed immediately after the last filled slot when open
// seats remain before the final capacity slot.
const EllipsisMark = "⋯"

// Render turns a game into the chat message shown for queries, join/leave
// confirmations and scheduled pushes.
//
// Line numbers are always tied to the array index, not to the count of
// visible lines. Two consecutive anonymous entries fold: the earlier line is
// suppressed and only the last of the run is printed, at its own index. The
// fold looks ahead only: an anonymous entry followed by a real name still
// prints, whatever came before it.
func Render(g *Game) string {
	var b strings.Builder

	b.WriteString(g.Title)
	if g.ScheduleInput != "" {
		if _, ok := g.ScheduledFor(); ok {
			b.WriteString("\n開始時間：")
			b.WriteString(g.ScheduleInput)
		}
	}

	for i := range g.Sections {
		s := &g.Sections[i]
		if s.Title != "" {
			b.WriteString("\n")
			b.WriteString(s.Title)
		}
		renderSection(&b, s)
	}

	if len(g.Anonymous) > 0 {
		b.WriteString("\n匿名：")
		b.WriteString(strings.Join(g.Anonymous, "、"))
	}
	if g.Note != "" {
		b.WriteString("\n\n")
		b.WriteString(g.Note)
	}
	return b.String()
}

func renderSection(b *strings.Builder, s *Section) {
	for i := 0; i < s.Limit; i++ {
		if i < len(s.List) {
			e := s.List[i]
			if e.Anonymous && i+1 < s.Limit && i+1 < len(s.List) && s.List[i+1].Anonymous {
				// folded into the next line
				continue
			}
			writeNumbered(b, s.Label, i, e.Display())
			continue
		}
		// open seats: one ellipsis right after the last filled slot, and the
		// very last capacity slot as a blank numbered line
		if i == s.Limit-1 {
			writeNumbered(b, s.Label, i, "")
		} else if i == len(s.List) {
			b.WriteString("\n")
			b.WriteString(EllipsisMark)
		}
	}

	// waitlist: independently numbered, masked but never folded
	if len(s.List) > s.Limit && s.BackupLimit > 0 {
		b.WriteString("\n備取：")
		end := s.Limit + s.BackupLimit
		if end > len(s.List) {
			end = len(s.List)
		}
		for i := s.Limit; i < end; i++ {
			writeNumbered(b, s.Label, i-s.Limit, s.List[i].Display())
		}
	}
}

func writeNumbered(b *strings.Builder, label string, index int, text string) {
	b.WriteString("\n")
	b.WriteString(label)
	b.WriteString(strconv.Itoa(index + 1))
	b.WriteString(". ")
	b.WriteString(text)
}
