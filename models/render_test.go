// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"testing"
	"time"
)

func gameWith(limit, backup int, entries ...Entry) *Game {
	g := NewGame("接龍", limit, backup, time.Unix(0, 0))
	g.Sections[0].List = entries
	return g
}

func TestRenderAnonymousFold(t *testing.T) {
	g := gameWith(4, 0, RealName("A"), Anon(), Anon(), RealName("B"))
	want := "接龍" +
		"\n1. A" +
		"\n3. ***" +
		"\n4. B"
	if got := Render(g); got != want {
		t.Errorf("Render() =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderFoldLooksAheadOnly(t *testing.T) {
	// An anonymous entry followed by a real name still prints at its index.
	g := gameWith(4, 0, Anon(), RealName("A"), Anon(), RealName("B"))
	want := "接龍" +
		"\n1. ***" +
		"\n2. A" +
		"\n3. ***" +
		"\n4. B"
	if got := Render(g); got != want {
		t.Errorf("Render() =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderNoFoldAcrossCapacityBoundary(t *testing.T) {
	// The last confirmed slot never folds into the waitlist.
	g := gameWith(2, 2, RealName("A"), Anon(), Anon())
	want := "接龍" +
		"\n1. A" +
		"\n2. ***" +
		"\n備取：" +
		"\n1. ***"
	if got := Render(g); got != want {
		t.Errorf("Render() =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderOpenSeats(t *testing.T) {
	g := gameWith(5, 0, RealName("A"), RealName("B"))
	want := "接龍" +
		"\n1. A" +
		"\n2. B" +
		"\n" + EllipsisMark +
		"\n5. "
	if got := Render(g); got != want {
		t.Errorf("Render() =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderEmptyList(t *testing.T) {
	g := gameWith(3, 0)
	want := "接龍" +
		"\n" + EllipsisMark +
		"\n3. "
	if got := Render(g); got != want {
		t.Errorf("Render() =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderWaitlist(t *testing.T) {
	g := gameWith(3, 2,
		RealName("A"), RealName("B"), RealName("C"),
		RealName("D"), RealName("E"), RealName("F"))
	got := Render(g)
	want := "接龍" +
		"\n1. A" +
		"\n2. B" +
		"\n3. C" +
		"\n備取：" +
		"\n1. D" +
		"\n2. E"
	// F is beyond limit+backupLimit: kept in state, never rendered.
	if got != want {
		t.Errorf("Render() =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderSchedule(t *testing.T) {
	g := gameWith(1, 0, RealName("A"))
	ms := time.Date(2026, 9, 2, 20, 0, 0, 0, time.UTC).UnixMilli()
	g.ScheduleTime = &ms
	g.ScheduleInput = "2026-09-02 20:00"
	want := "接龍" +
		"\n開始時間：2026-09-02 20:00" +
		"\n1. A"
	if got := Render(g); got != want {
		t.Errorf("Render() =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderScheduleInputWithoutTimestamp(t *testing.T) {
	// Input that never parsed to a timestamp is not echoed back.
	g := gameWith(1, 0, RealName("A"))
	g.ScheduleInput = "下週三"
	want := "接龍\n1. A"
	if got := Render(g); got != want {
		t.Errorf("Render() =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderSectionsAndLabels(t *testing.T) {
	g := gameWith(2, 0, RealName("A"), RealName("B"))
	g.Sections[0].Label = "A"
	g.Sections = append(g.Sections, Section{
		Title: "女雙",
		Limit: 2,
		Label: "B",
		List:  []Entry{RealName("C")},
	})
	want := "接龍" +
		"\nA1. A" +
		"\nA2. B" +
		"\n女雙" +
		"\nB1. C" +
		"\nB2. "
	if got := Render(g); got != want {
		t.Errorf("Render() =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderLegacyAnonymousBlockAndNote(t *testing.T) {
	g := gameWith(1, 0, RealName("A"))
	g.Anonymous = []string{"路人甲", "路人乙"}
	g.Note = "自備球拍"
	want := "接龍" +
		"\n1. A" +
		"\n匿名：路人甲、路人乙" +
		"\n\n自備球拍"
	if got := Render(g); got != want {
		t.Errorf("Render() =\n%q\nwant\n%q", got, want)
	}
}
