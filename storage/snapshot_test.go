// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/rollcall/models"
)

func TestSnapshotRoundTrip(t *testing.T) {
	g := models.NewGame("週三羽球", 3, 2, time.Now())
	g.Sections[0].List = []models.Entry{
		models.RealName("小明"),
		models.Anon(),
		models.RealName(`愛用"引號"的人`),
		models.RealName("Lee, Anne"),
	}
	g.Sections = append(g.Sections, models.Section{
		Limit:       4,
		BackupLimit: 1,
		List:        []models.Entry{models.RealName("B組員")},
	})
	games := map[string]*models.Game{"C1": g}

	content := EncodeSnapshot(games)
	back, err := DecodeSnapshot(content, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	rg, ok := back["C1"]
	if !ok {
		t.Fatalf("games = %v", back)
	}
	if len(rg.Sections) != 2 {
		t.Fatalf("sections = %d", len(rg.Sections))
	}
	// anonymous placeholders are not representable in the flattened form
	want := []string{"小明", `愛用"引號"的人`, "Lee, Anne"}
	got := rg.Sections[0].RealNames()
	if len(got) != len(want) {
		t.Fatalf("names = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if rg.Sections[0].Limit != 3 || rg.Sections[0].BackupLimit != 2 {
		t.Errorf("section 0 capacities = %d/%d", rg.Sections[0].Limit, rg.Sections[0].BackupLimit)
	}
	if rg.Sections[1].Limit != 4 || rg.Sections[1].BackupLimit != 1 {
		t.Errorf("section 1 capacities = %d/%d", rg.Sections[1].Limit, rg.Sections[1].BackupLimit)
	}
}

func TestEncodeSnapshotStableOrder(t *testing.T) {
	games := map[string]*models.Game{}
	for _, gid := range []string{"Cz", "Ca"} {
		g := models.NewGame("t", 2, 0, time.Now())
		g.Sections[0].List = []models.Entry{models.RealName("x")}
		games[gid] = g
	}
	content := string(EncodeSnapshot(games))
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %v", lines)
	}
	if !strings.HasPrefix(lines[0], "gid,") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Ca,") || !strings.HasPrefix(lines[2], "Cz,") {
		t.Errorf("rows out of order: %v", lines[1:])
	}
}

func TestDecodeSnapshotLegacyShortRows(t *testing.T) {
	// older snapshots carried no capacity columns and no header
	content := []byte("C1,0,A\nC1,0,B\nC1,0,C\n")
	games, err := DecodeSnapshot(content, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	sec := games["C1"].Sections[0]
	if len(sec.List) != 3 {
		t.Fatalf("list = %v", sec.List)
	}
	if sec.Limit != models.RecoverLimitFloor {
		t.Errorf("limit = %d, want floor %d", sec.Limit, models.RecoverLimitFloor)
	}
	if sec.BackupLimit != models.RecoverBackupLimit {
		t.Errorf("backupLimit = %d", sec.BackupLimit)
	}
}

func TestDecodeSnapshotCapacityFromMemberCount(t *testing.T) {
	var rows []string
	for i := 0; i < 25; i++ {
		rows = append(rows, "C1,0,member"+strings.Repeat("x", i))
	}
	games, err := DecodeSnapshot([]byte(strings.Join(rows, "\n")), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if got := games["C1"].Sections[0].Limit; got != 25 {
		t.Errorf("limit = %d, want member count 25", got)
	}
}

func TestDecodeSnapshotEmpty(t *testing.T) {
	games, err := DecodeSnapshot(nil, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 0 {
		t.Errorf("games = %v", games)
	}
}

func TestDecodeSnapshotSkipsMalformedRows(t *testing.T) {
	content := []byte("gid,sectionIdx,name,limit,backupLimit\nC1,notanumber,A\nC1,0,B,8,2\n")
	games, err := DecodeSnapshot(content, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	sec := games["C1"].Sections[0]
	if len(sec.List) != 1 || sec.List[0].Name != "B" {
		t.Errorf("list = %v", sec.List)
	}
	if sec.Limit != 8 || sec.BackupLimit != 2 {
		t.Errorf("capacities = %d/%d", sec.Limit, sec.BackupLimit)
	}
}
