// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storage

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/danielhkuo/rollcall/models"
)

var snapshotHeader = []string{"gid", "sectionIdx", "name", "limit", "backupLimit"}

// EncodeSnapshot flattens every game into the recovery CSV: one row per
// non-anonymous entry, in list order. Anonymous placeholders are excluded
// entirely and are not recoverable from this format.
func EncodeSnapshot(games map[string]*models.Game) []byte {
	gids := make([]string, 0, len(games))
	for gid := range games {
		gids = append(gids, gid)
	}
	sort.Strings(gids)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write(snapshotHeader)
	for _, gid := range gids {
		g := games[gid]
		for idx := range g.Sections {
			s := &g.Sections[idx]
			for _, name := range s.RealNames() {
				w.Write([]string{
					gid,
					strconv.Itoa(idx),
					name,
					strconv.Itoa(s.Limit),
					strconv.Itoa(s.BackupLimit),
				})
			}
		}
	}
	w.Flush()
	return buf.Bytes()
}

type sectionAcc struct {
	entries           []models.Entry
	limit, backup     int
	limitOK, backupOK bool
}

// DecodeSnapshot rebuilds a registry from the flattened CSV. Capacities are
// the maximum observed value per section; rows without one fall back to
// max(RecoverLimitFloor, member count) and RecoverBackupLimit. Titles,
// notes, schedules and anonymous slots are not representable here.
func DecodeSnapshot(content []byte, now time.Time) (map[string]*models.Game, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if len(records) == 0 {
		return map[string]*models.Game{}, nil
	}

	accs := make(map[string][]*sectionAcc)
	order := []string{}
	start := 0
	if len(records[0]) > 0 && records[0][0] == snapshotHeader[0] {
		start = 1
	}
	for _, rec := range records[start:] {
		if len(rec) < 3 {
			continue
		}
		gid := rec[0]
		idx, err := strconv.Atoi(rec[1])
		if err != nil || idx < 0 {
			continue
		}
		if _, ok := accs[gid]; !ok {
			order = append(order, gid)
		}
		for len(accs[gid]) <= idx {
			accs[gid] = append(accs[gid], &sectionAcc{})
		}
		acc := accs[gid][idx]
		acc.entries = append(acc.entries, models.RealName(rec[2]))
		if len(rec) > 3 {
			if n, err := strconv.Atoi(rec[3]); err == nil && n > acc.limit {
				acc.limit = n
				acc.limitOK = true
			}
		}
		if len(rec) > 4 {
			if n, err := strconv.Atoi(rec[4]); err == nil && n > acc.backup {
				acc.backup = n
				acc.backupOK = true
			}
		}
	}

	games := make(map[string]*models.Game, len(order))
	for _, gid := range order {
		g := models.NewGame("接龍", models.DefaultLimit, models.DefaultBackupLimit, now)
		g.Sections = g.Sections[:0]
		for _, acc := range accs[gid] {
			limit := acc.limit
			if !acc.limitOK {
				limit = models.RecoverLimitFloor
				if n := len(acc.entries); n > limit {
					limit = n
				}
			}
			backup := acc.backup
			if !acc.backupOK {
				backup = models.RecoverBackupLimit
			}
			g.Sections = append(g.Sections, models.Section{
				Limit:       limit,
				BackupLimit: backup,
				List:        acc.entries,
			})
		}
		if len(g.Sections) == 0 {
			g.Sections = []models.Section{{Limit: models.DefaultLimit, BackupLimit: models.DefaultBackupLimit}}
		}
		games[gid] = g
	}
	return games, nil
}
