// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package roster

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/rollcall/command"
	"github.com/danielhkuo/rollcall/models"
)

// Errors returned to the user as short replies. Everything the engine
// returns is user-facing; collaborator failures are absorbed with fallbacks.
var (
	ErrNoGame          = errors.New("目前沒有進行中的接龍")
	ErrNothingToModify = errors.New("沒有可修改的欄位")
	ErrEmptyList       = errors.New("名單是空的")
	ErrNoAnon          = errors.New("名單中沒有匿名")
)

// DuplicateError rejects a whole batch of names when any of them collides,
// either internally or with the existing list. Zero names are added.
type DuplicateError struct {
	Names []string
}

func (e *DuplicateError) Error() string {
	return "名單重複：" + strings.Join(e.Names, "、")
}

// NotOpenError gates join/leave while the game has a future scheduled open.
type NotOpenError struct {
	Input string
}

func (e *NotOpenError) Error() string {
	return "接龍還沒開放，開放時間：" + e.Input
}

// NotFoundError reports a leave for a name that is in no section.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return "名單中沒有 " + e.Name
}

// NameResolver resolves a user's display name within a conversation.
// Failures are non-fatal; the engine substitutes a fallback name.
type NameResolver interface {
	DisplayName(ctx context.Context, gid, userID string) (string, error)
}

const fallbackDisplayName = "成員"
const defaultTitle = "接龍"

// Result is the outcome of one applied intent.
type Result struct {
	Reply   string
	Changed bool // state mutated, persistence required
	Deleted bool // the game was removed entirely
}

// Engine applies parsed intents to the registry. Every state-changing
// operation is atomic with respect to a single intent.
type Engine struct {
	reg   *Registry
	names NameResolver
}

func NewEngine(reg *Registry, names NameResolver) *Engine {
	return &Engine{reg: reg, names: names}
}

// Registry exposes the owned registry to the persistence and scheduling
// collaborators.
func (e *Engine) Registry() *Registry {
	return e.reg
}

// Apply executes one roster intent for a conversation. Admin intents are
// dispatched elsewhere; passing one here is a programming error.
func (e *Engine) Apply(ctx context.Context, gid, userID string, intent command.Intent) (Result, error) {
	switch in := intent.(type) {
	case command.CreateGame:
		return e.create(gid, in)
	case command.EndGame:
		return e.remove(gid, "接龍已結束")
	case command.DeleteGame:
		return e.remove(gid, "接龍已刪除")
	case command.ModifyGame:
		return e.modify(gid, in)
	case command.Join:
		return e.join(ctx, gid, userID, in)
	case command.Leave:
		return e.leave(ctx, gid, userID, in)
	case command.BulkList:
		return e.bulkAdd(gid, in.Names)
	case command.ConfigureSection:
		return e.configure(gid, in)
	case command.ClearList:
		return e.clear(gid)
	case command.StatusQuery:
		return e.status(gid)
	case command.ListQuery:
		return e.list(gid)
	}
	return Result{}, fmt.Errorf("unsupported intent %T", intent)
}

func (e *Engine) create(gid string, in command.CreateGame) (Result, error) {
	title := in.Title
	if title == "" {
		title = defaultTitle
	}
	limit := models.DefaultLimit
	if in.Limit != nil {
		limit = *in.Limit
	}
	backup := models.DefaultBackupLimit
	if in.BackupLimit != nil {
		backup = *in.BackupLimit
	}

	if dups := findDuplicates(in.Names, nil); len(dups) > 0 {
		return Result{}, &DuplicateError{Names: dups}
	}

	g := models.NewGame(title, limit, backup, time.Now())
	for _, name := range in.Names {
		g.Sections[0].List = append(g.Sections[0].List, models.RealName(name))
	}
	if in.AnonCount > 0 {
		g.AnonymousCount = in.AnonCount
		for i := 0; i < in.AnonCount; i++ {
			g.Sections[0].List = append(g.Sections[0].List, models.Anon())
		}
	}
	g.Anonymous = in.AnonNames
	if in.ScheduleTime != nil {
		g.ScheduleTime = in.ScheduleTime
		g.ScheduleInput = in.ScheduleInput
	}

	e.reg.mu.Lock()
	defer e.reg.mu.Unlock()
	// creation replaces any prior game for the conversation
	e.reg.games[gid] = g
	return Result{Reply: models.Render(g), Changed: true}, nil
}

func (e *Engine) remove(gid, reply string) (Result, error) {
	e.reg.mu.Lock()
	defer e.reg.mu.Unlock()
	if _, ok := e.reg.games[gid]; !ok {
		return Result{}, ErrNoGame
	}
	delete(e.reg.games, gid)
	return Result{Reply: reply, Changed: true, Deleted: true}, nil
}

func (e *Engine) modify(gid string, in command.ModifyGame) (Result, error) {
	if in.Title == nil && in.Limit == nil && in.BackupLimit == nil && !in.HasNames {
		return Result{}, ErrNothingToModify
	}
	if in.HasNames {
		if dups := findDuplicates(in.Names, nil); len(dups) > 0 {
			return Result{}, &DuplicateError{Names: dups}
		}
	}

	e.reg.mu.Lock()
	defer e.reg.mu.Unlock()
	g, ok := e.reg.games[gid]
	if !ok {
		return Result{}, ErrNoGame
	}

	if in.Title != nil {
		g.Title = *in.Title
	}
	// capacity changes only move render-time thresholds; entries stay put
	if in.Limit != nil {
		g.Sections[0].Limit = *in.Limit
	}
	if in.BackupLimit != nil {
		g.Sections[0].BackupLimit = *in.BackupLimit
	}
	if in.HasNames {
		list := make([]models.Entry, 0, len(in.Names))
		for _, name := range in.Names {
			list = append(list, models.RealName(name))
		}
		g.Sections[0].List = list
	}
	g.Touch(time.Now())
	return Result{Reply: models.Render(g), Changed: true}, nil
}

func (e *Engine) join(ctx context.Context, gid, userID string, in command.Join) (Result, error) {
	names := in.Names
	if in.Self {
		// display-name lookup happens before taking the registry lock
		names = []string{e.selfName(ctx, gid, userID)}
	}

	e.reg.mu.Lock()
	defer e.reg.mu.Unlock()
	g, ok := e.reg.games[gid]
	if !ok {
		return Result{}, ErrNoGame
	}
	if err := e.gate(g); err != nil {
		return Result{}, err
	}

	sec := &g.Sections[0]
	if !in.Anonymous {
		if dups := findDuplicates(names, sec); len(dups) > 0 {
			return Result{}, &DuplicateError{Names: dups}
		}
	}

	if in.Anonymous {
		for i := 0; i < in.Count; i++ {
			sec.List = append(sec.List, models.Anon())
		}
	} else {
		for _, name := range names {
			sec.List = append(sec.List, models.RealName(name))
		}
		// a count beyond the named people fills the rest with placeholders
		for i := len(names); i < in.Count; i++ {
			sec.List = append(sec.List, models.Anon())
		}
	}
	g.Touch(time.Now())
	return Result{Reply: models.Render(g), Changed: true}, nil
}

func (e *Engine) leave(ctx context.Context, gid, userID string, in command.Leave) (Result, error) {
	names := in.Names
	if in.Self {
		names = []string{e.selfName(ctx, gid, userID)}
	}

	e.reg.mu.Lock()
	defer e.reg.mu.Unlock()
	g, ok := e.reg.games[gid]
	if !ok {
		return Result{}, ErrNoGame
	}
	if err := e.gate(g); err != nil {
		return Result{}, err
	}

	if in.Anonymous {
		sec := &g.Sections[0]
		for i := 0; i < in.Count; i++ {
			if !sec.RemoveLastAnon() {
				if i == 0 {
					return Result{}, ErrNoAnon
				}
				break
			}
		}
		g.Touch(time.Now())
		return Result{Reply: models.Render(g), Changed: true}, nil
	}

	// all-or-nothing: verify every name exists somewhere before removing any
	for _, name := range names {
		found := false
		for i := range g.Sections {
			if g.Sections[i].HasName(name) {
				found = true
				break
			}
		}
		if !found {
			return Result{}, &NotFoundError{Name: name}
		}
	}
	for _, name := range names {
		for i := range g.Sections {
			g.Sections[i].RemoveName(name)
		}
	}
	g.Touch(time.Now())
	return Result{Reply: models.Render(g), Changed: true}, nil
}

func (e *Engine) bulkAdd(gid string, names []string) (Result, error) {
	if len(names) == 0 {
		return Result{}, ErrEmptyList
	}

	e.reg.mu.Lock()
	defer e.reg.mu.Unlock()
	g, ok := e.reg.games[gid]
	if !ok {
		return Result{}, ErrNoGame
	}

	sec := &g.Sections[0]
	if dups := findDuplicates(names, sec); len(dups) > 0 {
		return Result{}, &DuplicateError{Names: dups}
	}
	for _, name := range names {
		sec.List = append(sec.List, models.RealName(name))
	}
	g.Touch(time.Now())
	return Result{Reply: models.Render(g), Changed: true}, nil
}

func (e *Engine) configure(gid string, in command.ConfigureSection) (Result, error) {
	e.reg.mu.Lock()
	defer e.reg.mu.Unlock()
	g, ok := e.reg.games[gid]
	if !ok {
		// configuring with no game is a silent no-op, not an error
		return Result{}, nil
	}

	for len(g.Sections) <= in.Index {
		g.Sections = append(g.Sections, models.Section{
			Limit:       models.DefaultLimit,
			BackupLimit: models.DefaultBackupLimit,
		})
	}
	sec := &g.Sections[in.Index]
	// metadata only: the entry list is never reordered or trimmed here
	if in.Title != nil {
		sec.Title = *in.Title
	}
	if in.Limit != nil {
		sec.Limit = *in.Limit
	}
	if in.BackupLimit != nil {
		sec.BackupLimit = *in.BackupLimit
	}
	if in.Label != nil {
		sec.Label = *in.Label
	}
	g.Touch(time.Now())
	return Result{Reply: models.Render(g), Changed: true}, nil
}

func (e *Engine) clear(gid string) (Result, error) {
	e.reg.mu.Lock()
	defer e.reg.mu.Unlock()
	g, ok := e.reg.games[gid]
	if !ok {
		return Result{}, ErrNoGame
	}
	for i := range g.Sections {
		g.Sections[i].List = nil
	}
	g.Anonymous = nil
	g.AnonymousCount = 0
	g.Touch(time.Now())
	return Result{Reply: models.Render(g), Changed: true}, nil
}

func (e *Engine) status(gid string) (Result, error) {
	e.reg.mu.Lock()
	defer e.reg.mu.Unlock()
	g, ok := e.reg.games[gid]
	if !ok {
		return Result{}, ErrNoGame
	}

	var b strings.Builder
	b.WriteString(g.Title)
	fmt.Fprintf(&b, "\n建立：%s", time.UnixMilli(g.StartTime).In(scheduleZone).Format("2006-01-02 15:04"))
	total := 0
	for _, s := range g.Sections {
		total += len(s.List)
	}
	fmt.Fprintf(&b, "\n目前人數：%d", total)
	if _, ok := g.ScheduledFor(); ok {
		fmt.Fprintf(&b, "\n開始時間：%s", g.ScheduleInput)
	}
	return Result{Reply: b.String()}, nil
}

func (e *Engine) list(gid string) (Result, error) {
	e.reg.mu.Lock()
	defer e.reg.mu.Unlock()
	g, ok := e.reg.games[gid]
	if !ok {
		return Result{}, ErrNoGame
	}
	return Result{Reply: models.Render(g)}, nil
}

var scheduleZone = time.FixedZone("UTC+8", 8*60*60)

// gate rejects joins and leaves while the primary section has a future
// scheduled open; configuration and modification stay allowed.
func (e *Engine) gate(g *models.Game) error {
	if at, ok := g.ScheduledFor(); ok && at.After(time.Now()) {
		return &NotOpenError{Input: g.ScheduleInput}
	}
	return nil
}

func (e *Engine) selfName(ctx context.Context, gid, userID string) string {
	if e.names == nil {
		return fallbackDisplayName
	}
	name, err := e.names.DisplayName(ctx, gid, userID)
	if err != nil || name == "" {
		return fallbackDisplayName
	}
	return name
}

// findDuplicates checks a batch of new names against each other and, when a
// section is given, against its existing real entries. Anonymous placeholders
// never participate.
func findDuplicates(names []string, sec *models.Section) []string {
	seen := make(map[string]bool, len(names))
	var dups []string
	for _, name := range names {
		if seen[name] || (sec != nil && sec.HasName(name)) {
			if !containsString(dups, name) {
				dups = append(dups, name)
			}
			continue
		}
		seen[name] = true
	}
	return dups
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
