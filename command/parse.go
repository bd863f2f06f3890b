// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package command

import (
	"regexp"
	"strconv"
	"strings"
)

const rootToken = "接龍"

// Reserved sub-keywords are matched before the generic brace-configure form;
// several patterns deliberately overlap (接龍開始{...} is a create, not a
// section configure) and this ordering is what disambiguates them.
const (
	kwStart  = rootToken + "開始"
	kwEnd    = rootToken + "結束"
	kwDelete = rootToken + "刪除"
	kwModify = rootToken + "修改"
	kwList   = rootToken + "名單"
	kwClear  = rootToken + "清空"
	kwStatus = rootToken + "狀態"
	kwQuery  = rootToken + "查詢"
)

var (
	leadingSigilRe  = regexp.MustCompile(`^([+＋\-－])([1-9])(?:[\s　]+(.*))?$`)
	trailingSigilRe = regexp.MustCompile(`^(.+?)[\s　]*([+＋\-－])([1-9])$`)
)

// Parse turns one line of free text into an intent. The second return value
// is false when the text matches nothing; such lines are ignored silently.
//
// Matcher order is part of the grammar: admin keywords, then reserved 接龍
// sub-keywords, then the generic brace form as section configuration, then
// the +N/-N sigil forms (leading sigil before trailing).
func Parse(text string) (Intent, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	if strings.HasPrefix(text, "admin") {
		return parseAdmin(text)
	}

	switch {
	case strings.HasPrefix(text, kwStart):
		return parseCreate(strings.TrimPrefix(text, kwStart)), true
	case strings.HasPrefix(text, kwEnd):
		return EndGame{}, true
	case strings.HasPrefix(text, kwDelete):
		return DeleteGame{}, true
	case strings.HasPrefix(text, kwModify):
		return parseModify(strings.TrimPrefix(text, kwModify)), true
	case strings.HasPrefix(text, kwClear):
		return ClearList{}, true
	case strings.HasPrefix(text, kwStatus):
		return StatusQuery{}, true
	case strings.HasPrefix(text, kwQuery):
		return ListQuery{}, true
	case strings.HasPrefix(text, kwList):
		// 接龍名單{...} appends in bulk; without braces the keyword alone is
		// not a command
		if raw, _, ok := extractField(text, "名單"); ok {
			return BulkList{Names: splitNames(raw)}, true
		}
		return nil, false
	case strings.HasPrefix(text, rootToken) && strings.ContainsAny(text, "{｛"):
		return parseConfigure(strings.TrimPrefix(text, rootToken)), true
	}

	return parseSigil(text)
}

func parseCreate(rest string) CreateGame {
	var intent CreateGame

	if raw, r, ok := extractField(rest, "匿名名單"); ok {
		rest = r
		intent.AnonCount, intent.AnonNames = parseAnonSpec(raw)
	}
	if raw, r, ok := extractField(rest, "名單"); ok {
		rest = r
		intent.Names = splitNames(raw)
	}
	if raw, r, ok := extractField(rest, "標題"); ok {
		rest = r
		intent.Title = strings.TrimSpace(raw)
	}
	if raw, r, ok := extractField(rest, "人數"); ok {
		rest = r
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n >= 0 {
			intent.Limit = &n
		}
	}
	if raw, r, ok := extractField(rest, "候補"); ok {
		rest = r
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n >= 0 {
			intent.BackupLimit = &n
		}
	}
	if raw, _, ok := extractField(rest, "時間"); ok {
		intent.ScheduleInput = strings.TrimSpace(raw)
		intent.ScheduleTime = parseScheduleTime(raw)
	}
	return intent
}

func parseModify(rest string) ModifyGame {
	var intent ModifyGame

	if raw, r, ok := extractField(rest, "名單"); ok {
		rest = r
		intent.Names = splitNames(raw)
		intent.HasNames = true
	}
	if raw, r, ok := extractField(rest, "標題"); ok {
		rest = r
		title := strings.TrimSpace(raw)
		intent.Title = &title
	}
	if raw, r, ok := extractField(rest, "人數"); ok {
		rest = r
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n >= 0 {
			intent.Limit = &n
		}
	}
	if raw, _, ok := extractField(rest, "候補"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n >= 0 {
			intent.BackupLimit = &n
		}
	}
	return intent
}

func parseConfigure(rest string) ConfigureSection {
	var intent ConfigureSection

	// optional section designator between 接龍 and the first field
	switch {
	case strings.HasPrefix(rest, "二"), strings.HasPrefix(rest, "2"), strings.HasPrefix(rest, "２"):
		intent.Index = 1
		rest = rest[len(firstRune(rest)):]
	case strings.HasPrefix(rest, "一"), strings.HasPrefix(rest, "1"), strings.HasPrefix(rest, "１"):
		rest = rest[len(firstRune(rest)):]
	}

	if raw, r, ok := extractField(rest, "標題"); ok {
		rest = r
		title := strings.TrimSpace(raw)
		intent.Title = &title
	}
	if raw, r, ok := extractField(rest, "人數"); ok {
		rest = r
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n >= 0 {
			intent.Limit = &n
		}
	}
	if raw, r, ok := extractField(rest, "候補"); ok {
		rest = r
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n >= 0 {
			intent.BackupLimit = &n
		}
	}
	if raw, _, ok := extractField(rest, "編號"); ok {
		label := strings.TrimSpace(raw)
		intent.Label = &label
	}
	return intent
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

// parseSigil handles the compact join/leave forms: a +N or -N sigil at the
// start of the line (optionally followed by names) or, failing that, at the
// end of the line after a non-empty name.
func parseSigil(text string) (Intent, bool) {
	if m := leadingSigilRe.FindStringSubmatch(text); m != nil {
		return sigilIntent(m[1], m[2], m[3]), true
	}
	if m := trailingSigilRe.FindStringSubmatch(text); m != nil {
		return sigilIntent(m[2], m[3], m[1]), true
	}
	return nil, false
}

func sigilIntent(sigil, digit, nameText string) Intent {
	count, _ := strconv.Atoi(digit)
	names := splitSigilNames(nameText)

	anonymous := len(names) == 1 && names[0] == "匿名"
	if anonymous {
		names = nil
	}
	self := !anonymous && len(names) == 0

	if sigil == "+" || sigil == "＋" {
		return Join{Count: count, Names: names, Anonymous: anonymous, Self: self}
	}
	return Leave{Count: count, Names: names, Anonymous: anonymous, Self: self}
}

func splitSigilNames(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == '　' || r == '\t' || r == ',' || r == '，'
	})
	names := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}

func parseAdmin(text string) (Intent, bool) {
	fields := strings.Fields(text)
	if len(fields) < 2 || fields[0] != "admin" {
		return nil, false
	}
	switch fields[1] {
	case "login":
		if len(fields) < 3 {
			return nil, false
		}
		return AdminLogin{Password: fields[2]}, true
	case "status":
		return AdminStatus{}, true
	case "db":
		return AdminDbList{}, true
	case "schedule":
		return AdminScheduleDebug{}, true
	case "push":
		rest := strings.TrimSpace(strings.TrimPrefix(text, fields[0]))
		rest = strings.TrimSpace(strings.TrimPrefix(rest, fields[1]))
		return AdminTestPush{Text: rest}, true
	case "check":
		return AdminForceCheck{}, true
	}
	return nil, false
}
