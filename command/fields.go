// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package command

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Keyed fields use a curly-brace micro-syntax: 標題{...}, 人數{...} and so on,
// in any order and any subset. Both ASCII and full-width braces are accepted,
// with an optional full/half-width colon after the label.
var fieldRes = map[string]*regexp.Regexp{}

func init() {
	for _, label := range []string{"匿名名單", "名單", "標題", "人數", "候補", "時間", "編號"} {
		fieldRes[label] = regexp.MustCompile(label + `[:：]?\s*[{｛]([^}｝]*)[}｝]`)
	}
}

// extractField pulls one keyed field out of text. It returns the bracketed
// content, the text with the matched span removed, and whether a match was
// found. Removal matters: 名單 must be extracted only after 匿名名單 has been
// cut out, or it would match the tail of the longer label.
func extractField(text, label string) (content, rest string, ok bool) {
	re := fieldRes[label]
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", text, false
	}
	content = text[loc[2]:loc[3]]
	rest = text[:loc[0]] + text[loc[1]:]
	return content, rest, true
}

var ordinalPrefixRe = regexp.MustCompile(`^[0-9０-９]+[\.。、:：)）\s]+`)

// splitNames turns a pasted name-list field into individual names: split on
// commas (half and full width) or newlines, trim, drop empties, and strip a
// leading ordinal so numbered lists paste cleanly.
func splitNames(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '，' || r == '\n' || r == '\r'
	})
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		p = ordinalPrefixRe.ReplaceAllString(p, "")
		p = strings.TrimSpace(p)
		if p != "" {
			names = append(names, p)
		}
	}
	return names
}

// parseAnonSpec interprets the 匿名名單 field: a bare integer asks for that
// many placeholder slots, anything else is a legacy list of explicit
// placeholder display names. The two modes are mutually exclusive.
func parseAnonSpec(raw string) (count int, names []string) {
	trimmed := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(trimmed); err == nil && n > 0 {
		return n, nil
	}
	return 0, splitNames(raw)
}

// The bot serves one fixed locale; schedule input is wall-clock UTC+8.
var zoneTaipei = time.FixedZone("UTC+8", 8*60*60)

var scheduleRe = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})\s+(\d{1,2}):(\d{2})$`)

var fallbackLayouts = []string{
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04",
	"2006-01-02",
	"2006/01/02",
}

// parseScheduleTime converts human schedule input to an absolute UTC ms
// timestamp. Unparseable input leaves the schedule unset rather than
// rejecting the whole command.
func parseScheduleTime(raw string) *int64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if m := scheduleRe.FindStringSubmatch(trimmed); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		hour, _ := strconv.Atoi(m[4])
		minute, _ := strconv.Atoi(m[5])
		t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, zoneTaipei)
		ms := t.UnixMilli()
		return &ms
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, zoneTaipei); err == nil {
			ms := t.UnixMilli()
			return &ms
		}
	}
	return nil
}
