// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package command

import (
	"reflect"
	"testing"
	"time"
)

func TestParseCreate(t *testing.T) {
	intent, ok := Parse("接龍開始 標題{週三羽球} 人數{12} 候補{4} 名單{小明,小華} 時間{2026-09-02 20:00}")
	if !ok {
		t.Fatal("expected a match")
	}
	create, ok := intent.(CreateGame)
	if !ok {
		t.Fatalf("expected CreateGame, got %T", intent)
	}
	if create.Title != "週三羽球" {
		t.Errorf("title = %q", create.Title)
	}
	if create.Limit == nil || *create.Limit != 12 {
		t.Errorf("limit = %v", create.Limit)
	}
	if create.BackupLimit == nil || *create.BackupLimit != 4 {
		t.Errorf("backupLimit = %v", create.BackupLimit)
	}
	if !reflect.DeepEqual(create.Names, []string{"小明", "小華"}) {
		t.Errorf("names = %v", create.Names)
	}
	want := time.Date(2026, 9, 2, 20, 0, 0, 0, time.FixedZone("UTC+8", 8*60*60)).UnixMilli()
	if create.ScheduleTime == nil || *create.ScheduleTime != want {
		t.Errorf("scheduleTime = %v, want %d", create.ScheduleTime, want)
	}
	if create.ScheduleInput != "2026-09-02 20:00" {
		t.Errorf("scheduleInput = %q", create.ScheduleInput)
	}
}

func TestParseCreate_FullWidthAndOrdinals(t *testing.T) {
	intent, ok := Parse("接龍開始標題：｛聚餐｝名單｛1. 阿強\n2. 小美\n3.老王｝")
	if !ok {
		t.Fatal("expected a match")
	}
	create := intent.(CreateGame)
	if create.Title != "聚餐" {
		t.Errorf("title = %q", create.Title)
	}
	if !reflect.DeepEqual(create.Names, []string{"阿強", "小美", "老王"}) {
		t.Errorf("names = %v", create.Names)
	}
}

func TestParseCreate_AnonymousSpec(t *testing.T) {
	intent, _ := Parse("接龍開始 匿名名單{3}")
	if c := intent.(CreateGame); c.AnonCount != 3 || c.AnonNames != nil {
		t.Errorf("count spec: got count=%d names=%v", c.AnonCount, c.AnonNames)
	}

	intent, _ = Parse("接龍開始 匿名名單{朋友A,朋友B}")
	c := intent.(CreateGame)
	if c.AnonCount != 0 || !reflect.DeepEqual(c.AnonNames, []string{"朋友A", "朋友B"}) {
		t.Errorf("list spec: got count=%d names=%v", c.AnonCount, c.AnonNames)
	}
}

// 匿名名單 must not be consumed by the shorter 名單 label.
func TestParseCreate_AnonListDoesNotLeakIntoNames(t *testing.T) {
	intent, _ := Parse("接龍開始 匿名名單{2} 名單{小明}")
	c := intent.(CreateGame)
	if c.AnonCount != 2 {
		t.Errorf("anonCount = %d", c.AnonCount)
	}
	if !reflect.DeepEqual(c.Names, []string{"小明"}) {
		t.Errorf("names = %v", c.Names)
	}
}

func TestParseCreate_UnparseableTimeLeavesScheduleUnset(t *testing.T) {
	intent, _ := Parse("接龍開始 時間{下週三晚上}")
	c := intent.(CreateGame)
	if c.ScheduleTime != nil {
		t.Errorf("scheduleTime = %v, want unset", c.ScheduleTime)
	}
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		name string
		text string
		want reflect.Type
	}{
		{"start beats configure despite braces", "接龍開始 人數{8}", reflect.TypeOf(CreateGame{})},
		{"modify beats configure", "接龍修改 人數{8}", reflect.TypeOf(ModifyGame{})},
		{"bulk list beats configure", "接龍名單{甲,乙}", reflect.TypeOf(BulkList{})},
		{"end", "接龍結束", reflect.TypeOf(EndGame{})},
		{"delete", "接龍刪除", reflect.TypeOf(DeleteGame{})},
		{"clear", "接龍清空", reflect.TypeOf(ClearList{})},
		{"status", "接龍狀態", reflect.TypeOf(StatusQuery{})},
		{"query", "接龍查詢", reflect.TypeOf(ListQuery{})},
		{"generic braces configure", "接龍 人數{8}", reflect.TypeOf(ConfigureSection{})},
		{"second section configure", "接龍二 標題{B組}", reflect.TypeOf(ConfigureSection{})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, ok := Parse(tt.text)
			if !ok {
				t.Fatalf("Parse(%q): no match", tt.text)
			}
			if reflect.TypeOf(intent) != tt.want {
				t.Errorf("Parse(%q) = %T, want %v", tt.text, intent, tt.want)
			}
		})
	}
}

func TestParseConfigureSection(t *testing.T) {
	intent, _ := Parse("接龍二 標題{女雙} 人數{6} 候補{2} 編號{B}")
	cs := intent.(ConfigureSection)
	if cs.Index != 1 {
		t.Errorf("index = %d", cs.Index)
	}
	if cs.Title == nil || *cs.Title != "女雙" {
		t.Errorf("title = %v", cs.Title)
	}
	if cs.Limit == nil || *cs.Limit != 6 {
		t.Errorf("limit = %v", cs.Limit)
	}
	if cs.BackupLimit == nil || *cs.BackupLimit != 2 {
		t.Errorf("backupLimit = %v", cs.BackupLimit)
	}
	if cs.Label == nil || *cs.Label != "B" {
		t.Errorf("label = %v", cs.Label)
	}
}

func TestParseSigils(t *testing.T) {
	tests := []struct {
		text  string
		want  Intent
		match bool
	}{
		{"+3 小明 小華", Join{Count: 3, Names: []string{"小明", "小華"}}, true},
		{"小明 +1", Join{Count: 1, Names: []string{"小明"}}, true},
		{"小明+2", Join{Count: 2, Names: []string{"小明"}}, true},
		{"+1", Join{Count: 1, Self: true}, true},
		{"+2 匿名", Join{Count: 2, Anonymous: true}, true},
		{"-1", Leave{Count: 1, Self: true}, true},
		{"-1 小明", Leave{Count: 1, Names: []string{"小明"}}, true},
		{"-1 匿名", Leave{Count: 1, Anonymous: true}, true},
		{"＋１?", nil, false}, // full-width digits are not the sigil grammar
		{"+0", nil, false},
		{"+10", nil, false},
		{"+3x", nil, false},
		{"hello there", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			intent, ok := Parse(tt.text)
			if ok != tt.match {
				t.Fatalf("Parse(%q) match = %v, want %v", tt.text, ok, tt.match)
			}
			if tt.match && !reflect.DeepEqual(intent, tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.text, intent, tt.want)
			}
		})
	}
}

func TestParseAdmin(t *testing.T) {
	intent, ok := Parse("admin login hunter2")
	if !ok {
		t.Fatal("expected a match")
	}
	if login := intent.(AdminLogin); login.Password != "hunter2" {
		t.Errorf("password = %q", login.Password)
	}

	if intent, _ := Parse("admin push 提醒大家"); intent.(AdminTestPush).Text != "提醒大家" {
		t.Errorf("push text = %q", intent.(AdminTestPush).Text)
	}

	for text, want := range map[string]reflect.Type{
		"admin status":   reflect.TypeOf(AdminStatus{}),
		"admin db":       reflect.TypeOf(AdminDbList{}),
		"admin schedule": reflect.TypeOf(AdminScheduleDebug{}),
		"admin check":    reflect.TypeOf(AdminForceCheck{}),
	} {
		intent, ok := Parse(text)
		if !ok || reflect.TypeOf(intent) != want {
			t.Errorf("Parse(%q) = %T, %v", text, intent, ok)
		}
	}

	if _, ok := Parse("admin frobnicate"); ok {
		t.Error("unknown admin subcommand should not match")
	}
	if _, ok := Parse("admin"); ok {
		t.Error("bare admin should not match")
	}
}

func TestParseScheduleTimeFallbacks(t *testing.T) {
	zone := time.FixedZone("UTC+8", 8*60*60)
	tests := []struct {
		input string
		want  *time.Time
	}{
		{"2026-09-02 20:00", ptr(time.Date(2026, 9, 2, 20, 0, 0, 0, zone))},
		{"2026/9/2 8:05", ptr(time.Date(2026, 9, 2, 8, 5, 0, 0, zone))},
		{"2026/09/02 20:00:30", ptr(time.Date(2026, 9, 2, 20, 0, 30, 0, zone))},
		{"2026-09-02", ptr(time.Date(2026, 9, 2, 0, 0, 0, 0, zone))},
		{"gibberish", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got := parseScheduleTime(tt.input)
		if tt.want == nil {
			if got != nil {
				t.Errorf("parseScheduleTime(%q) = %d, want nil", tt.input, *got)
			}
			continue
		}
		if got == nil || *got != tt.want.UnixMilli() {
			t.Errorf("parseScheduleTime(%q) = %v, want %d", tt.input, got, tt.want.UnixMilli())
		}
	}
}

func ptr(t time.Time) *time.Time { return &t }
