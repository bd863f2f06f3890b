// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package command parses free-text chat lines into roster intents.

The grammar is deliberately tolerant. Keyed fields use a curly-brace
micro-syntax and may appear in any order and any subset:

	接龍開始 標題{週三羽球} 人數{12} 候補{4} 名單{小明,小華} 匿名名單{2} 時間{2026-09-02 20:00}

Both ASCII and full-width braces are accepted, with an optional colon after
the label. The name-list field splits on commas or newlines and strips
leading ordinals, so a numbered list pastes cleanly. The time field is
wall-clock UTC+8; input that fails all known layouts leaves the schedule
unset instead of failing the command.

Join and leave use a compact sigil form with a digit 1-9:

	+3 小明 小華
	小明 +1
	-1
	+2 匿名

Matcher precedence is part of the grammar and must not be reordered: admin
keywords first, then the reserved 接龍 sub-keywords (開始/結束/刪除/修改/名單/
清空/狀態/查詢), then any remaining 接龍 line containing a brace as section
configuration, and finally the sigil forms, leading sigil before trailing.
Lines matching nothing are not commands and produce no reply.
*/
package command
