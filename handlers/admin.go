// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/rollcall/command"
)

// dispatchAdmin handles the admin intents and reports whether the intent
// was one. Every admin command except login is a silent no-op for callers
// that have not logged in, as is a login with the wrong password.
func (h *WebhookHandler) dispatchAdmin(ctx context.Context, replyToken, gid, userID string, intent command.Intent) bool {
	switch in := intent.(type) {
	case command.AdminLogin:
		h.adminLogin(ctx, replyToken, userID, in.Password)
	case command.AdminStatus:
		if h.isAdmin(userID) {
			h.reply(ctx, replyToken, h.adminStatus())
		}
	case command.AdminDbList:
		if h.isAdmin(userID) {
			h.reply(ctx, replyToken, h.adminDbList(ctx))
		}
	case command.AdminScheduleDebug:
		if h.isAdmin(userID) {
			h.reply(ctx, replyToken, h.adminSchedules())
		}
	case command.AdminTestPush:
		if h.isAdmin(userID) {
			h.adminTestPush(ctx, replyToken, gid, in.Text)
		}
	case command.AdminForceCheck:
		if h.isAdmin(userID) {
			fired := h.sched.Scan(time.Now())
			h.reply(ctx, replyToken, fmt.Sprintf("scan done, %d reminder(s) fired", fired))
		}
	default:
		return false
	}
	return true
}

func (h *WebhookHandler) isAdmin(userID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.admins[userID]
}

func (h *WebhookHandler) adminLogin(ctx context.Context, replyToken, userID, password string) {
	if subtle.ConstantTimeCompare([]byte(password), []byte(h.cfg.AdminPassword)) != 1 {
		slog.Warn("failed admin login attempt", "user", userID)
		return
	}
	h.mu.Lock()
	h.admins[userID] = true
	h.mu.Unlock()
	slog.Info("admin logged in", "user", userID)
	h.reply(ctx, replyToken, "admin ok")
}

func (h *WebhookHandler) adminStatus() string {
	var b strings.Builder
	fmt.Fprintf(&b, "up since %s", humanize.Time(h.started))
	fmt.Fprintf(&b, "\ngames: %d", h.eng.Registry().Len())
	fmt.Fprintf(&b, "\npersistence: %s", h.store.DBMode())
	return b.String()
}

func (h *WebhookHandler) adminDbList(ctx context.Context) string {
	keys, err := h.store.ListStored(ctx)
	if err != nil {
		return "db query failed"
	}
	if len(keys) == 0 {
		return "db empty"
	}
	return strings.Join(keys, "\n")
}

func (h *WebhookHandler) adminSchedules() string {
	var lines []string
	for gid, g := range h.eng.Registry().Snapshot() {
		if at, ok := g.ScheduledFor(); ok {
			last := time.UnixMilli(g.LastActiveTime)
			lines = append(lines, fmt.Sprintf("%s → %s (%s, active %s)",
				gid, at.UTC().Format(time.RFC3339), g.ScheduleInput, humanize.Time(last)))
		}
	}
	if len(lines) == 0 {
		return "no schedules"
	}
	return strings.Join(lines, "\n")
}

func (h *WebhookHandler) adminTestPush(ctx context.Context, replyToken, gid, text string) {
	if text == "" {
		text = "test push"
	}
	if err := h.pusher.Push(ctx, gid, text); err != nil {
		slog.Error("test push failed", "gid", gid, "error", err)
		h.reply(ctx, replyToken, "push failed")
		return
	}
	h.reply(ctx, replyToken, "push sent")
}
