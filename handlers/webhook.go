// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/danielhkuo/rollcall/cliparse"
	"github.com/danielhkuo/rollcall/command"
	"github.com/danielhkuo/rollcall/roster"
	"github.com/danielhkuo/rollcall/scheduler"
	"github.com/danielhkuo/rollcall/storage"
)

// Replier answers one webhook event through its reply token.
type Replier interface {
	Reply(ctx context.Context, replyToken, text string) error
}

// Pusher sends an unsolicited message to a conversation.
type Pusher interface {
	Push(ctx context.Context, gid, text string) error
}

const (
	dedupeWindow    = time.Hour
	dedupeSweepSize = 1024
)

// WebhookHandler turns LINE webhook deliveries into roster mutations:
// parse -> interpret -> engine -> persist -> reply. The webhook is always
// acknowledged with 200 so the platform never disables it over a handler
// failure.
type WebhookHandler struct {
	cfg     cliparse.Config
	eng     *roster.Engine
	store   *storage.Coordinator
	sched   *scheduler.Scheduler
	replier Replier
	pusher  Pusher
	started time.Time

	mu     sync.Mutex
	admins map[string]bool
	seen   map[string]time.Time
}

func NewWebhookHandler(cfg cliparse.Config, eng *roster.Engine, store *storage.Coordinator, sched *scheduler.Scheduler, replier Replier, pusher Pusher) *WebhookHandler {
	return &WebhookHandler{
		cfg:     cfg,
		eng:     eng,
		store:   store,
		sched:   sched,
		replier: replier,
		pusher:  pusher,
		started: time.Now(),
		admins:  make(map[string]bool),
		seen:    make(map[string]time.Time),
	}
}

// Callback handles POST /callback
func (h *WebhookHandler) Callback(w http.ResponseWriter, r *http.Request) {
	cb, err := webhook.ParseRequest(h.cfg.ChannelSecret, r)
	if err != nil {
		if err == webhook.ErrInvalidSignature {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		// malformed platform payloads are acknowledged anyway
		slog.Error("failed to parse webhook request", "error", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	for _, event := range cb.Events {
		h.HandleEvent(r.Context(), event)
	}
	w.WriteHeader(http.StatusOK)
}

// HandleEvent processes one webhook event. Panics inside intent handling are
// contained here so one bad event cannot take the process down.
func (h *WebhookHandler) HandleEvent(ctx context.Context, event webhook.EventInterface) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("panic while handling event", "panic", rec)
		}
	}()

	e, ok := event.(webhook.MessageEvent)
	if !ok {
		// joins, follows and the like need no response
		return
	}
	msg, ok := e.Message.(webhook.TextMessageContent)
	if !ok {
		return
	}
	if h.alreadyDelivered(e.WebhookEventId) {
		return
	}

	gid, userID := sourceIDs(e.Source)
	if gid == "" {
		return
	}

	intent, ok := command.Parse(msg.Text)
	if !ok {
		return
	}

	if h.dispatchAdmin(ctx, e.ReplyToken, gid, userID, intent) {
		return
	}

	res, err := h.eng.Apply(ctx, gid, userID, intent)
	if err != nil {
		// engine errors are user-input rejections, replied verbatim
		h.reply(ctx, e.ReplyToken, err.Error())
		return
	}

	if res.Changed {
		if res.Deleted {
			h.store.DeleteGame(gid)
		} else {
			h.store.SaveGame(gid, immediateSave(intent))
		}
	}
	if res.Reply != "" {
		h.reply(ctx, e.ReplyToken, res.Reply)
	}
}

// immediateSave reports whether a mutation must hit the file store before
// the debounce window, so it cannot be lost once the reply is out.
func immediateSave(intent command.Intent) bool {
	switch intent.(type) {
	case command.ConfigureSection:
		return false
	default:
		return true
	}
}

func (h *WebhookHandler) reply(ctx context.Context, replyToken, text string) {
	if replyToken == "" {
		return
	}
	if err := h.replier.Reply(ctx, replyToken, text); err != nil {
		slog.Error("failed to send reply", "error", err)
	}
}

// alreadyDelivered suppresses redelivered webhook events. Deliveries
// without an id get a synthetic one and are never treated as duplicates.
func (h *WebhookHandler) alreadyDelivered(eventID string) bool {
	if eventID == "" {
		eventID = uuid.NewString()
	}
	now := time.Now()

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, dup := h.seen[eventID]; dup {
		return true
	}
	if len(h.seen) >= dedupeSweepSize {
		for id, at := range h.seen {
			if now.Sub(at) > dedupeWindow {
				delete(h.seen, id)
			}
		}
	}
	h.seen[eventID] = now
	return false
}

// sourceIDs extracts the conversation id and acting user id from an event
// source. Direct chats use the user id as conversation id.
func sourceIDs(source webhook.SourceInterface) (gid, userID string) {
	switch s := source.(type) {
	case webhook.GroupSource:
		return s.GroupId, s.UserId
	case webhook.RoomSource:
		return s.RoomId, s.UserId
	case webhook.UserSource:
		return s.UserId, s.UserId
	}
	return "", ""
}
