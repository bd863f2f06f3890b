// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scheduler

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danielhkuo/rollcall/roster"
	"github.com/danielhkuo/rollcall/storage"
)

const (
	sweepEvery     = time.Hour
	keepAliveEvery = 10 * time.Minute
	pingTimeout    = 10 * time.Second
)

// Pusher sends a push-style message to a conversation.
type Pusher interface {
	Push(ctx context.Context, gid, text string) error
}

// Scheduler drives the time-based behavior: one reminder scan per minute
// (aligned to the minute boundary), an hourly expiry sweep, and the optional
// keep-alive self-ping.
type Scheduler struct {
	eng    *roster.Engine
	store  *storage.Coordinator
	pusher Pusher

	baseURL string
	pingc   *http.Client

	scanning  atomic.Bool
	lastSweep time.Time
	lastPing  time.Time

	quit chan struct{}
	wg   sync.WaitGroup
}

func New(eng *roster.Engine, store *storage.Coordinator, pusher Pusher, baseURL string) *Scheduler {
	return &Scheduler{
		eng:     eng,
		store:   store,
		pusher:  pusher,
		baseURL: baseURL,
		pingc:   &http.Client{Timeout: pingTimeout},
		quit:    make(chan struct{}),
	}
}

// Start runs one eager scan (to catch reminders that matured while the
// process was down) and then ticks every minute, aligned to the boundary.
func (s *Scheduler) Start() {
	now := time.Now()
	s.Scan(now)
	s.lastSweep = now
	s.lastPing = now

	s.wg.Add(1)
	go s.run()
}

func (s *Scheduler) Stop() {
	close(s.quit)
	s.wg.Wait()
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	first := time.NewTimer(time.Until(time.Now().Truncate(time.Minute).Add(time.Minute)))
	select {
	case <-first.C:
	case <-s.quit:
		first.Stop()
		return
	}

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	s.tick(time.Now())
	for {
		select {
		case now := <-ticker.C:
			s.tick(now)
		case <-s.quit:
			return
		}
	}
}

func (s *Scheduler) tick(now time.Time) {
	s.Scan(now)
	if now.Sub(s.lastSweep) >= sweepEvery {
		s.lastSweep = now
		s.Sweep(now)
	}
	if s.baseURL != "" && now.Sub(s.lastPing) >= keepAliveEvery {
		s.lastPing = now
		s.ping()
	}
}

// Scan fires every matured reminder at most once: the schedule is cleared
// and persisted before the push is attempted, so a push failure is logged
// and never retried. Overlapping invocations are no-ops. Returns the number
// of reminders dispatched.
func (s *Scheduler) Scan(now time.Time) int {
	if !s.scanning.CompareAndSwap(false, true) {
		return 0
	}
	defer s.scanning.Store(false)

	reminders, corrected := s.eng.PopDueReminders(now)
	for _, gid := range corrected {
		slog.Warn("corrected invalid schedule time", "gid", gid)
		s.store.SaveGame(gid, true)
	}
	for _, r := range reminders {
		s.store.SaveGame(r.GID, true)
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		err := s.pusher.Push(ctx, r.GID, r.Message)
		cancel()
		if err != nil {
			slog.Error("reminder push failed", "gid", r.GID, "error", err)
			continue
		}
		slog.Info("reminder dispatched", "gid", r.GID)
	}
	return len(reminders)
}

// Sweep deletes games idle past the expiry window.
func (s *Scheduler) Sweep(now time.Time) {
	for _, gid := range s.eng.SweepExpired(now) {
		slog.Info("expired game removed", "gid", gid)
		s.store.DeleteGame(gid)
	}
}

func (s *Scheduler) ping() {
	resp, err := s.pingc.Get(s.baseURL + "/health")
	if err != nil {
		slog.Warn("keep-alive ping failed", "error", err)
		return
	}
	resp.Body.Close()
}
