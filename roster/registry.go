// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package roster

import (
	"sort"
	"sync"

	"github.com/danielhkuo/rollcall/models"
)

// Registry owns all live games, keyed by conversation id. It is constructed
// once at startup, populated by recovery, and torn down by the shutdown
// flush; persistence stores are derived projections of it, never sources of
// truth while the process runs.
//
// The mutex serializes whole intents: the engine holds it across
// read-mutate-render so a concurrent webhook delivery can never observe a
// half-applied section update.
type Registry struct {
	mu    sync.Mutex
	games map[string]*models.Game
}

func NewRegistry() *Registry {
	return &Registry{games: make(map[string]*models.Game)}
}

// Restore replaces the whole registry, used once during startup recovery.
func (r *Registry) Restore(games map[string]*models.Game) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games = make(map[string]*models.Game, len(games))
	for gid, g := range games {
		r.games[gid] = g.Clone()
	}
}

// Game returns a deep copy of one game for read-only use.
func (r *Registry) Game(gid string) (*models.Game, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[gid]
	if !ok {
		return nil, false
	}
	return g.Clone(), true
}

// Snapshot returns a deep copy of every game, for persistence writers.
func (r *Registry) Snapshot() map[string]*models.Game {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*models.Game, len(r.games))
	for gid, g := range r.games {
		out[gid] = g.Clone()
	}
	return out
}

// GIDs returns the conversation ids in a stable order.
func (r *Registry) GIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	gids := make([]string, 0, len(r.games))
	for gid := range r.games {
		gids = append(gids, gid)
	}
	sort.Strings(gids)
	return gids
}

// Len returns the number of live games.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.games)
}
