// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package command

// Intent is a parsed command. Parse returns exactly one variant, or no match
// at all; text that matches nothing is ignored silently by the caller.
type Intent interface {
	isIntent()
}

// CreateGame starts a new roll-call, replacing any prior game in the
// conversation. Absent fields keep their defaults.
type CreateGame struct {
	Title         string
	Limit         *int
	BackupLimit   *int
	Names         []string
	AnonCount     int
	AnonNames     []string
	ScheduleInput string
	ScheduleTime  *int64 // ms epoch UTC
}

// EndGame closes and deletes the conversation's game.
type EndGame struct{}

// DeleteGame deletes the conversation's game.
type DeleteGame struct{}

// ModifyGame changes only the fields present in the text.
type ModifyGame struct {
	Title       *string
	Limit       *int
	BackupLimit *int
	Names       []string
	HasNames    bool
}

// Join adds Count slots to section 0: the explicit names first, the rest as
// anonymous placeholders. With no names and Count 1 the caller's own display
// name is used.
type Join struct {
	Count     int
	Names     []string
	Anonymous bool
	Self      bool
}

// Leave removes entries: each explicit name from every section it appears
// in, or Count placeholders (most recent first), or the caller's own name.
type Leave struct {
	Count     int
	Names     []string
	Anonymous bool
	Self      bool
}

// BulkList appends many names to section 0 in one shot.
type BulkList struct {
	Names []string
}

// ConfigureSection creates or reconfigures section Index (0 or 1) in place,
// preserving existing entries.
type ConfigureSection struct {
	Index       int
	Title       *string
	Limit       *int
	BackupLimit *int
	Label       *string
}

// ClearList empties every section list of the current game.
type ClearList struct{}

// StatusQuery asks for game metadata.
type StatusQuery struct{}

// ListQuery asks for the rendered roster.
type ListQuery struct{}

// Admin intents. All but AdminLogin are silent no-ops for callers that have
// not logged in.
type (
	AdminLogin         struct{ Password string }
	AdminStatus        struct{}
	AdminDbList        struct{}
	AdminScheduleDebug struct{}
	AdminTestPush      struct{ Text string }
	AdminForceCheck    struct{}
)

func (CreateGame) isIntent()         {}
func (EndGame) isIntent()            {}
func (DeleteGame) isIntent()         {}
func (ModifyGame) isIntent()         {}
func (Join) isIntent()               {}
func (Leave) isIntent()              {}
func (BulkList) isIntent()           {}
func (ConfigureSection) isIntent()   {}
func (ClearList) isIntent()          {}
func (StatusQuery) isIntent()        {}
func (ListQuery) isIntent()          {}
func (AdminLogin) isIntent()         {}
func (AdminStatus) isIntent()        {}
func (AdminDbList) isIntent()        {}
func (AdminScheduleDebug) isIntent() {}
func (AdminTestPush) isIntent()      {}
func (AdminForceCheck) isIntent()    {}
