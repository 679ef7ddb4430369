package session

import (
	"maps"
	"time"

	"github.com/pixil98/go-mudsession/internal/game"
	"github.com/pixil98/go-mudsession/internal/skills"
)

// Mode selects the command grammar the dispatcher applies to player input.
type Mode int

const (
	// ModeLogin covers the pre-authentication prompt flow; raw input there is
	// consumed by prompts, not the dispatcher.
	ModeLogin Mode = iota

	// ModeCommands is normal play.
	ModeCommands
)

func (m Mode) String() string {
	switch m {
	case ModeLogin:
		return "login"
	case ModeCommands:
		return "commands"
	default:
		return "unknown"
	}
}

// State is all mutable per-player state, exclusively owned by the session
// actor. Handlers replace the whole value rather than editing pieces in
// place, so a handler that recomputes only part of the state can't lose
// another part's update.
type State struct {
	Mode   Mode
	UserId int64
	Save   game.Save

	// Target is the currently stored cast target, if any
	Target *game.CharacterRef

	// Cooldowns maps skill id to the timestamp of its last successful cast.
	// This map, not any pending timer, is the authoritative cooldown gate.
	Cooldowns map[string]time.Time

	Quit         bool
	LastActivity time.Time
}

// NewState builds the initial state for a freshly authenticated connection.
func NewState(save game.Save) State {
	return State{
		Mode:         ModeCommands,
		UserId:       save.UserId,
		Save:         save,
		Cooldowns:    make(map[string]time.Time),
		LastActivity: time.Now(),
	}
}

// Clone deep-copies the state.
func (s State) Clone() State {
	next := s
	next.Save = s.Save.Clone()
	if s.Target != nil {
		t := *s.Target
		next.Target = &t
	}
	next.Cooldowns = make(map[string]time.Time, len(s.Cooldowns))
	maps.Copy(next.Cooldowns, s.Cooldowns)
	return next
}

// CastState extracts the slice of state the skill engine operates on.
func (s State) CastState() skills.CastState {
	return skills.CastState{
		Save:      s.Save,
		Target:    s.Target,
		Cooldowns: s.Cooldowns,
	}
}

// WithCast returns a copy of s with the cast-owned fields replaced by cs.
func (s State) WithCast(cs skills.CastState) State {
	next := s
	next.Save = cs.Save
	next.Target = cs.Target
	next.Cooldowns = cs.Cooldowns
	return next
}
