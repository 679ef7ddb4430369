package session

import (
	"time"

	"github.com/pixil98/go-mudsession/internal/game"
)

// Event is a cross-actor message delivered into a session's mailbox. Events
// are processed one at a time by the owning actor, never concurrently with
// player input.
type Event interface {
	event()
}

// EffectsEvent carries computed effect deltas from a caster's session to the
// target's session. The caster never touches the target's state directly.
type EffectsEvent struct {
	From      game.CharacterRef
	SkillName string
	Deltas    []game.Delta
}

func (EffectsEvent) event() {}

// CooldownReadyEvent is the advisory wake scheduled when a cast starts a
// cooldown. The handler re-checks the cooldown map before telling the player
// anything; a wake that outlives its session is simply dropped.
type CooldownReadyEvent struct {
	SkillId string
}

func (CooldownReadyEvent) event() {}

// CheckpointEvent asks the session to persist its save and evaluate idle
// eviction. Posted by the tick driver so the persistence happens inside the
// owning actor.
type CheckpointEvent struct {
	IdleCutoff time.Duration
}

func (CheckpointEvent) event() {}
