package game

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// EffectKind enumerates the effect operations the calculator understands.
// Formulas are data: an opcode plus numeric parameters, evaluated by a small
// fixed interpreter rather than any dynamic expression language.
type EffectKind string

const (
	EffectDamage EffectKind = "damage"
	EffectHeal   EffectKind = "heal"
	EffectStat   EffectKind = "stat"
)

// Effect is an abstract effect descriptor. It may come from a skill
// definition or from an equipped item's passives.
//
// The concrete amount of a damage/heal effect is Amount plus StatPercent
// percent of the caster's Stat. A stat effect adds Amount to the target
// stat named by Stat.
type Effect struct {
	Kind        EffectKind `json:"kind"`
	Amount      int        `json:"amount,omitempty"`
	StatPercent int        `json:"stat_percent,omitempty"`
	Stat        StatName   `json:"stat,omitempty"`
}

func (e *Effect) Validate() error {
	el := errors.NewErrorList()

	switch e.Kind {
	case EffectDamage, EffectHeal, EffectStat:
	default:
		el.Add(fmt.Errorf("unknown effect kind %q", e.Kind))
	}

	if e.StatPercent != 0 && e.Stat == "" {
		el.Add(fmt.Errorf("stat is required when stat_percent is set"))
	}
	if e.Kind == EffectStat && e.Stat == "" {
		el.Add(fmt.Errorf("stat effects require a stat name"))
	}
	if e.StatPercent < 0 {
		el.Add(fmt.Errorf("stat_percent must not be negative"))
	}

	return el.Err()
}

// Delta is a concrete numeric change produced by the calculator. Once
// computed it is independent of the caster's stats.
type Delta struct {
	Kind   EffectKind `json:"kind"`
	Stat   StatName   `json:"stat,omitempty"`
	Amount int        `json:"amount"`
}

// CalculateEffects resolves abstract effect descriptors against a snapshot of
// the caster's stats. It is a pure function: the stat block is taken by value
// and later stat changes never alter an already-computed delta.
func CalculateEffects(caster Stats, effects []Effect) []Delta {
	deltas := make([]Delta, 0, len(effects))
	for _, e := range effects {
		amount := e.Amount
		if e.StatPercent != 0 {
			amount += caster.Get(e.Stat) * e.StatPercent / 100
		}

		d := Delta{Kind: e.Kind, Amount: amount}
		if e.Kind == EffectStat {
			d.Stat = e.Stat
		}
		deltas = append(deltas, d)
	}
	return deltas
}

// FilterEffects returns the effects from candidates whose kind appears in
// declared. Item passives can modify magnitudes of kinds a skill already
// supports but can never add new kinds to a cast.
func FilterEffects(declared []Effect, candidates []Effect) []Effect {
	kinds := make(map[EffectKind]bool, len(declared))
	for _, e := range declared {
		kinds[e.Kind] = true
	}

	kept := make([]Effect, 0, len(candidates))
	for _, e := range candidates {
		if kinds[e.Kind] {
			kept = append(kept, e)
		}
	}
	return kept
}
