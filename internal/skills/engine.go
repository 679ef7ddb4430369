package skills

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/pixil98/go-mudsession/internal/game"
	"github.com/pixil98/go-mudsession/internal/storage"
)

// Engine orchestrates the cast lifecycle: eligibility checks, cooldown
// gating, cost payment, and effect computation. It holds only immutable skill
// definitions; all mutable state flows through CastState values owned by the
// calling session.
type Engine struct {
	ids      []string
	keywords map[string]string
	skills   map[string]*game.Skill
}

// NewEngine builds an engine from the skill store. Stores are unordered maps,
// so ids are sorted lexicographically to give keyword matching the defined
// total order prefix collisions require. Keywords are case-folded once here;
// matching lowercases input, so a mixed-case authored command must still hit.
func NewEngine(st storage.Storer[*game.Skill]) *Engine {
	skills := st.GetAll()
	ids := slices.Sorted(maps.Keys(skills))

	keywords := make(map[string]string, len(skills))
	for id, skill := range skills {
		keywords[id] = strings.ToLower(skill.Command)
	}

	return &Engine{
		ids:      ids,
		keywords: keywords,
		skills:   skills,
	}
}

// Get returns a skill definition by id, or nil.
func (e *Engine) Get(id string) *game.Skill {
	return e.skills[id]
}

// Match finds the first skill, in id order, whose command keyword is a prefix
// of the input line. It returns the skill id and the remainder of the line
// (the target name fragment, if any).
func (e *Engine) Match(input string) (id string, fragment string, ok bool) {
	lowered := strings.ToLower(strings.TrimSpace(input))
	for _, id := range e.ids {
		keyword := e.keywords[id]
		if lowered == keyword {
			return id, "", true
		}
		if strings.HasPrefix(lowered, keyword+" ") {
			return id, strings.TrimSpace(lowered[len(keyword):]), true
		}
	}
	return "", "", false
}

// CastState is the slice of session state a cast reads and replaces. Cast
// never mutates its input; it returns a new value the session swaps in
// wholesale.
type CastState struct {
	Save      game.Save
	Target    *game.CharacterRef
	Cooldowns map[string]time.Time
}

func (cs CastState) clone() CastState {
	next := CastState{
		Save:      cs.Save.Clone(),
		Cooldowns: make(map[string]time.Time, len(cs.Cooldowns)),
	}
	if cs.Target != nil {
		t := *cs.Target
		next.Target = &t
	}
	maps.Copy(next.Cooldowns, cs.Cooldowns)
	return next
}

// CastResult describes the terminal outcome of a cast attempt.
type CastResult struct {
	Outcome Outcome
	SkillId string
	Skill   *game.Skill

	// Target is the resolved target; valid when Outcome is OutcomeApplied or
	// when TargetSwitched is set.
	Target         game.CharacterRef
	TargetSwitched bool

	// Deltas are the computed effects to deliver to the target's session.
	Deltas []game.Delta

	// Remaining is how long until the skill is ready (cooldown refusals).
	Remaining time.Duration

	// Text is the caster-facing message.
	Text string
}

// Cast runs the full lifecycle for one cast attempt and returns the replaced
// state plus the result. The checks run in a fixed order: known, level,
// target, cooldown, payment. The level check deliberately precedes the
// cooldown check, so an under-leveled cast never reveals remaining-cooldown
// time.
//
// Refusals leave stats and cooldowns untouched; the only state change a
// refused cast may carry is a target switch, which happens before the
// cooldown gate and is a visible side effect in its own right.
func (e *Engine) Cast(now time.Time, st CastState, room game.RoomSnapshot, skillId, fragment string) (CastState, *CastResult) {
	next := st.clone()
	skill := e.skills[skillId]
	res := &CastResult{SkillId: skillId, Skill: skill}

	if !next.Save.Knows(skillId) {
		res.Outcome = OutcomeNotKnown
		res.Text = fmt.Sprintf("You do not know %s.", skill.Name)
		return next, res
	}

	if skill.Level > next.Save.Level {
		res.Outcome = OutcomeLevelTooLow
		res.Text = fmt.Sprintf("You are not high enough level to use %s.", skill.Name)
		return next, res
	}

	target, found := ResolveTarget(room, next.Target, fragment)
	if !found {
		res.Outcome = OutcomeTargetNotFound
		if fragment != "" {
			res.Text = fmt.Sprintf("Could not find %q here.", fragment)
		} else {
			res.Text = "You don't have a target."
		}
		return next, res
	}

	if next.Target == nil || !next.Target.Equal(target) {
		next.Target = &target
		res.TargetSwitched = true
	}
	res.Target = target

	if last, used := next.Cooldowns[skillId]; used {
		elapsed := now.Sub(last)
		if elapsed <= skill.Cooldown.Std() {
			res.Outcome = OutcomeCooldownActive
			res.Remaining = skill.Cooldown.Std() - elapsed
			res.Text = fmt.Sprintf("%s is not ready yet.", skill.Name)
			return next, res
		}
	}

	if !next.Save.Stats.Spend(skill.Points) {
		res.Outcome = OutcomeInsufficientPoints
		res.Text = fmt.Sprintf("You don't have enough skill points to use %s.", skill.Name)
		return next, res
	}

	// Item passives join the cast, filtered down to the effect kinds the
	// skill itself declares.
	effects := append(slices.Clone(skill.Effects),
		game.FilterEffects(skill.Effects, next.Save.PassiveEffects())...)
	res.Deltas = game.CalculateEffects(next.Save.Stats, effects)

	next.Cooldowns[skillId] = now
	next.Save.TrackSkillUse(skillId)

	res.Outcome = OutcomeApplied
	res.Text = renderCastText(skill, target, res.Deltas)
	return next, res
}

// Ready reports whether the skill's cooldown has fully elapsed. The stored
// timestamp comparison is the authoritative gate; scheduled wake events call
// this rather than trusting their own firing.
func (e *Engine) Ready(now time.Time, cooldowns map[string]time.Time, skillId string) bool {
	skill := e.skills[skillId]
	if skill == nil {
		return false
	}
	last, used := cooldowns[skillId]
	if !used {
		return true
	}
	return now.Sub(last) > skill.Cooldown.Std()
}
