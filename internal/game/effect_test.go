package game

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestCalculateEffects(t *testing.T) {
	caster := Stats{MaxHP: 50, CurrentHP: 40, SkillPoints: 10, Strength: 12, Intellect: 20}

	deltas := CalculateEffects(caster, []Effect{
		{Kind: EffectDamage, Amount: 5, StatPercent: 50, Stat: StatStrength},
		{Kind: EffectHeal, Amount: 8, StatPercent: 100, Stat: StatIntellect},
		{Kind: EffectStat, Amount: 2, Stat: StatVitality},
	})

	testutil.AssertEqual(t, "count", len(deltas), 3)
	// 5 + 50% of 12 strength (integer division)
	testutil.AssertEqual(t, "damage", deltas[0], Delta{Kind: EffectDamage, Amount: 11})
	testutil.AssertEqual(t, "heal", deltas[1], Delta{Kind: EffectHeal, Amount: 28})
	testutil.AssertEqual(t, "stat", deltas[2], Delta{Kind: EffectStat, Stat: StatVitality, Amount: 2})
}

func TestCalculateEffectsIsPure(t *testing.T) {
	caster := Stats{MaxHP: 50, CurrentHP: 50, Strength: 10}
	effects := []Effect{{Kind: EffectDamage, Amount: 5, StatPercent: 100, Stat: StatStrength}}

	first := CalculateEffects(caster, effects)

	// Later stat changes never alter an already-computed delta.
	caster.Strength = 100
	testutil.AssertEqual(t, "computed amount", first[0].Amount, 15)
}

func TestFilterEffects(t *testing.T) {
	declared := []Effect{{Kind: EffectDamage, Amount: 5}}
	candidates := []Effect{
		{Kind: EffectDamage, Amount: 3},
		{Kind: EffectHeal, Amount: 100},
		{Kind: EffectStat, Amount: 1, Stat: StatStrength},
		{Kind: EffectDamage, Amount: 1},
	}

	kept := FilterEffects(declared, candidates)
	testutil.AssertEqual(t, "count", len(kept), 2)
	testutil.AssertEqual(t, "first", kept[0].Amount, 3)
	testutil.AssertEqual(t, "second", kept[1].Amount, 1)
}

func TestApplyDeltaClampsHP(t *testing.T) {
	s := Stats{MaxHP: 50, CurrentHP: 10}

	s.ApplyDelta(Delta{Kind: EffectDamage, Amount: 25})
	testutil.AssertEqual(t, "floored", s.CurrentHP, 0)

	s.ApplyDelta(Delta{Kind: EffectHeal, Amount: 100})
	testutil.AssertEqual(t, "capped", s.CurrentHP, 50)
}

func TestSpend(t *testing.T) {
	s := Stats{MaxHP: 50, SkillPoints: 3}

	testutil.AssertEqual(t, "affordable", s.Spend(2), true)
	testutil.AssertEqual(t, "balance", s.SkillPoints, 1)

	// An unaffordable spend deducts nothing.
	testutil.AssertEqual(t, "unaffordable", s.Spend(2), false)
	testutil.AssertEqual(t, "balance unchanged", s.SkillPoints, 1)
}
