package skills

import (
	"testing"
	"time"

	"github.com/pixil98/go-mudsession/internal/game"
	"github.com/pixil98/go-testutil"
)

type fakeSkillStore map[string]*game.Skill

func (f fakeSkillStore) Save(string, *game.Skill) error { return nil }
func (f fakeSkillStore) Get(id string) *game.Skill      { return f[id] }
func (f fakeSkillStore) GetAll() map[string]*game.Skill { return f }

func testEngine() *Engine {
	return NewEngine(fakeSkillStore{
		"slash": {
			Name:     "Slash",
			Command:  "slash",
			Level:    1,
			Points:   2,
			Cooldown: game.Duration(500 * time.Millisecond),
			Effects:  []game.Effect{{Kind: game.EffectDamage, Amount: 5, StatPercent: 50, Stat: game.StatStrength}},
		},
		"smite": {
			Name:     "Smite",
			Command:  "smite",
			Level:    10,
			Points:   4,
			Cooldown: game.Duration(time.Second),
			Effects:  []game.Effect{{Kind: game.EffectDamage, Amount: 12}},
		},
		"heal": {
			Name:    "Heal",
			Command: "heal",
			Level:   1,
			Points:  3,
			Effects: []game.Effect{{Kind: game.EffectHeal, Amount: 8, StatPercent: 100, Stat: game.StatIntellect}},
		},
	})
}

func testState() CastState {
	return CastState{
		Save: game.Save{
			UserId:        1,
			Name:          "Alice",
			Level:         5,
			Stats:         game.Stats{MaxHP: 50, CurrentHP: 50, SkillPoints: 10, Strength: 10, Intellect: 10, Vitality: 10},
			KnownSkillIds: []string{"slash", "smite", "heal"},
			RoomId:        "square",
		},
		Cooldowns: map[string]time.Time{},
	}
}

func testRoom() game.RoomSnapshot {
	return game.RoomSnapshot{
		Players: []game.CharacterRef{
			{Kind: game.KindUser, Id: 1, Name: "Alice"},
			{Kind: game.KindUser, Id: 2, Name: "Bob"},
		},
		NPCs: []game.CharacterRef{
			{Kind: game.KindNPC, Id: 1, Name: "Goblin"},
		},
	}
}

func TestCastLifecycle(t *testing.T) {
	e := testEngine()
	now := time.Now()

	// First cast pays the cost and starts the cooldown.
	st, res := e.Cast(now, testState(), testRoom(), "slash", "goblin")
	testutil.AssertEqual(t, "outcome", res.Outcome, OutcomeApplied)
	testutil.AssertEqual(t, "points", st.Save.Stats.SkillPoints, 8)
	testutil.AssertEqual(t, "switched", res.TargetSwitched, true)
	testutil.AssertEqual(t, "target", res.Target.Name, "Goblin")
	testutil.AssertEqual(t, "deltas", len(res.Deltas), 1)
	// 5 base + 50% of 10 strength
	testutil.AssertEqual(t, "amount", res.Deltas[0].Amount, 10)
	testutil.AssertEqual(t, "text", res.Text, "You use Slash on Goblin.")
	testutil.AssertEqual(t, "usage", st.Save.SkillUsage["slash"], 1)

	// Immediate recast is refused and leaves everything untouched.
	st2, res2 := e.Cast(now.Add(100*time.Millisecond), st, testRoom(), "slash", "")
	testutil.AssertEqual(t, "outcome", res2.Outcome, OutcomeCooldownActive)
	testutil.AssertEqual(t, "text", res2.Text, "Slash is not ready yet.")
	testutil.AssertEqual(t, "points", st2.Save.Stats.SkillPoints, 8)
	testutil.AssertEqual(t, "remaining", res2.Remaining, 400*time.Millisecond)
	testutil.AssertEqual(t, "cooldown stamp", st2.Cooldowns["slash"], now)

	// Once the cooldown elapses the cast succeeds again.
	st3, res3 := e.Cast(now.Add(600*time.Millisecond), st2, testRoom(), "slash", "")
	testutil.AssertEqual(t, "outcome", res3.Outcome, OutcomeApplied)
	testutil.AssertEqual(t, "points", st3.Save.Stats.SkillPoints, 6)
}

func TestCastNotKnown(t *testing.T) {
	e := testEngine()
	st := testState()
	st.Save.KnownSkillIds = []string{"heal"}

	next, res := e.Cast(time.Now(), st, testRoom(), "slash", "goblin")
	testutil.AssertEqual(t, "outcome", res.Outcome, OutcomeNotKnown)
	testutil.AssertEqual(t, "text", res.Text, "You do not know Slash.")
	testutil.AssertEqual(t, "points", next.Save.Stats.SkillPoints, 10)
	testutil.AssertEqual(t, "target", next.Target == nil, true)
}

func TestCastLevelCheckedBeforeCooldown(t *testing.T) {
	e := testEngine()
	st := testState()
	st.Save.Level = 5
	// A cooldown stamp exists, but the level gate runs first so no timing
	// information leaks to an under-leveled caster.
	st.Cooldowns["smite"] = time.Now()

	next, res := e.Cast(time.Now(), st, testRoom(), "smite", "goblin")
	testutil.AssertEqual(t, "outcome", res.Outcome, OutcomeLevelTooLow)
	testutil.AssertEqual(t, "remaining", res.Remaining, time.Duration(0))
	testutil.AssertEqual(t, "points", next.Save.Stats.SkillPoints, 10)
}

func TestCastInsufficientPoints(t *testing.T) {
	e := testEngine()
	st := testState()
	st.Save.Stats.SkillPoints = 1

	next, res := e.Cast(time.Now(), st, testRoom(), "slash", "goblin")
	testutil.AssertEqual(t, "outcome", res.Outcome, OutcomeInsufficientPoints)
	testutil.AssertEqual(t, "points", next.Save.Stats.SkillPoints, 1)
	_, used := next.Cooldowns["slash"]
	testutil.AssertEqual(t, "cooldown set", used, false)
	// The target switch still sticks; it happens before the payment gate.
	testutil.AssertEqual(t, "switched", res.TargetSwitched, true)
	testutil.AssertEqual(t, "target", next.Target.Name, "Goblin")
}

func TestCastExplicitTargetOverridesStored(t *testing.T) {
	e := testEngine()
	st := testState()
	stored := game.CharacterRef{Kind: game.KindNPC, Id: 1, Name: "Goblin"}
	st.Target = &stored

	next, res := e.Cast(time.Now(), st, testRoom(), "slash", "bob")
	testutil.AssertEqual(t, "outcome", res.Outcome, OutcomeApplied)
	testutil.AssertEqual(t, "target", res.Target.Name, "Bob")
	testutil.AssertEqual(t, "switched", res.TargetSwitched, true)
	testutil.AssertEqual(t, "stored target", next.Target.Name, "Bob")
}

func TestCastStaleTargetNotFound(t *testing.T) {
	e := testEngine()
	st := testState()
	// Target id 2 is gone; an NPC with id 1 is present but must not match.
	stored := game.CharacterRef{Kind: game.KindNPC, Id: 2, Name: "Wolf"}
	st.Target = &stored

	next, res := e.Cast(time.Now(), st, testRoom(), "slash", "")
	testutil.AssertEqual(t, "outcome", res.Outcome, OutcomeTargetNotFound)
	testutil.AssertEqual(t, "text", res.Text, "You don't have a target.")
	testutil.AssertEqual(t, "points", next.Save.Stats.SkillPoints, 10)
	testutil.AssertEqual(t, "stored target", next.Target.Name, "Wolf")
}

func TestCastNoTarget(t *testing.T) {
	e := testEngine()

	_, res := e.Cast(time.Now(), testState(), testRoom(), "slash", "dragon")
	testutil.AssertEqual(t, "outcome", res.Outcome, OutcomeTargetNotFound)
	testutil.AssertEqual(t, "text", res.Text, `Could not find "dragon" here.`)
}

func TestCastDoesNotMutateInput(t *testing.T) {
	e := testEngine()
	st := testState()

	e.Cast(time.Now(), st, testRoom(), "slash", "goblin")
	testutil.AssertEqual(t, "points", st.Save.Stats.SkillPoints, 10)
	testutil.AssertEqual(t, "cooldowns", len(st.Cooldowns), 0)
	testutil.AssertEqual(t, "target", st.Target == nil, true)
}

func TestCastPassivesJoinDeclaredKinds(t *testing.T) {
	e := testEngine()
	st := testState()
	st.Save.Items = []game.Item{
		{
			Name:     "Flaming Sword",
			Equipped: true,
			Effects: []game.Effect{
				{Kind: game.EffectDamage, Amount: 3},
				{Kind: game.EffectHeal, Amount: 100},
			},
		},
		{
			Name:    "Stowed Dagger",
			Effects: []game.Effect{{Kind: game.EffectDamage, Amount: 50}},
		},
	}

	_, res := e.Cast(time.Now(), st, testRoom(), "slash", "goblin")
	testutil.AssertEqual(t, "outcome", res.Outcome, OutcomeApplied)
	// Skill damage plus the equipped item's damage passive. The heal passive
	// and the unequipped item contribute nothing.
	testutil.AssertEqual(t, "deltas", len(res.Deltas), 2)
	testutil.AssertEqual(t, "skill amount", res.Deltas[0].Amount, 10)
	testutil.AssertEqual(t, "passive amount", res.Deltas[1].Amount, 3)
}

func TestMatch(t *testing.T) {
	e := testEngine()

	tests := []struct {
		name     string
		input    string
		id       string
		fragment string
		ok       bool
	}{
		{"bare keyword", "slash", "slash", "", true},
		{"keyword with target", "slash goblin", "slash", "goblin", true},
		{"case folded", "SLASH Goblin", "slash", "goblin", true},
		{"padded", "  heal  ", "heal", "", true},
		{"no match", "dance", "", "", false},
		{"prefix without space", "slashx", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, fragment, ok := e.Match(tt.input)
			testutil.AssertEqual(t, "ok", ok, tt.ok)
			testutil.AssertEqual(t, "id", id, tt.id)
			testutil.AssertEqual(t, "fragment", fragment, tt.fragment)
		})
	}
}

func TestMatchFoldsKeywordCase(t *testing.T) {
	// A skill authored with a mixed-case command must still match the
	// lowercased input line.
	e := NewEngine(fakeSkillStore{
		"blast": {
			Name:    "Blast",
			Command: "Blast",
			Level:   1,
			Points:  1,
			Effects: []game.Effect{{Kind: game.EffectDamage, Amount: 1}},
		},
	})

	id, fragment, ok := e.Match("blast goblin")
	testutil.AssertEqual(t, "ok", ok, true)
	testutil.AssertEqual(t, "id", id, "blast")
	testutil.AssertEqual(t, "fragment", fragment, "goblin")

	_, _, ok = e.Match("BLAST")
	testutil.AssertEqual(t, "upper ok", ok, true)
}

func TestReady(t *testing.T) {
	e := testEngine()
	now := time.Now()

	cooldowns := map[string]time.Time{"slash": now}
	testutil.AssertEqual(t, "during", e.Ready(now.Add(100*time.Millisecond), cooldowns, "slash"), false)
	testutil.AssertEqual(t, "boundary", e.Ready(now.Add(500*time.Millisecond), cooldowns, "slash"), false)
	testutil.AssertEqual(t, "after", e.Ready(now.Add(501*time.Millisecond), cooldowns, "slash"), true)
	testutil.AssertEqual(t, "never used", e.Ready(now, map[string]time.Time{}, "slash"), true)
	testutil.AssertEqual(t, "unknown skill", e.Ready(now, cooldowns, "dance"), false)
}
