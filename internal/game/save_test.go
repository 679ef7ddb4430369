package game

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestSaveChannels(t *testing.T) {
	s := &Save{Name: "Alice"}

	s.AddChannel("gossip")
	s.AddChannel("gossip")
	testutil.AssertEqual(t, "channels", len(s.Channels), 1)
	testutil.AssertEqual(t, "subscribed", s.Subscribed("gossip"), true)

	s.RemoveChannel("gossip")
	testutil.AssertEqual(t, "channels", len(s.Channels), 0)
	testutil.AssertEqual(t, "subscribed", s.Subscribed("gossip"), false)
}

func TestSavePassiveEffects(t *testing.T) {
	s := &Save{
		Items: []Item{
			{Name: "Sword", Equipped: true, Effects: []Effect{{Kind: EffectDamage, Amount: 3}}},
			{Name: "Stowed Shield", Effects: []Effect{{Kind: EffectHeal, Amount: 5}}},
		},
	}

	effects := s.PassiveEffects()
	testutil.AssertEqual(t, "count", len(effects), 1)
	testutil.AssertEqual(t, "amount", effects[0].Amount, 3)
}

func TestSaveClone(t *testing.T) {
	s := &Save{
		Name:          "Alice",
		KnownSkillIds: []string{"slash"},
		Channels:      []string{"gossip"},
		SkillUsage:    map[string]int{"slash": 2},
		Items:         []Item{{Name: "Sword", Effects: []Effect{{Kind: EffectDamage, Amount: 3}}}},
	}

	c := s.Clone()
	c.KnownSkillIds[0] = "smite"
	c.Channels[0] = "trade"
	c.SkillUsage["slash"] = 9
	c.Items[0].Effects[0].Amount = 100

	testutil.AssertEqual(t, "skills", s.KnownSkillIds[0], "slash")
	testutil.AssertEqual(t, "channels", s.Channels[0], "gossip")
	testutil.AssertEqual(t, "usage", s.SkillUsage["slash"], 2)
	testutil.AssertEqual(t, "items", s.Items[0].Effects[0].Amount, 3)
}

func TestCharacterRef(t *testing.T) {
	alice := CharacterRef{Kind: KindUser, Id: 1, Name: "Alice"}
	goblin := CharacterRef{Kind: KindNPC, Id: 1, Name: "Goblin"}

	testutil.AssertEqual(t, "same", alice.Equal(CharacterRef{Kind: KindUser, Id: 1, Name: "renamed"}), true)
	testutil.AssertEqual(t, "kind differs", alice.Equal(goblin), false)
	testutil.AssertEqual(t, "match", goblin.MatchName("GOB"), true)
	testutil.AssertEqual(t, "no match", goblin.MatchName("wolf"), false)
}
