package game

import (
	"fmt"
	"slices"

	"github.com/pixil98/go-errors"
)

// Item is a piece of equipment carried in a save. Passive effects on worn
// items feed into skill casts (magnitudes only, see FilterEffects).
type Item struct {
	Name     string   `json:"name"`
	Effects  []Effect `json:"effects,omitempty"`
	Equipped bool     `json:"equipped,omitempty"`
}

// Save is the persisted snapshot of a player's character. It lives inside the
// owning session while the player is connected and is written back through
// the Persister on disconnect and checkpoint ticks.
type Save struct {
	// UserId is the character's permanent numeric identity
	UserId int64 `json:"user_id"`

	// Name is the character's display name
	Name string `json:"name"`

	// Password is the bcrypt-hashed login credential
	Password string `json:"password"`

	Level int   `json:"level"`
	Stats Stats `json:"stats"`

	// KnownSkillIds are the asset ids of skills the character has learned
	KnownSkillIds []string `json:"known_skill_ids,omitempty"`

	// RoomId is the character's current location
	RoomId string `json:"room_id"`

	// Channels are the broadcast channels the character is subscribed to
	Channels []string `json:"channels,omitempty"`

	// Items is the character's equipment
	Items []Item `json:"items,omitempty"`

	// Hints enables supplementary help text (e.g. cooldown countdowns)
	Hints bool `json:"hints"`

	// SkillUsage counts successful casts per skill id for progression
	SkillUsage map[string]int `json:"skill_usage,omitempty"`
}

// Knows reports whether the character has learned the given skill.
func (s *Save) Knows(skillId string) bool {
	return slices.Contains(s.KnownSkillIds, skillId)
}

// Subscribed reports whether the character is subscribed to the channel.
func (s *Save) Subscribed(channel string) bool {
	return slices.Contains(s.Channels, channel)
}

// AddChannel records a channel subscription. Adding an existing subscription
// is a no-op.
func (s *Save) AddChannel(channel string) {
	if !s.Subscribed(channel) {
		s.Channels = append(s.Channels, channel)
	}
}

// RemoveChannel drops a channel subscription, if present.
func (s *Save) RemoveChannel(channel string) {
	s.Channels = slices.DeleteFunc(s.Channels, func(c string) bool {
		return c == channel
	})
}

// PassiveEffects collects the effect descriptors of all equipped items.
func (s *Save) PassiveEffects() []Effect {
	var effects []Effect
	for _, item := range s.Items {
		if item.Equipped {
			effects = append(effects, item.Effects...)
		}
	}
	return effects
}

// TrackSkillUse bumps the usage counter for a skill.
func (s *Save) TrackSkillUse(skillId string) {
	if s.SkillUsage == nil {
		s.SkillUsage = make(map[string]int)
	}
	s.SkillUsage[skillId]++
}

// Ref returns the character reference other sessions use to address this save.
func (s *Save) Ref() CharacterRef {
	return CharacterRef{Kind: KindUser, Id: s.UserId, Name: s.Name}
}

// Clone returns a deep copy. Session handlers replace their whole state value
// rather than editing shared slices in place.
func (s *Save) Clone() Save {
	c := *s
	c.KnownSkillIds = slices.Clone(s.KnownSkillIds)
	c.Channels = slices.Clone(s.Channels)
	c.Items = slices.Clone(s.Items)
	for i := range c.Items {
		c.Items[i].Effects = slices.Clone(s.Items[i].Effects)
	}
	if s.SkillUsage != nil {
		c.SkillUsage = make(map[string]int, len(s.SkillUsage))
		for k, v := range s.SkillUsage {
			c.SkillUsage[k] = v
		}
	}
	return c
}

func (s *Save) Validate() error {
	el := errors.NewErrorList()

	if s.UserId == 0 {
		el.Add(fmt.Errorf("user_id is required"))
	}
	if s.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if s.Level < 1 {
		el.Add(fmt.Errorf("level must be at least 1"))
	}
	if s.RoomId == "" {
		el.Add(fmt.Errorf("room_id is required"))
	}
	el.Add(s.Stats.Validate())

	return el.Err()
}
