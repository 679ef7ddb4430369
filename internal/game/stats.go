package game

import "fmt"

// StatName names a numeric stat on a character.
type StatName string

const (
	StatStrength  StatName = "strength"
	StatIntellect StatName = "intellect"
	StatVitality  StatName = "vitality"
	StatHealth    StatName = "health"
)

// Stats is a character's numeric stat block.
type Stats struct {
	MaxHP       int `json:"max_hp"`
	CurrentHP   int `json:"current_hp"`
	SkillPoints int `json:"skill_points"`
	Strength    int `json:"strength"`
	Intellect   int `json:"intellect"`
	Vitality    int `json:"vitality"`
}

// Get returns the value of the named stat. Unknown names return 0.
func (s Stats) Get(name StatName) int {
	switch name {
	case StatStrength:
		return s.Strength
	case StatIntellect:
		return s.Intellect
	case StatVitality:
		return s.Vitality
	case StatHealth:
		return s.CurrentHP
	default:
		return 0
	}
}

// Spend deducts n skill points if the full amount is available. It returns
// false, leaving the stat block untouched, when the balance is insufficient.
func (s *Stats) Spend(n int) bool {
	if n < 0 || s.SkillPoints < n {
		return false
	}
	s.SkillPoints -= n
	return true
}

// ApplyDelta applies a computed effect delta to this stat block.
// CurrentHP is clamped to [0, MaxHP].
func (s *Stats) ApplyDelta(d Delta) {
	switch d.Kind {
	case EffectDamage:
		s.CurrentHP -= d.Amount
		if s.CurrentHP < 0 {
			s.CurrentHP = 0
		}
	case EffectHeal:
		s.CurrentHP += d.Amount
		if s.CurrentHP > s.MaxHP {
			s.CurrentHP = s.MaxHP
		}
	case EffectStat:
		switch d.Stat {
		case StatStrength:
			s.Strength += d.Amount
		case StatIntellect:
			s.Intellect += d.Amount
		case StatVitality:
			s.Vitality += d.Amount
		}
	}
}

func (s *Stats) Validate() error {
	if s.MaxHP <= 0 {
		return fmt.Errorf("max_hp must be positive")
	}
	if s.SkillPoints < 0 {
		return fmt.Errorf("skill_points must not be negative")
	}
	return nil
}
