package game

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

// Duration wraps time.Duration so asset JSON can carry values like "500ms".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parsing duration: %w", err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Skill is an immutable skill definition loaded from an asset file.
// Definitions are read-only during play.
type Skill struct {
	// Name is the skill's display name (e.g. "Slash")
	Name string `json:"name"`

	// Command is the keyword players type to cast the skill
	Command string `json:"command"`

	// Level is the minimum character level required to cast
	Level int `json:"level"`

	// Points is the skill point cost per cast
	Points int `json:"points"`

	// Cooldown is the minimum elapsed time between casts
	Cooldown Duration `json:"cooldown"`

	// Effects are the effect descriptors this skill applies to its target
	Effects []Effect `json:"effects"`

	// UserText is the template rendered to the caster on a successful cast.
	// Template data: .Name, .Target, .Amount.
	UserText string `json:"user_text,omitempty"`
}

func (s *Skill) Validate() error {
	el := errors.NewErrorList()

	if s.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if s.Command == "" {
		el.Add(fmt.Errorf("command is required"))
	}
	if s.Level < 1 {
		el.Add(fmt.Errorf("level must be at least 1"))
	}
	if s.Points < 0 {
		el.Add(fmt.Errorf("points must not be negative"))
	}
	if time.Duration(s.Cooldown) < 0 {
		el.Add(fmt.Errorf("cooldown must not be negative"))
	}
	if len(s.Effects) == 0 {
		el.Add(fmt.Errorf("at least one effect is required"))
	}
	for i := range s.Effects {
		if err := s.Effects[i].Validate(); err != nil {
			el.Add(fmt.Errorf("effect %d: %w", i, err))
		}
	}

	return el.Err()
}
