package skills

import (
	"fmt"

	"github.com/pixil98/go-mudsession/internal/game"
)

// List formats the skill table shown for "skills". Known skills only, unless
// all is set. Rows follow id order, the same order keyword matching uses.
func (e *Engine) List(save *game.Save, all bool) []string {
	lines := []string{
		fmt.Sprintf("%-14s %-10s %5s %6s %10s", "Skill", "Command", "Level", "Cost", "Cooldown"),
	}

	for _, id := range e.ids {
		if !all && !save.Knows(id) {
			continue
		}
		skill := e.skills[id]
		lines = append(lines, fmt.Sprintf("%-14s %-10s %5d %6d %10s",
			skill.Name, skill.Command, skill.Level, skill.Points, skill.Cooldown.Std()))
	}

	if len(lines) == 1 {
		return []string{"You don't know any skills yet."}
	}
	return lines
}
