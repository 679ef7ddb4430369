package skills

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pixil98/go-mudsession/internal/game"
)

var templateFuncs = sprig.TxtFuncMap()

// castTextData is the data available to a skill's user_text template.
type castTextData struct {
	Name   string
	Target string
	Amount int
}

// renderCastText renders the caster-facing line for a successful cast. Skills
// without a template, or with a broken one, fall back to a generic line.
func renderCastText(skill *game.Skill, target game.CharacterRef, deltas []game.Delta) string {
	fallback := fmt.Sprintf("You use %s on %s.", skill.Name, target.Name)
	if skill.UserText == "" {
		return fallback
	}

	tmpl, err := template.New("").Funcs(templateFuncs).Parse(skill.UserText)
	if err != nil {
		return fallback
	}

	amount := 0
	for _, d := range deltas {
		if d.Kind == game.EffectDamage || d.Kind == game.EffectHeal {
			amount += d.Amount
		}
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, castTextData{
		Name:   skill.Name,
		Target: target.Name,
		Amount: amount,
	})
	if err != nil {
		return fallback
	}

	return buf.String()
}

// DescribeDeltas formats delivered effects from the target's point of view,
// e.g. "Bob's Slash hits you for 5 damage."
func DescribeDeltas(from game.CharacterRef, skillName string, deltas []game.Delta) []string {
	lines := make([]string, 0, len(deltas))
	for _, d := range deltas {
		switch d.Kind {
		case game.EffectDamage:
			lines = append(lines, fmt.Sprintf("%s's %s hits you for %d damage.", from.Name, skillName, d.Amount))
		case game.EffectHeal:
			lines = append(lines, fmt.Sprintf("%s's %s heals you for %d.", from.Name, skillName, d.Amount))
		case game.EffectStat:
			verb := "raises"
			if d.Amount < 0 {
				verb = "lowers"
			}
			lines = append(lines, fmt.Sprintf("%s's %s %s your %s.", from.Name, skillName, verb, d.Stat))
		}
	}
	return lines
}
