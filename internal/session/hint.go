package session

import (
	"bytes"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pixil98/go-mudsession/internal/game"
)

// Hint keys.
const (
	HintSkillCooldown = "skills.cooldown"
	HintSkillPoints   = "skills.points"
)

var defaultHints = map[string]string{
	HintSkillCooldown: "It will be ready in {{.Remaining}}.",
	HintSkillPoints:   "Skill points replenish as you rest.",
}

var hintFuncs = sprig.TxtFuncMap()

// Hinter conditionally emits supplementary help text. Hints are a
// convenience layered on top of outcome messages; nothing about cast
// correctness depends on them.
type Hinter struct {
	hints map[string]string
}

func NewHinter() *Hinter {
	return &Hinter{hints: defaultHints}
}

// Gate renders the hint template for key if the save's preferences enable
// hints. It returns "" when gated off, unknown, or unrenderable.
func (h *Hinter) Gate(save *game.Save, key string, data any) string {
	if save == nil || !save.Hints {
		return ""
	}

	tmplStr, ok := h.hints[key]
	if !ok {
		return ""
	}

	tmpl, err := template.New("").Funcs(hintFuncs).Parse(tmplStr)
	if err != nil {
		return ""
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return ""
	}
	return buf.String()
}
