package skills

// Outcome classifies the terminal state of a cast attempt. Every refusal is
// non-fatal: it surfaces as a player-facing message and never aborts the
// session.
type Outcome int

const (
	OutcomeApplied Outcome = iota
	OutcomeNotKnown
	OutcomeLevelTooLow
	OutcomeTargetNotFound
	OutcomeCooldownActive
	OutcomeInsufficientPoints
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeNotKnown:
		return "not_known"
	case OutcomeLevelTooLow:
		return "level_too_low"
	case OutcomeTargetNotFound:
		return "target_not_found"
	case OutcomeCooldownActive:
		return "cooldown_active"
	case OutcomeInsufficientPoints:
		return "insufficient_points"
	default:
		return "unknown"
	}
}
