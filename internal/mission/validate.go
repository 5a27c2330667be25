package mission

import (
	"fmt"
	"strings"
)

// ValidationError collects content problems.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid mission content: " + strings.Join(e.Problems, "; ")
}

// Validate checks a mission template and reports every problem found.
func Validate(m Mission) error {
	var probs []string
	add := func(format string, a ...any) { probs = append(probs, fmt.Sprintf(format, a...)) }

	if m.ID == "" {
		add("mission id is empty")
	}
	switch m.Kind {
	case KindMission, KindHeist, KindStreet:
	default:
		add("%s: unknown kind %q", m.ID, m.Kind)
	}
	if _, ok := m.Category.Spec(); !ok {
		add("%s: unknown category %q", m.ID, m.Category)
	}
	if !m.AggregateRule().Valid() {
		add("%s: unknown aggregate rule %q", m.ID, m.AggregateRule())
	}
	if m.PartialBand < 0 || m.PartialBand > 100 {
		add("%s: partial_band must be in [0,100], got %d", m.ID, m.PartialBand)
	}
	if len(m.Encounters) == 0 {
		add("%s: no encounters", m.ID)
	}
	if m.Scales != nil {
		for _, sc := range []struct {
			name string
			s    Scale
		}{
			{"success", m.Scales.Success},
			{"partial", m.Scales.Partial},
			{"fail", m.Scales.Fail},
		} {
			if sc.s.Reward < 0 || sc.s.Heat < 0 || sc.s.Damage < 0 {
				add("%s: %s scale must be non-negative", m.ID, sc.name)
			}
		}
	}

	seen := make(map[string]bool)
	for i, e := range m.Encounters {
		if e.ID == "" {
			add("%s: encounter %d has no id", m.ID, i)
		} else if seen[e.ID] {
			add("%s: duplicate encounter %q", m.ID, e.ID)
		}
		seen[e.ID] = true
		if len(e.Choices) == 0 {
			add("%s/%s: no choices", m.ID, e.ID)
		}
		for _, c := range e.Choices {
			if !c.Stat.Valid() {
				add("%s/%s/%s: unknown stat %q", m.ID, e.ID, c.ID, c.Stat)
			}
			if c.Difficulty < 0 || c.Difficulty > 100 {
				add("%s/%s/%s: difficulty must be in [0,100], got %d", m.ID, e.ID, c.ID, c.Difficulty)
			}
			if c.Minigame != "" && !c.Minigame.Valid() {
				add("%s/%s/%s: unknown minigame %q", m.ID, e.ID, c.ID, c.Minigame)
			}
		}
		if cp := e.Complication; cp != nil {
			if _, ok := cp.Kind.Spec(); !ok {
				add("%s/%s: unknown complication %q", m.ID, e.ID, cp.Kind)
			}
			if cp.Chance < 0 || cp.Chance > 100 {
				add("%s/%s: complication chance must be in [0,100], got %d", m.ID, e.ID, cp.Chance)
			}
		}
	}

	if len(probs) > 0 {
		return &ValidationError{Problems: probs}
	}
	return nil
}
