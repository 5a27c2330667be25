package stats

import "fmt"

// Source classifies a modifier for breakdown screens.
type Source string

const (
	SourceStat      Source = "stat"
	SourceCrew      Source = "crew"
	SourceWeather   Source = "weather"
	SourceFacility  Source = "facility"
	SourceApproach  Source = "approach"
	SourceEquipment Source = "equipment"
	SourcePenalty   Source = "penalty"
)

// Modifier is one labelled additive adjustment in percentage points.
type Modifier struct {
	Label  string `json:"label"`
	Source Source `json:"source"`
	Value  int    `json:"value"`
}

func (m Modifier) String() string {
	return fmt.Sprintf("%s %+d", m.Label, m.Value)
}

// Effective is a base chance plus its situational modifiers.
type Effective struct {
	Base      int        `json:"base"`
	Modifiers []Modifier `json:"modifiers"`
}

// Adjustment is the sum of all modifiers.
func (e Effective) Adjustment() int {
	sum := 0
	for _, m := range e.Modifiers {
		sum += m.Value
	}
	return sum
}

// Chance is Base + Adjustment clamped to [0, 100].
func (e Effective) Chance() int {
	return clamp(e.Base+e.Adjustment(), 0, 100)
}

// Capped is Chance limited to ceiling. Checks that must never be certain
// roll and display against it.
func (e Effective) Capped(ceiling int) int {
	return clamp(e.Chance(), 0, ceiling)
}

// With returns a copy of e with extra modifiers appended.
func (e Effective) With(mods ...Modifier) Effective {
	out := Effective{Base: e.Base, Modifiers: make([]Modifier, 0, len(e.Modifiers)+len(mods))}
	out.Modifiers = append(out.Modifiers, e.Modifiers...)
	out.Modifiers = append(out.Modifiers, mods...)
	return out
}

// Find returns the first modifier from src, if any.
func (e Effective) Find(src Source) (Modifier, bool) {
	for _, m := range e.Modifiers {
		if m.Source == src {
			return m, true
		}
	}
	return Modifier{}, false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
