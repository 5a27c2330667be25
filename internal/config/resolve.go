package config

import (
	"sort"
	"time"

	"github.com/xtding233/underworld-engine/internal/casino"
	"github.com/xtding233/underworld-engine/internal/incarceration"
	"github.com/xtding233/underworld-engine/internal/mission"
)

// Tuning is the normalized, validated configuration the engine consumes.
type Tuning struct {
	Version       string
	Limits        map[casino.Kind]casino.Limits
	JackpotFloor  int
	Ladder        []int
	Bonuses       map[string]int
	Incarceration incarceration.Rules
	Missions      []mission.Mission
	StreetEvents  []mission.Mission
}

// Resolve normalizes raw over the package defaults. raw must have passed
// ValidateRaw.
func Resolve(raw RawConfig) Tuning {
	t := Tuning{
		Version:       raw.Version,
		Limits:        make(map[casino.Kind]casino.Limits),
		JackpotFloor:  casino.JackpotFloor,
		Ladder:        append([]int(nil), casino.DefaultLadder...),
		Bonuses:       make(map[string]int),
		Incarceration: incarceration.DefaultRules(),
		Missions:      append([]mission.Mission(nil), raw.Missions...),
		StreetEvents:  append([]mission.Mission(nil), raw.StreetEvents...),
	}
	for _, k := range casino.Kinds() {
		spec, _ := k.Spec()
		t.Limits[k] = spec.Limits
	}

	if c := raw.Casino; c != nil {
		for name, lr := range c.Limits {
			k := casino.Kind(name)
			l := t.Limits[k]
			if lr.Min != nil {
				l.Min = *lr.Min
			}
			if lr.Max != nil {
				l.Max = *lr.Max
			}
			t.Limits[k] = l
		}
		if c.JackpotFloor != nil {
			t.JackpotFloor = *c.JackpotFloor
		}
		if len(c.Ladder) > 0 {
			t.Ladder = append([]int(nil), c.Ladder...)
		}
	}
	for k, v := range raw.Bonuses {
		t.Bonuses[k] = v
	}

	if ir := raw.Incarceration; ir != nil {
		r := &t.Incarceration
		set := func(dst *int, src *int) {
			if src != nil {
				*dst = *src
			}
		}
		if ir.TickMinutes != nil {
			r.TickInterval = time.Duration(*ir.TickMinutes) * time.Minute
		}
		set(&r.PrisonRate.PerDay, ir.PrisonPerDay)
		set(&r.PrisonRate.PerWeek, ir.PrisonPerWeek)
		set(&r.HospitalRate.PerDay, ir.HospitalPerDay)
		set(&r.ContactDiscountPct, ir.ContactDiscountPct)
		set(&r.EscapeHeatPenalty, ir.EscapeHeatPenalty)
		set(&r.EscapeDayPenalty, ir.EscapeDayPenalty)
		set(&r.ConfiscateCleanPct, ir.ConfiscateCleanPct)
		set(&r.ConfiscateDirtyPct, ir.ConfiscateDirtyPct)
		set(&r.ConfiscateGoodsPct, ir.ConfiscateGoodsPct)
		set(&r.MedicalBillPerDay, ir.MedicalBillPerDay)
		set(&r.ArrestHeat, ir.ArrestHeat)
		set(&r.HeatPerDay, ir.HeatPerDay)
		set(&r.MinSentence, ir.MinSentence)
		if ir.MaxPrison != nil {
			r.MaxAdmissions[incarceration.KindPrison] = *ir.MaxPrison
		}
		if ir.MaxHospital != nil {
			r.MaxAdmissions[incarceration.KindHospital] = *ir.MaxHospital
		}
		if lg := ir.Legacy; lg != nil {
			set(&r.Legacy.CofferPct, lg.CofferPct)
			set(&r.Legacy.XPPerLevel, lg.XPPerLevel)
			set(&r.Legacy.XPBonusCap, lg.XPBonusCap)
		}
	}
	return t
}

// WithTick returns a copy of t using the given tick length, when positive.
func (t Tuning) WithTick(d time.Duration) Tuning {
	if d > 0 {
		t.Incarceration.TickInterval = d
	}
	return t
}

// Mission finds a mission or street event by id.
func (t Tuning) Mission(id string) (mission.Mission, bool) {
	for _, m := range t.Missions {
		if m.ID == id {
			return m, true
		}
	}
	for _, m := range t.StreetEvents {
		if m.ID == id {
			return m, true
		}
	}
	return mission.Mission{}, false
}

// LimitsFor returns the configured table limits for k.
func (t Tuning) LimitsFor(k casino.Kind) casino.Limits {
	if l, ok := t.Limits[k]; ok {
		return l
	}
	spec, _ := k.Spec()
	return spec.Limits
}

// BonusSet builds the bonus breakdown for the named active sources.
// Unknown names are ignored.
func (t Tuning) BonusSet(active []string) casino.BonusSet {
	var set casino.BonusSet
	for _, name := range active {
		if pct, ok := t.Bonuses[name]; ok {
			set = append(set, casino.Bonus{Name: name, Pct: pct})
		}
	}
	sort.SliceStable(set, func(i, j int) bool { return set[i].Name < set[j].Name })
	return set
}
