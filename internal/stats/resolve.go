package stats

import (
	"fmt"
	"sort"
)

// ActionKind selects the per-point stat increment and which bonus tables
// apply.
type ActionKind string

const (
	ActionEscape        ActionKind = "escape"
	ActionStreetEvent   ActionKind = "street_event"
	ActionMissionChoice ActionKind = "mission_choice"
	ActionHeistPhase    ActionKind = "heist_phase"
	ActionRace          ActionKind = "race"
	ActionArmWrestle    ActionKind = "arm_wrestle"
)

// statIncrement is the fixed percentage-point shift per stat point.
var statIncrement = map[ActionKind]int{
	ActionEscape:        3,
	ActionStreetEvent:   5,
	ActionMissionChoice: 2,
	ActionHeistPhase:    3,
	ActionRace:          2,
	ActionArmWrestle:    4,
}

// Increment returns the per-point shift for k.
func Increment(k ActionKind) int { return statIncrement[k] }

// roleBonus lists flat crew bonuses per action kind. For content-driven
// checks (mission, heist, street) a role only helps when it supports the
// checked stat.
var roleBonus = map[ActionKind]map[Role]int{
	ActionEscape:        {RoleHacker: 10, RoleLookout: 5},
	ActionMissionChoice: {RoleHacker: 5, RoleDriver: 5, RoleEnforcer: 5, RoleFace: 5, RoleLookout: 3, RoleSafecracker: 5},
	ActionHeistPhase:    {RoleHacker: 8, RoleDriver: 6, RoleEnforcer: 6, RoleFace: 6, RoleLookout: 4, RoleSafecracker: 10},
	ActionStreetEvent:   {RoleEnforcer: 5, RoleFace: 5},
	ActionRace:          {RoleDriver: 10},
	ActionArmWrestle:    {RoleEnforcer: 5},
}

var statBoundKinds = map[ActionKind]bool{
	ActionMissionChoice: true,
	ActionHeistPhase:    true,
	ActionStreetEvent:   true,
}

var weatherBonus = map[Weather]map[ActionKind]int{
	WeatherRain:  {ActionRace: -10, ActionEscape: 5},
	WeatherFog:   {ActionRace: -5, ActionEscape: 10, ActionHeistPhase: 5},
	WeatherStorm: {ActionRace: -15, ActionEscape: 5, ActionHeistPhase: -5},
	WeatherSnow:  {ActionRace: -10, ActionStreetEvent: -5},
}

var facilityBonus = map[Facility]map[ActionKind]int{
	FacilityTunnel:     {ActionEscape: 15},
	FacilityGarage:     {ActionRace: 5},
	FacilityGym:        {ActionArmWrestle: 5},
	FacilityServerRoom: {ActionHeistPhase: 3},
}

// Context is the situational input to Resolve.
type Context struct {
	Stats      PlayerStats
	Crew       []CrewMember
	Weather    Weather
	Facilities []Facility
	Approach   *Approach
	Equipment  []Equipment
}

// Resolve computes the effective chance for an action of kind k checked
// against stat s, starting from base percentage points. It is a pure query.
func Resolve(k ActionKind, s Stat, base int, ctx Context) Effective {
	eff := Effective{Base: base}

	if inc := statIncrement[k]; inc > 0 && s.Valid() {
		if pts := ctx.Stats.Get(s); pts > 0 {
			spec, _ := s.Spec()
			eff.Modifiers = append(eff.Modifiers, Modifier{
				Label:  fmt.Sprintf("%s %d × %d", spec.Label, pts, inc),
				Source: SourceStat,
				Value:  pts * inc,
			})
		}
	}

	eff.Modifiers = append(eff.Modifiers, crewModifiers(k, s, ctx.Crew)...)

	if v := weatherBonus[ctx.Weather][k]; v != 0 {
		eff.Modifiers = append(eff.Modifiers, Modifier{
			Label:  "Weather: " + string(ctx.Weather),
			Source: SourceWeather,
			Value:  v,
		})
	}

	for _, f := range ctx.Facilities {
		if v := facilityBonus[f][k]; v != 0 {
			eff.Modifiers = append(eff.Modifiers, Modifier{
				Label:  "Facility: " + string(f),
				Source: SourceFacility,
				Value:  v,
			})
		}
	}

	if ctx.Approach != nil && ctx.Approach.Bonus != 0 {
		eff.Modifiers = append(eff.Modifiers, Modifier{
			Label:  "Approach: " + ctx.Approach.Label,
			Source: SourceApproach,
			Value:  ctx.Approach.Bonus,
		})
	}

	for _, e := range ctx.Equipment {
		if e.Kind == k && e.Bonus != 0 {
			eff.Modifiers = append(eff.Modifiers, Modifier{
				Label:  e.Name,
				Source: SourceEquipment,
				Value:  e.Bonus,
			})
		}
	}
	return eff
}

// crewModifiers yields one modifier per distinct active role, in a stable
// order.
func crewModifiers(k ActionKind, s Stat, crew []CrewMember) []Modifier {
	table := roleBonus[k]
	if len(table) == 0 {
		return nil
	}
	seen := make(map[Role]bool)
	var roles []Role
	for _, c := range crew {
		if !c.Active() || seen[c.Role] {
			continue
		}
		if _, ok := table[c.Role]; !ok {
			continue
		}
		if statBoundKinds[k] {
			if spec, ok := c.Role.Spec(); !ok || spec.Stat != s {
				continue
			}
		}
		seen[c.Role] = true
		roles = append(roles, c.Role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })

	mods := make([]Modifier, 0, len(roles))
	for _, r := range roles {
		spec, _ := r.Spec()
		mods = append(mods, Modifier{
			Label:  "Crew: " + spec.Label,
			Source: SourceCrew,
			Value:  table[r],
		})
	}
	return mods
}

// ChoiceBase converts a content difficulty (0 easy – 100 impossible) into
// a base success chance.
func ChoiceBase(difficulty int) int {
	return 100 - clamp(difficulty, 0, 100)
}
