package mission

import (
	"github.com/xtding233/underworld-engine/internal/minigame"
	"github.com/xtding233/underworld-engine/internal/stats"
)

// Kind distinguishes the run flavours. It selects the stat increment used
// for choices.
type Kind string

const (
	KindMission Kind = "mission"
	KindHeist   Kind = "heist"
	KindStreet  Kind = "street"
)

// ActionKind maps a run kind to its stat resolver action.
func (k Kind) ActionKind() stats.ActionKind {
	switch k {
	case KindHeist:
		return stats.ActionHeistPhase
	case KindStreet:
		return stats.ActionStreetEvent
	default:
		return stats.ActionMissionChoice
	}
}

// Category groups missions for heat attribution and the default aggregate
// rule.
type Category string

const (
	CategoryTransport Category = "transport"
	CategoryRobbery   Category = "robbery"
	CategoryHit       Category = "hit"
	CategoryHeist     Category = "heist"
	CategoryStreet    Category = "street"
)

// CategorySpec is the fixed per-category table.
type CategorySpec struct {
	Label      string
	VehiclePct int
	Rule       AggregateRule
}

var categories = map[Category]CategorySpec{
	CategoryTransport: {Label: "Transport", VehiclePct: 70, Rule: RuleMajority},
	CategoryRobbery:   {Label: "Robbery", VehiclePct: 30, Rule: RuleMajority},
	CategoryHit:       {Label: "Hit", VehiclePct: 30, Rule: RuleAnyFailFails},
	CategoryHeist:     {Label: "Heist", VehiclePct: 30, Rule: RuleAnyFailFails},
	CategoryStreet:    {Label: "Street", VehiclePct: 30, Rule: RuleAllSuccess},
}

// Spec returns the category table entry.
func (c Category) Spec() (CategorySpec, bool) {
	s, ok := categories[c]
	return s, ok
}

// Categories lists every category.
func Categories() []Category {
	return []Category{CategoryTransport, CategoryRobbery, CategoryHit, CategoryHeist, CategoryStreet}
}

// ComplicationKind is the closed set of mid-phase complications.
type ComplicationKind string

const (
	ComplicationPatrol      ComplicationKind = "police_patrol"
	ComplicationAlarm       ComplicationKind = "alarm"
	ComplicationDoubleCross ComplicationKind = "double_cross"
	ComplicationBreakdown   ComplicationKind = "vehicle_breakdown"
	ComplicationWitness     ComplicationKind = "witness"
)

// ComplicationSpec describes how a complication is checked and shown.
type ComplicationSpec struct {
	Label string
	Stat  stats.Stat
	Icon  string
}

var complications = map[ComplicationKind]ComplicationSpec{
	ComplicationPatrol:      {Label: "Police patrol", Stat: stats.StatCharm, Icon: "🚓"},
	ComplicationAlarm:       {Label: "Alarm tripped", Stat: stats.StatBrains, Icon: "🚨"},
	ComplicationDoubleCross: {Label: "Double-cross", Stat: stats.StatMuscle, Icon: "🗡"},
	ComplicationBreakdown:   {Label: "Engine trouble", Stat: stats.StatBrains, Icon: "🔧"},
	ComplicationWitness:     {Label: "Witness", Stat: stats.StatCharm, Icon: "👁"},
}

// Spec returns the complication table entry.
func (k ComplicationKind) Spec() (ComplicationSpec, bool) {
	s, ok := complications[k]
	return s, ok
}

// Effects are the deltas a choice applies at full strength.
type Effects struct {
	Money      int `json:"money" yaml:"money"`
	Heat       int `json:"heat" yaml:"heat"`
	CrewDamage int `json:"crew_damage" yaml:"crew_damage"`
	Health     int `json:"health" yaml:"health"`
}

func (e Effects) add(o Effects) Effects {
	return Effects{
		Money:      e.Money + o.Money,
		Heat:       e.Heat + o.Heat,
		CrewDamage: e.CrewDamage + o.CrewDamage,
		Health:     e.Health + o.Health,
	}
}

// Choice is one option offered by an encounter.
type Choice struct {
	ID         string        `json:"id" yaml:"id"`
	Label      string        `json:"label" yaml:"label"`
	Stat       stats.Stat    `json:"stat" yaml:"stat"`
	Difficulty int           `json:"difficulty" yaml:"difficulty"`
	Effects    Effects       `json:"effects" yaml:"effects"`
	Minigame   minigame.Kind `json:"minigame,omitempty" yaml:"minigame,omitempty"`
}

// Complication is an optional check injected after a non-failed choice.
// Chance is the trigger probability in percent; Difficulty feeds the
// follow-up check; Penalty is added when that check fails.
type Complication struct {
	Kind       ComplicationKind `json:"kind" yaml:"kind"`
	Chance     int              `json:"chance" yaml:"chance"`
	Difficulty int              `json:"difficulty" yaml:"difficulty"`
	Penalty    Effects          `json:"penalty" yaml:"penalty"`
}

// Encounter is one immutable step.
type Encounter struct {
	ID           string            `json:"id" yaml:"id"`
	Phase        string            `json:"phase" yaml:"phase"`
	Narrative    map[string]string `json:"narrative" yaml:"narrative"`
	Choices      []Choice          `json:"choices" yaml:"choices"`
	Complication *Complication     `json:"complication,omitempty" yaml:"complication,omitempty"`
}

// Text returns the narrative for district, falling back to "default".
func (e Encounter) Text(district string) string {
	if t, ok := e.Narrative[district]; ok {
		return t
	}
	return e.Narrative["default"]
}

// Choice looks up a choice by id.
func (e Encounter) Choice(id string) (Choice, bool) {
	for _, c := range e.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}

// Scale is a percentage applied to each effect field.
type Scale struct {
	Reward int `json:"reward" yaml:"reward"`
	Heat   int `json:"heat" yaml:"heat"`
	Damage int `json:"damage" yaml:"damage"`
}

func (s Scale) apply(e Effects) Effects {
	return Effects{
		Money:      e.Money * s.Reward / 100,
		Heat:       e.Heat * s.Heat / 100,
		CrewDamage: e.CrewDamage * s.Damage / 100,
		Health:     e.Health * s.Damage / 100,
	}
}

// Scales holds one Scale per outcome tier.
type Scales struct {
	Success Scale `json:"success" yaml:"success"`
	Partial Scale `json:"partial" yaml:"partial"`
	Fail    Scale `json:"fail" yaml:"fail"`
}

// DefaultScales is used when content declares none.
var DefaultScales = Scales{
	Success: Scale{Reward: 100, Heat: 100, Damage: 0},
	Partial: Scale{Reward: 50, Heat: 100, Damage: 50},
	Fail:    Scale{Reward: 0, Heat: 150, Damage: 100},
}

// Mission is an immutable content template for a mission, heist or
// street event.
type Mission struct {
	ID          string           `json:"id" yaml:"id"`
	Title       string           `json:"title" yaml:"title"`
	Kind        Kind             `json:"kind" yaml:"kind"`
	Category    Category         `json:"category" yaml:"category"`
	Rule        AggregateRule    `json:"rule,omitempty" yaml:"rule,omitempty"`
	PartialBand int              `json:"partial_band" yaml:"partial_band"`
	MinLevel    int              `json:"min_level,omitempty" yaml:"min_level,omitempty"`
	Approaches  []stats.Approach `json:"approaches,omitempty" yaml:"approaches,omitempty"`
	Encounters  []Encounter      `json:"encounters" yaml:"encounters"`
	Scales      *Scales          `json:"scales,omitempty" yaml:"scales,omitempty"`
}

// AggregateRule returns the declared rule, or the category default.
func (m Mission) AggregateRule() AggregateRule {
	if m.Rule != "" {
		return m.Rule
	}
	return categories[m.Category].Rule
}

// OutcomeScales returns the declared scales, or DefaultScales.
func (m Mission) OutcomeScales() Scales {
	if m.Scales != nil {
		return *m.Scales
	}
	return DefaultScales
}

func (m Mission) approach(id string) (stats.Approach, bool) {
	for _, a := range m.Approaches {
		if a.ID == id {
			return a, true
		}
	}
	return stats.Approach{}, false
}
