package config

import "github.com/xtding233/underworld-engine/internal/mission"

// RawConfig mirrors the YAML layout. Pointer fields distinguish "absent"
// from zero so profiles can override selectively.
type RawConfig struct {
	Version       string            `yaml:"version"`
	Notes         string            `yaml:"notes"`
	Casino        *CasinoRaw        `yaml:"casino"`
	Bonuses       map[string]int    `yaml:"bonuses"`
	Incarceration *IncarcerationRaw `yaml:"incarceration"`
	Missions      []mission.Mission `yaml:"missions"`
	StreetEvents  []mission.Mission `yaml:"street_events"`
}

type CasinoRaw struct {
	Limits       map[string]LimitsRaw `yaml:"limits"`
	JackpotFloor *int                 `yaml:"jackpot_floor"`
	Ladder       []int                `yaml:"high_low_ladder"`
}

type LimitsRaw struct {
	Min *int `yaml:"min"`
	Max *int `yaml:"max"`
}

type IncarcerationRaw struct {
	TickMinutes        *int       `yaml:"tick_minutes"`
	PrisonPerDay       *int       `yaml:"prison_per_day"`
	PrisonPerWeek      *int       `yaml:"prison_per_week"`
	HospitalPerDay     *int       `yaml:"hospital_per_day"`
	ContactDiscountPct *int       `yaml:"contact_discount_pct"`
	EscapeHeatPenalty  *int       `yaml:"escape_heat_penalty"`
	EscapeDayPenalty   *int       `yaml:"escape_day_penalty"`
	MaxPrison          *int       `yaml:"max_prison"`
	MaxHospital        *int       `yaml:"max_hospital"`
	ConfiscateCleanPct *int       `yaml:"confiscate_clean_pct"`
	ConfiscateDirtyPct *int       `yaml:"confiscate_dirty_pct"`
	ConfiscateGoodsPct *int       `yaml:"confiscate_goods_pct"`
	MedicalBillPerDay  *int       `yaml:"medical_bill_per_day"`
	ArrestHeat         *int       `yaml:"arrest_heat"`
	HeatPerDay         *int       `yaml:"heat_per_day"`
	MinSentence        *int       `yaml:"min_sentence"`
	Legacy             *LegacyRaw `yaml:"legacy"`
}

type LegacyRaw struct {
	CofferPct  *int `yaml:"coffer_pct"`
	XPPerLevel *int `yaml:"xp_per_level"`
	XPBonusCap *int `yaml:"xp_bonus_cap"`
}
