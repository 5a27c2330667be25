package incarceration

import "time"

// Rate prices early release, proportional to the days bought out. An
// optional PerWeek bulk price bills whole weeks at a flat rate and the
// remaining days at PerDay.
type Rate struct {
	PerDay  int `json:"per_day" yaml:"per_day"`
	PerWeek int `json:"per_week,omitempty" yaml:"per_week,omitempty"`
}

// Cost returns the price of buying out days.
func (r Rate) Cost(days int) int {
	if days <= 0 {
		return 0
	}
	if r.PerWeek > 0 && days >= 7 {
		return days/7*r.PerWeek + days%7*r.PerDay
	}
	return days * r.PerDay
}

// Rules are the tunable incarceration constants.
type Rules struct {
	TickInterval       time.Duration `json:"tick_interval" yaml:"tick_interval"`
	PrisonRate         Rate          `json:"prison_rate" yaml:"prison_rate"`
	HospitalRate       Rate          `json:"hospital_rate" yaml:"hospital_rate"`
	ContactDiscountPct int           `json:"contact_discount_pct" yaml:"contact_discount_pct"`
	EscapeHeatPenalty  int           `json:"escape_heat_penalty" yaml:"escape_heat_penalty"`
	EscapeDayPenalty   int           `json:"escape_day_penalty" yaml:"escape_day_penalty"`
	MaxAdmissions      map[Kind]int  `json:"max_admissions" yaml:"max_admissions"`
	ConfiscateCleanPct int           `json:"confiscate_clean_pct" yaml:"confiscate_clean_pct"`
	ConfiscateDirtyPct int           `json:"confiscate_dirty_pct" yaml:"confiscate_dirty_pct"`
	ConfiscateGoodsPct int           `json:"confiscate_goods_pct" yaml:"confiscate_goods_pct"`
	MedicalBillPerDay  int           `json:"medical_bill_per_day" yaml:"medical_bill_per_day"`
	ArrestHeat         int           `json:"arrest_heat" yaml:"arrest_heat"`
	HeatPerDay         int           `json:"heat_per_day" yaml:"heat_per_day"`
	MinSentence        int           `json:"min_sentence" yaml:"min_sentence"`
	Legacy             LegacyRules   `json:"legacy" yaml:"legacy"`
}

// DefaultTickInterval is one game day.
const DefaultTickInterval = 30 * time.Minute

// DefaultRules returns the built-in tuning.
func DefaultRules() Rules {
	return Rules{
		TickInterval:       DefaultTickInterval,
		PrisonRate:         Rate{PerDay: 500},
		HospitalRate:       Rate{PerDay: 300},
		ContactDiscountPct: 25,
		EscapeHeatPenalty:  20,
		EscapeDayPenalty:   3,
		MaxAdmissions:      map[Kind]int{KindPrison: 5, KindHospital: 10},
		ConfiscateCleanPct: 25,
		ConfiscateDirtyPct: 100,
		ConfiscateGoodsPct: 100,
		MedicalBillPerDay:  200,
		ArrestHeat:         80,
		HeatPerDay:         20,
		MinSentence:        2,
		Legacy:             DefaultLegacyRules(),
	}
}

func (r Rules) rate(k Kind) Rate {
	if k == KindHospital {
		return r.HospitalRate
	}
	return r.PrisonRate
}

// Sentence reports whether heat gets the player arrested and for how
// many days.
func (r Rules) Sentence(heat int) (days int, arrested bool) {
	if r.ArrestHeat <= 0 || heat < r.ArrestHeat {
		return 0, false
	}
	days = r.MinSentence
	if r.HeatPerDay > 0 && heat/r.HeatPerDay > days {
		days = heat / r.HeatPerDay
	}
	if days < 1 {
		days = 1
	}
	return days, true
}
