package incarceration

// LegacyRules tune what carries over after a terminal loss.
type LegacyRules struct {
	CofferPct  int `json:"coffer_pct" yaml:"coffer_pct"`
	XPPerLevel int `json:"xp_per_level" yaml:"xp_per_level"`
	XPBonusCap int `json:"xp_bonus_cap" yaml:"xp_bonus_cap"`
}

// DefaultLegacyRules returns the built-in legacy tuning.
func DefaultLegacyRules() LegacyRules {
	return LegacyRules{CofferPct: 10, XPPerLevel: 50, XPBonusCap: 1000}
}

// Legacy is the carry-over handed to the external legacy store.
type Legacy struct {
	Coffer  int `json:"coffer"`
	XPBonus int `json:"xp_bonus"`
}

// ComputeLegacy derives the coffer share of wealth and the capped XP
// bonus for level. Storage is the caller's job.
func ComputeLegacy(wealth, level int, lr LegacyRules) Legacy {
	var l Legacy
	if wealth > 0 {
		l.Coffer = wealth * lr.CofferPct / 100
	}
	if level > 0 {
		l.XPBonus = level * lr.XPPerLevel
	}
	if lr.XPBonusCap > 0 && l.XPBonus > lr.XPBonusCap {
		l.XPBonus = lr.XPBonusCap
	}
	return l
}
