package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xtding233/underworld-engine/internal/casino"
	"github.com/xtding233/underworld-engine/internal/mission"
)

// ValidateRaw checks semantic constraints of a merged RawConfig and
// reports every violation at once.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	if c := cfg.Casino; c != nil {
		for name, l := range c.Limits {
			k := casino.Kind(name)
			spec, ok := k.Spec()
			if !ok {
				errs = append(errs, fmt.Sprintf("casino.limits.%s: unknown game", name))
				continue
			}
			lo, hi := spec.Limits.Min, spec.Limits.Max
			if l.Min != nil {
				lo = *l.Min
			}
			if l.Max != nil {
				hi = *l.Max
			}
			if lo <= 0 {
				errs = append(errs, fmt.Sprintf("casino.limits.%s.min must be > 0", name))
			}
			if hi < lo {
				errs = append(errs, fmt.Sprintf("casino.limits.%s.max must be >= min", name))
			}
			if hi > spec.Limits.Max {
				errs = append(errs, fmt.Sprintf("casino.limits.%s.max must not exceed table ceiling %d", name, spec.Limits.Max))
			}
		}
		if c.JackpotFloor != nil && *c.JackpotFloor <= 0 {
			errs = append(errs, "casino.jackpot_floor must be > 0")
		}
		if len(c.Ladder) > 0 {
			if len(c.Ladder) < 2 {
				errs = append(errs, "casino.high_low_ladder needs at least 2 rungs")
			}
			for i := 1; i < len(c.Ladder); i++ {
				if c.Ladder[i] <= c.Ladder[i-1] {
					errs = append(errs, fmt.Sprintf("casino.high_low_ladder[%d] must be greater than the previous rung", i))
				}
			}
		}
	}

	for name, pct := range cfg.Bonuses {
		if pct < 0 || pct > casino.MaxBonusPct {
			errs = append(errs, fmt.Sprintf("bonuses.%s must be in [0,%d]", name, casino.MaxBonusPct))
		}
	}

	if ir := cfg.Incarceration; ir != nil {
		positive := map[string]*int{
			"tick_minutes":     ir.TickMinutes,
			"prison_per_day":   ir.PrisonPerDay,
			"hospital_per_day": ir.HospitalPerDay,
			"max_prison":       ir.MaxPrison,
			"max_hospital":     ir.MaxHospital,
			"min_sentence":     ir.MinSentence,
		}
		for name, v := range positive {
			if v != nil && *v <= 0 {
				errs = append(errs, fmt.Sprintf("incarceration.%s must be > 0", name))
			}
		}
		percents := map[string]*int{
			"contact_discount_pct": ir.ContactDiscountPct,
			"confiscate_clean_pct": ir.ConfiscateCleanPct,
			"confiscate_dirty_pct": ir.ConfiscateDirtyPct,
			"confiscate_goods_pct": ir.ConfiscateGoodsPct,
		}
		for name, v := range percents {
			if v != nil && (*v < 0 || *v > 100) {
				errs = append(errs, fmt.Sprintf("incarceration.%s must be in [0,100]", name))
			}
		}
		if ir.EscapeDayPenalty != nil && *ir.EscapeDayPenalty < 0 {
			errs = append(errs, "incarceration.escape_day_penalty must be >= 0")
		}
		if lg := ir.Legacy; lg != nil && lg.CofferPct != nil && (*lg.CofferPct < 0 || *lg.CofferPct > 100) {
			errs = append(errs, "incarceration.legacy.coffer_pct must be in [0,100]")
		}
	}

	seen := make(map[string]bool)
	check := func(section string, ms []mission.Mission) {
		for _, m := range ms {
			if seen[m.ID] {
				errs = append(errs, fmt.Sprintf("%s: duplicate id %q", section, m.ID))
			}
			seen[m.ID] = true
			if err := mission.Validate(m); err != nil {
				var verr *mission.ValidationError
				if errors.As(err, &verr) {
					for _, p := range verr.Problems {
						errs = append(errs, section+": "+p)
					}
					continue
				}
				errs = append(errs, section+": "+err.Error())
			}
		}
	}
	check("missions", cfg.Missions)
	check("street_events", cfg.StreetEvents)

	if len(errs) > 0 {
		sort.Strings(errs)
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
