// Package incarceration models prison and hospital stays: the game-day
// counter, its real-time countdown, and the ways out.
//
// Every transition returns a new Record. The invariant
// Served() + Remaining == Total holds after each one.
package incarceration

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/xtding233/underworld-engine/internal/apperr"
	"github.com/xtding233/underworld-engine/internal/roll"
	"github.com/xtding233/underworld-engine/internal/stats"
)

// Kind is the facility type.
type Kind string

const (
	KindPrison   Kind = "prison"
	KindHospital Kind = "hospital"
)

// Holdings is what the player carries at admission.
type Holdings struct {
	Clean int `json:"clean"`
	Dirty int `json:"dirty"`
	Goods int `json:"goods"`
}

// Confiscation is taken once at admission and never returned.
type Confiscation struct {
	Clean int `json:"clean"`
	Dirty int `json:"dirty"`
	Goods int `json:"goods"`
}

// Record is one stay.
type Record struct {
	ID              string       `json:"id"`
	Kind            Kind         `json:"kind"`
	Total           int          `json:"total"`
	Remaining       int          `json:"remaining"`
	Confiscation    Confiscation `json:"confiscation"`
	MedicalBill     int          `json:"medical_bill,omitempty"`
	EscapeAttempted bool         `json:"escape_attempted"`
	AdmittedAt      time.Time    `json:"admitted_at"`
	LastTick        time.Time    `json:"last_tick"`
	Log             []string     `json:"log"`
}

// Served is derived from Total and Remaining.
func (r Record) Served() int { return r.Total - r.Remaining }

// Released reports whether the stay is over.
func (r Record) Released() bool { return r.Remaining == 0 }

func (r Record) clone() Record {
	out := r
	out.Log = append([]string(nil), r.Log...)
	return out
}

func (r *Record) logf(format string, a ...any) {
	r.Log = append(r.Log, fmt.Sprintf(format, a...))
}

// CheckAdmission fails with GameOver when one more admission of kind
// would exceed the lifetime maximum.
func CheckAdmission(k Kind, lifetime int, rules Rules) error {
	limit, ok := rules.MaxAdmissions[k]
	if ok && limit > 0 && lifetime+1 > limit {
		return apperr.WithMetadata(apperr.CodeGameOver, "admission limit exceeded",
			map[string]string{"facility": string(k), "limit": fmt.Sprint(limit)})
	}
	return nil
}

// Admit opens a stay of days. lifetime is the number of earlier
// admissions of the same kind. Prison confiscates part of the holdings;
// hospital bills per day instead.
func Admit(k Kind, days int, h Holdings, lifetime int, rules Rules, now time.Time) (Record, error) {
	if k != KindPrison && k != KindHospital {
		return Record{}, apperr.WithMetadata(apperr.CodeNotFound, "unknown facility", map[string]string{"facility": string(k)})
	}
	if days <= 0 {
		return Record{}, apperr.Newf(apperr.CodeIllegalTransition, "stay of %d days", days)
	}
	if err := CheckAdmission(k, lifetime, rules); err != nil {
		return Record{}, err
	}
	r := Record{
		ID:         uuid.NewString(),
		Kind:       k,
		Total:      days,
		Remaining:  days,
		AdmittedAt: now,
		LastTick:   now,
	}
	switch k {
	case KindPrison:
		r.Confiscation = Confiscation{
			Clean: pct(h.Clean, rules.ConfiscateCleanPct),
			Dirty: pct(h.Dirty, rules.ConfiscateDirtyPct),
			Goods: pct(h.Goods, rules.ConfiscateGoodsPct),
		}
		r.logf("Sentenced to %d days. Seized $%s clean, $%s dirty, %d goods.",
			days, humanize.Comma(int64(r.Confiscation.Clean)), humanize.Comma(int64(r.Confiscation.Dirty)), r.Confiscation.Goods)
	case KindHospital:
		r.MedicalBill = days * rules.MedicalBillPerDay
		r.logf("Admitted for %d days. Medical bill $%s.", days, humanize.Comma(int64(r.MedicalBill)))
	}
	return r, nil
}

func pct(v, p int) int {
	if v <= 0 || p <= 0 {
		return 0
	}
	if p >= 100 {
		return v
	}
	return v * p / 100
}

// Countdown is the real time left: remaining days at one tick each, minus
// the time since the last tick, floored at zero. It never mutates state.
func Countdown(now, lastTick time.Time, remaining int, tick time.Duration) time.Duration {
	left := time.Duration(remaining)*tick - now.Sub(lastTick)
	if left < 0 {
		return 0
	}
	return left
}

// Countdown for r.
func (r Record) Countdown(now time.Time, tick time.Duration) time.Duration {
	return Countdown(now, r.LastTick, r.Remaining, tick)
}

// Tick serves one game day.
func (r Record) Tick(now time.Time) Record {
	out := r.clone()
	out.LastTick = now
	if out.Remaining == 0 {
		return out
	}
	out.Remaining--
	out.logf("Day %d of %d served.", out.Served(), out.Total)
	if out.Remaining == 0 {
		out.logf("Released.")
	}
	return out
}

// CatchUp applies every whole tick elapsed since LastTick, for stays
// loaded from a save.
func (r Record) CatchUp(now time.Time, tick time.Duration) Record {
	if tick <= 0 {
		return r
	}
	out := r
	for !out.Released() && now.Sub(out.LastTick) >= tick {
		out = out.Tick(out.LastTick.Add(tick))
	}
	return out
}

// PaymentCost prices early release. The contact discount applies when
// contact is true.
func (r Record) PaymentCost(rules Rules, contact bool) int {
	cost := rules.rate(r.Kind).Cost(r.Remaining)
	if contact && rules.ContactDiscountPct > 0 {
		cost -= cost * rules.ContactDiscountPct / 100
	}
	return cost
}

// Pay buys out the remaining days. It returns the new record and the
// amount charged.
func (r Record) Pay(balance int, rules Rules, contact bool) (Record, int, error) {
	if r.Released() {
		return r, 0, apperr.New(apperr.CodeIllegalTransition, "already released")
	}
	cost := r.PaymentCost(rules, contact)
	if cost > balance {
		return r, 0, apperr.WithMetadata(apperr.CodeInsufficientFunds, "cannot afford release",
			map[string]string{"reason": "Release costs $" + humanize.Comma(int64(cost)) + "."})
	}
	out := r.clone()
	out.Remaining = 0
	out.logf("Paid $%s for early release.", humanize.Comma(int64(cost)))
	return out, cost, nil
}

// EscapeChance is the labelled escape breakdown for display.
func EscapeChance(ctx stats.Context) stats.Effective {
	return stats.EscapeChance(ctx)
}

// EscapeOdds is the chance an escape is actually rolled against.
func EscapeOdds(ctx stats.Context) int {
	return EscapeChance(ctx).Capped(stats.EscapeChanceCap)
}

// EscapeResult reports an escape attempt.
type EscapeResult struct {
	Check      roll.Result     `json:"check"`
	Effective  stats.Effective `json:"effective"`
	Escaped    bool            `json:"escaped"`
	HeatGained int             `json:"heat_gained"`
	DaysAdded  int             `json:"days_added"`
}

// Escape makes the single escape attempt allowed per prison stay. A
// second call fails with ExhaustedAttempt and changes nothing.
func (r Record) Escape(ctx stats.Context, rules Rules, forced *roll.Forced, rng roll.RandomSource) (Record, EscapeResult, error) {
	if r.Kind != KindPrison {
		return r, EscapeResult{}, apperr.New(apperr.CodeIllegalTransition, "no escape from hospital")
	}
	if r.EscapeAttempted {
		return r, EscapeResult{}, apperr.New(apperr.CodeExhaustedAttempt, "escape already attempted")
	}
	if r.Released() {
		return r, EscapeResult{}, apperr.New(apperr.CodeIllegalTransition, "already released")
	}
	eff := EscapeChance(ctx)
	res, err := roll.Resolve(roll.Check{Chance: eff.Capped(stats.EscapeChanceCap)}, forced, rng)
	if err != nil {
		return r, EscapeResult{}, err
	}
	out := r.clone()
	out.EscapeAttempted = true
	er := EscapeResult{Check: res, Effective: eff}
	if res.Outcome == roll.OutcomeSuccess {
		out.Remaining = 0
		er.Escaped = true
		er.HeatGained = rules.EscapeHeatPenalty
		out.logf("%s Escaped! Heat +%d.", res.Outcome.Symbol(), er.HeatGained)
	} else {
		out.Remaining += rules.EscapeDayPenalty
		out.Total += rules.EscapeDayPenalty
		er.DaysAdded = rules.EscapeDayPenalty
		out.logf("%s Caught escaping. +%d days.", res.Outcome.Symbol(), er.DaysAdded)
	}
	return out, er, nil
}
