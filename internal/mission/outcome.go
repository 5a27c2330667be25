package mission

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/xtding233/underworld-engine/internal/roll"
)

// AggregateRule decides overall success from per-step outcomes.
type AggregateRule string

const (
	// RuleMajority succeeds when more than half the steps did not fail.
	RuleMajority AggregateRule = "majority"
	// RuleAnyFailFails succeeds when no step failed. Partials are fine.
	RuleAnyFailFails AggregateRule = "any_fail_fails"
	// RuleAllSuccess needs a clean success on every step.
	RuleAllSuccess AggregateRule = "all_success"
)

// Valid reports whether r is known.
func (r AggregateRule) Valid() bool {
	switch r {
	case RuleMajority, RuleAnyFailFails, RuleAllSuccess:
		return true
	}
	return false
}

// Counts tallies outcomes.
type Counts struct {
	Success int `json:"success"`
	Partial int `json:"partial"`
	Fail    int `json:"fail"`
}

// Total is the number of counted steps.
func (c Counts) Total() int { return c.Success + c.Partial + c.Fail }

func (c *Counts) add(o roll.Outcome) {
	switch o {
	case roll.OutcomeSuccess:
		c.Success++
	case roll.OutcomePartial:
		c.Partial++
	case roll.OutcomeFail:
		c.Fail++
	}
}

// Aggregate applies r to c. An empty run never succeeds.
func Aggregate(r AggregateRule, c Counts) bool {
	n := c.Total()
	if n == 0 {
		return false
	}
	switch r {
	case RuleMajority:
		return (c.Success+c.Partial)*2 > n
	case RuleAnyFailFails:
		return c.Fail == 0
	case RuleAllSuccess:
		return c.Success == n
	default:
		return false
	}
}

// Tally counts outcome symbols at the start of log lines. Lines without a
// tag (headers, summaries) are skipped.
func Tally(log []string) Counts {
	var c Counts
	for _, line := range log {
		tag, _, _ := strings.Cut(line, " ")
		c.add(roll.OutcomeFromSymbol(tag))
	}
	return c
}

// SplitHeat partitions total heat between the vehicle and the player.
// The vehicle share is rounded up; the player takes the rest.
func SplitHeat(c Category, total int) (vehicle, personal int) {
	if total <= 0 {
		return 0, total
	}
	pct := categories[c].VehiclePct
	if pct == 0 {
		pct = categories[CategoryRobbery].VehiclePct
	}
	vehicle = (total*pct + 99) / 100
	return vehicle, total - vehicle
}

// Money formats an amount for logs.
func Money(n int) string {
	if n < 0 {
		return "-$" + humanize.Comma(int64(-n))
	}
	return "$" + humanize.Comma(int64(n))
}

func signedHeat(n int) string {
	return fmt.Sprintf("heat %+d", n)
}
