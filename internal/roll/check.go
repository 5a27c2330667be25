package roll

import "fmt"

// Outcome is the result tier of a skill check.
type Outcome int

const (
	OutcomeUnspecified Outcome = iota
	OutcomeSuccess
	OutcomePartial
	OutcomeFail
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomePartial:
		return "partial"
	case OutcomeFail:
		return "fail"
	default:
		return "unspecified"
	}
}

// MarshalText encodes o by name.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// UnmarshalText is the inverse of MarshalText.
func (o *Outcome) UnmarshalText(b []byte) error {
	switch string(b) {
	case "success":
		*o = OutcomeSuccess
	case "partial":
		*o = OutcomePartial
	case "fail":
		*o = OutcomeFail
	case "unspecified", "":
		*o = OutcomeUnspecified
	default:
		return fmt.Errorf("unknown outcome %q", b)
	}
	return nil
}

// Symbol is the log tag used to count outcomes back out of a run log.
func (o Outcome) Symbol() string {
	switch o {
	case OutcomeSuccess:
		return "✓"
	case OutcomePartial:
		return "~"
	case OutcomeFail:
		return "✗"
	default:
		return "?"
	}
}

// OutcomeFromSymbol is the inverse of Symbol.
func OutcomeFromSymbol(s string) Outcome {
	switch s {
	case "✓":
		return OutcomeSuccess
	case "~":
		return OutcomePartial
	case "✗":
		return OutcomeFail
	default:
		return OutcomeUnspecified
	}
}

// Downgrade moves an outcome one tier down (success→partial→fail).
func (o Outcome) Downgrade() Outcome {
	switch o {
	case OutcomeSuccess:
		return OutcomePartial
	default:
		return OutcomeFail
	}
}

// Forced is a minigame's completion signal substituted for the draw.
type Forced struct {
	Success bool
}

// ForceSuccess and ForceFail build overrides.
func ForceSuccess() *Forced { return &Forced{Success: true} }
func ForceFail() *Forced    { return &Forced{Success: false} }

// Check describes one skill check.
// Chance is the success chance in percentage points. PartialBand is the
// width of the partial tier directly above it; 0 makes the check binary.
type Check struct {
	Chance      int
	PartialBand int
}

// Result records a resolved check.
type Result struct {
	Outcome Outcome
	Roll    float64 // draw scaled to [0,100); -1 when forced
	Chance  int
	Forced  bool
}

// Resolve settles c. A non-nil forced always wins and never consumes a draw.
// Otherwise exactly one value is drawn from rng:
//
//	roll < Chance               -> success
//	roll < Chance + PartialBand -> partial
//	otherwise                   -> fail
func Resolve(c Check, forced *Forced, rng RandomSource) (Result, error) {
	if err := validateBand(c.PartialBand); err != nil {
		return Result{}, fmt.Errorf("partial band %d: %w", c.PartialBand, err)
	}
	chance := ClampPct(c.Chance)
	if forced != nil {
		out := OutcomeFail
		if forced.Success {
			out = OutcomeSuccess
		}
		return Result{Outcome: out, Roll: -1, Chance: chance, Forced: true}, nil
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	r := rng.Float64() * 100
	out := OutcomeFail
	switch {
	case r < float64(chance):
		out = OutcomeSuccess
	case r < float64(chance+c.PartialBand):
		out = OutcomePartial
	}
	return Result{Outcome: out, Roll: r, Chance: chance}, nil
}
