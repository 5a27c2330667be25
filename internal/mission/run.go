package mission

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/xtding233/underworld-engine/internal/apperr"
	"github.com/xtding233/underworld-engine/internal/minigame"
	"github.com/xtding233/underworld-engine/internal/roll"
	"github.com/xtding233/underworld-engine/internal/stats"
)

// Status is the run state.
type Status string

const (
	StatusNotStarted          Status = ""
	StatusInProgress          Status = "in_progress"
	StatusPendingComplication Status = "pending_complication"
	StatusPendingMinigame     Status = "pending_minigame"
	StatusFinished            Status = "finished"
)

// Step is one resolved encounter.
type Step struct {
	Encounter    string           `json:"encounter"`
	Phase        string           `json:"phase"`
	Choice       string           `json:"choice"`
	Outcome      roll.Outcome     `json:"outcome"`
	Roll         float64          `json:"roll"`
	Chance       int              `json:"chance"`
	Forced       bool             `json:"forced"`
	Complication ComplicationKind `json:"complication,omitempty"`
	Effects      Effects          `json:"effects"`
}

// Pending is a gate that blocks the run until resolved.
type Pending struct {
	Choice       string        `json:"choice"`
	Minigame     minigame.Kind `json:"minigame,omitempty"`
	Complication *Complication `json:"complication,omitempty"`
	Held         *Step         `json:"held,omitempty"`
}

// Run is the mutable record of one mission, heist or street event.
type Run struct {
	ID       string          `json:"id"`
	Mission  Mission         `json:"mission"`
	District string          `json:"district"`
	Approach *stats.Approach `json:"approach,omitempty"`
	Index    int             `json:"index"`
	Steps    []Step          `json:"steps"`
	Log      []string        `json:"log"`
	Totals   Effects         `json:"totals"`
	Status   Status          `json:"status"`
	Success  bool            `json:"success"`
	Pending  *Pending        `json:"pending,omitempty"`
}

// Start validates m and opens a run at its first encounter. approachID may
// be empty; otherwise it must name one of m's approaches.
func Start(m Mission, district, approachID string) (Run, error) {
	if err := Validate(m); err != nil {
		return Run{}, apperr.Wrap(apperr.CodeNotFound, "mission content unusable", err)
	}
	r := Run{
		ID:       uuid.NewString(),
		Mission:  m,
		District: district,
		Status:   StatusInProgress,
	}
	if approachID != "" {
		a, ok := m.approach(approachID)
		if !ok {
			return Run{}, apperr.WithMetadata(apperr.CodeNotFound, "unknown approach",
				map[string]string{"approach": approachID})
		}
		r.Approach = &a
	}
	header := fmt.Sprintf("%s: %s", strings.ToUpper(string(m.Kind)), m.Title)
	if r.Approach != nil {
		header += " (" + r.Approach.Label + ")"
	}
	r.Log = []string{header}
	return r, nil
}

func (r Run) clone() Run {
	out := r
	out.Steps = append([]Step(nil), r.Steps...)
	out.Log = append([]string(nil), r.Log...)
	if r.Pending != nil {
		p := *r.Pending
		if p.Held != nil {
			h := *p.Held
			p.Held = &h
		}
		out.Pending = &p
	}
	return out
}

// Finished reports whether the run is terminal.
func (r Run) Finished() bool { return r.Status == StatusFinished }

// Current returns the encounter awaiting a choice.
func (r Run) Current() (Encounter, error) {
	if r.Status == StatusNotStarted || r.Finished() {
		return Encounter{}, apperr.New(apperr.CodeIllegalTransition, "run has no current encounter")
	}
	return r.Mission.Encounters[r.Index], nil
}

func (r Run) context(ctx stats.Context) stats.Context {
	if r.Approach != nil {
		a := *r.Approach
		ctx.Approach = &a
	}
	return ctx
}

// Chance breaks down the effective chance of a choice in the current
// encounter.
func (r Run) Chance(choiceID string, ctx stats.Context) (stats.Effective, error) {
	enc, err := r.Current()
	if err != nil {
		return stats.Effective{}, err
	}
	c, ok := enc.Choice(choiceID)
	if !ok {
		return stats.Effective{}, apperr.WithMetadata(apperr.CodeNotFound, "unknown choice",
			map[string]string{"choice": choiceID})
	}
	return stats.Resolve(r.Mission.Kind.ActionKind(), c.Stat, stats.ChoiceBase(c.Difficulty), r.context(ctx)), nil
}

func (r Run) requireOpen() error {
	switch r.Status {
	case StatusInProgress:
		return nil
	case StatusPendingComplication:
		return apperr.New(apperr.CodeIllegalTransition, "a complication must be resolved first")
	case StatusPendingMinigame:
		return apperr.New(apperr.CodeIllegalTransition, "a minigame must be completed first")
	case StatusFinished:
		return apperr.New(apperr.CodeIllegalTransition, "run is already finished")
	default:
		return apperr.New(apperr.CodeIllegalTransition, "run has not started")
	}
}

// BeginMinigame gates the run on the minigame attached to choiceID.
func (r Run) BeginMinigame(choiceID string) (Run, minigame.Kind, error) {
	if err := r.requireOpen(); err != nil {
		return r, "", err
	}
	enc, _ := r.Current()
	c, ok := enc.Choice(choiceID)
	if !ok {
		return r, "", apperr.WithMetadata(apperr.CodeNotFound, "unknown choice", map[string]string{"choice": choiceID})
	}
	if c.Minigame == "" {
		return r, "", apperr.New(apperr.CodeIllegalTransition, "choice has no minigame")
	}
	out := r.clone()
	out.Status = StatusPendingMinigame
	out.Pending = &Pending{Choice: choiceID, Minigame: c.Minigame}
	return out, c.Minigame, nil
}

// CompleteMinigame consumes the minigame signal as a forced result for the
// gated choice.
func (r Run) CompleteMinigame(sig minigame.Signal, ctx stats.Context, rng roll.RandomSource) (Run, Step, error) {
	if r.Status != StatusPendingMinigame || r.Pending == nil {
		return r, Step{}, apperr.New(apperr.CodeIllegalTransition, "no minigame pending")
	}
	if sig.Kind != r.Pending.Minigame {
		return r, Step{}, apperr.WithMetadata(apperr.CodeIllegalTransition, "minigame mismatch",
			map[string]string{"expected": string(r.Pending.Minigame), "got": string(sig.Kind)})
	}
	open := r.clone()
	choiceID := open.Pending.Choice
	open.Status = StatusInProgress
	open.Pending = nil
	return open.resolve(choiceID, ctx, sig.Forced(), rng)
}

// Resolve settles choiceID in the current encounter. forced overrides the
// draw. A choice with a minigame must go through BeginMinigame unless a
// forced result is supplied.
//
// When the encounter carries a complication and the choice did not fail,
// the complication may trigger; the step is then held until
// ResolveComplication runs.
func (r Run) Resolve(choiceID string, ctx stats.Context, forced *roll.Forced, rng roll.RandomSource) (Run, Step, error) {
	if err := r.requireOpen(); err != nil {
		return r, Step{}, err
	}
	enc, _ := r.Current()
	if c, ok := enc.Choice(choiceID); ok && c.Minigame != "" && forced == nil {
		return r, Step{}, apperr.New(apperr.CodeIllegalTransition, "choice needs its minigame")
	}
	return r.resolve(choiceID, ctx, forced, rng)
}

func (r Run) resolve(choiceID string, ctx stats.Context, forced *roll.Forced, rng roll.RandomSource) (Run, Step, error) {
	enc, _ := r.Current()
	c, ok := enc.Choice(choiceID)
	if !ok {
		return r, Step{}, apperr.WithMetadata(apperr.CodeNotFound, "unknown choice", map[string]string{"choice": choiceID})
	}
	if rng == nil {
		rng = roll.DefaultRNG()
	}
	eff, _ := r.Chance(choiceID, ctx)
	res, err := roll.Resolve(roll.Check{Chance: eff.Chance(), PartialBand: r.Mission.PartialBand}, forced, rng)
	if err != nil {
		return r, Step{}, err
	}
	step := Step{
		Encounter: enc.ID,
		Phase:     enc.Phase,
		Choice:    c.ID,
		Outcome:   res.Outcome,
		Roll:      res.Roll,
		Chance:    res.Chance,
		Forced:    res.Forced,
	}

	if cp := enc.Complication; cp != nil && res.Outcome != roll.OutcomeFail && cp.Chance > 0 {
		hit, err := roll.Draw(float64(cp.Chance)/100, rng)
		if err != nil {
			return r, Step{}, err
		}
		if hit {
			out := r.clone()
			cpy := *cp
			out.Status = StatusPendingComplication
			out.Pending = &Pending{Choice: c.ID, Complication: &cpy, Held: &step}
			step.Complication = cp.Kind
			return out, step, nil
		}
	}
	out := r.clone()
	step = out.commit(step, c.Effects, Effects{})
	return out, step, nil
}

// ComplicationChance breaks down the pending complication check.
func (r Run) ComplicationChance(ctx stats.Context) (stats.Effective, error) {
	if r.Status != StatusPendingComplication || r.Pending == nil || r.Pending.Complication == nil {
		return stats.Effective{}, apperr.New(apperr.CodeIllegalTransition, "no complication pending")
	}
	cp := r.Pending.Complication
	spec, _ := cp.Kind.Spec()
	return stats.Resolve(r.Mission.Kind.ActionKind(), spec.Stat, stats.ChoiceBase(cp.Difficulty), r.context(ctx)), nil
}

// ResolveComplication runs the binary complication check. Passing commits
// the held step as rolled; failing downgrades it one tier and adds the
// penalty.
func (r Run) ResolveComplication(ctx stats.Context, forced *roll.Forced, rng roll.RandomSource) (Run, Step, error) {
	eff, err := r.ComplicationChance(ctx)
	if err != nil {
		return r, Step{}, err
	}
	res, err := roll.Resolve(roll.Check{Chance: eff.Chance()}, forced, rng)
	if err != nil {
		return r, Step{}, err
	}
	out := r.clone()
	cp := *out.Pending.Complication
	step := *out.Pending.Held
	step.Complication = cp.Kind
	enc := out.Mission.Encounters[out.Index]
	c, _ := enc.Choice(out.Pending.Choice)

	var penalty Effects
	if res.Outcome == roll.OutcomeFail {
		step.Outcome = step.Outcome.Downgrade()
		penalty = cp.Penalty
	}
	out.Status = StatusInProgress
	out.Pending = nil
	step = out.commit(step, c.Effects, penalty)
	return out, step, nil
}

// commit applies a settled step: scaled effects plus any flat penalty,
// one log line, and the index advance. It finishes the run on the last
// step.
func (r *Run) commit(step Step, base, penalty Effects) Step {
	sc := r.Mission.OutcomeScales()
	var scale Scale
	switch step.Outcome {
	case roll.OutcomeSuccess:
		scale = sc.Success
	case roll.OutcomePartial:
		scale = sc.Partial
	default:
		scale = sc.Fail
	}
	step.Effects = scale.apply(base).add(penalty)
	r.Totals = r.Totals.add(step.Effects)
	r.Steps = append(r.Steps, step)
	r.Log = append(r.Log, stepLine(r.Mission.Encounters[r.Index], step))
	r.Index++

	if r.Index >= len(r.Mission.Encounters) {
		r.Success = Aggregate(r.Mission.AggregateRule(), Tally(r.Log))
		r.Status = StatusFinished
		r.Log = append(r.Log, r.summaryLine())
	}
	return step
}

func stepLine(enc Encounter, s Step) string {
	var b strings.Builder
	b.WriteString(s.Outcome.Symbol())
	b.WriteString(" ")
	if enc.Phase != "" {
		b.WriteString(enc.Phase)
		b.WriteString(" / ")
	}
	b.WriteString(s.Choice)
	if s.Complication != "" {
		spec, _ := s.Complication.Spec()
		fmt.Fprintf(&b, " [%s]", spec.Label)
	}
	fmt.Fprintf(&b, " (%s, %s", Money(s.Effects.Money), signedHeat(s.Effects.Heat))
	if s.Effects.CrewDamage != 0 {
		fmt.Fprintf(&b, ", crew -%d", s.Effects.CrewDamage)
	}
	if s.Effects.Health != 0 {
		fmt.Fprintf(&b, ", health -%d", s.Effects.Health)
	}
	b.WriteString(")")
	return b.String()
}

func (r Run) summaryLine() string {
	verdict := "FAILED"
	if r.Success {
		verdict = "SUCCEEDED"
	}
	return fmt.Sprintf("=> %s %s: %s, %s", r.Mission.Title, verdict, Money(r.Totals.Money), signedHeat(r.Totals.Heat))
}

// HeatSplit partitions the run's accumulated heat by category.
func (r Run) HeatSplit() (vehicle, personal int) {
	return SplitHeat(r.Mission.Category, r.Totals.Heat)
}

// Payout is the money credited on acknowledge. Failed runs pay nothing.
func (r Run) Payout() int {
	if !r.Success || r.Totals.Money < 0 {
		return 0
	}
	return r.Totals.Money
}

// Acknowledge checks that r may be cleared from state.
func (r Run) Acknowledge() error {
	if !r.Finished() {
		return apperr.New(apperr.CodeIllegalTransition, "run is not finished")
	}
	return nil
}
