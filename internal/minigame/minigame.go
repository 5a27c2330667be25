// Package minigame scales the bounded-time skill interactions (reflex,
// rotation puzzle, tap contest) and turns their completion into a forced
// skill-check result.
//
// A session never stays unresolved: finishing late, abandoning or letting
// the deadline pass all produce a failure signal.
package minigame

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/xtding233/underworld-engine/internal/apperr"
	"github.com/xtding233/underworld-engine/internal/roll"
	"github.com/xtding233/underworld-engine/internal/stats"
)

// Kind names a minigame.
type Kind string

const (
	KindReflex     Kind = "reflex"
	KindRotation   Kind = "rotation"
	KindTapContest Kind = "tap_contest"
)

// Tier is the coarse difficulty derived from player level.
type Tier int

const (
	MinTier Tier = 1
	MaxTier Tier = 4
)

// TierFor maps a player level to a tier.
func TierFor(level int) Tier {
	switch {
	case level < 5:
		return 1
	case level < 15:
		return 2
	case level < 30:
		return 3
	default:
		return 4
	}
}

// MaxWidenPct caps how much stats and crew can ease a minigame.
const MaxWidenPct = 50

// spec holds one minigame's scaling constants. Easy values apply at tier 1,
// hard values at MaxTier.
type spec struct {
	Label          string
	EasyTime       time.Duration
	HardTime       time.Duration
	EasySize       int // rotation grid side
	HardSize       int
	EasyWindow     time.Duration // reflex hit window
	HardWindow     time.Duration
	EasyTaps       int // tap contest target
	HardTaps       int
	Curve          Easing
	WidenStat      stats.Stat
	WidenPerPoint  int
	WidenRole      stats.Role
	WidenRoleBonus int
}

var specs = map[Kind]spec{
	KindReflex: {
		Label:          "Lockpick",
		EasyTime:       8 * time.Second,
		HardTime:       5 * time.Second,
		EasyWindow:     400 * time.Millisecond,
		HardWindow:     120 * time.Millisecond,
		Curve:          EaseOutQuad,
		WidenStat:      stats.StatBrains,
		WidenPerPoint:  2,
		WidenRole:      stats.RoleSafecracker,
		WidenRoleBonus: 15,
	},
	KindRotation: {
		Label:          "Hack",
		EasyTime:       60 * time.Second,
		HardTime:       30 * time.Second,
		EasySize:       3,
		HardSize:       6,
		Curve:          EaseLinear,
		WidenStat:      stats.StatBrains,
		WidenPerPoint:  2,
		WidenRole:      stats.RoleHacker,
		WidenRoleBonus: 20,
	},
	KindTapContest: {
		Label:          "Arm Wrestle",
		EasyTime:       10 * time.Second,
		HardTime:       10 * time.Second,
		EasyTaps:       25,
		HardTaps:       60,
		Curve:          EaseInOutCubic,
		WidenStat:      stats.StatMuscle,
		WidenPerPoint:  3,
		WidenRole:      stats.RoleEnforcer,
		WidenRoleBonus: 10,
	},
}

// Kinds lists every minigame.
func Kinds() []Kind { return []Kind{KindReflex, KindRotation, KindTapContest} }

// Valid reports whether k is a known minigame.
func (k Kind) Valid() bool {
	_, ok := specs[k]
	return ok
}

// Label is the display name.
func (k Kind) Label() string { return specs[k].Label }

// Params are the concrete limits of one session.
type Params struct {
	Tier       Tier          `json:"tier"`
	TimeBudget time.Duration `json:"time_budget"`
	Size       int           `json:"size,omitempty"`
	Window     time.Duration `json:"window,omitempty"`
	Taps       int           `json:"taps,omitempty"`
	WidenPct   int           `json:"widen_pct"`
}

// WidenPct is how much ctx eases kind, capped at MaxWidenPct.
func WidenPct(k Kind, ctx stats.Context) int {
	s, ok := specs[k]
	if !ok {
		return 0
	}
	pct := ctx.Stats.Get(s.WidenStat) * s.WidenPerPoint
	if s.WidenRole != "" && stats.HasActiveRole(ctx.Crew, s.WidenRole) {
		pct += s.WidenRoleBonus
	}
	if pct > MaxWidenPct {
		pct = MaxWidenPct
	}
	return pct
}

// Scale computes session limits for k at tier, eased by ctx.
func Scale(k Kind, tier Tier, ctx stats.Context) (Params, error) {
	s, ok := specs[k]
	if !ok {
		return Params{}, apperr.WithMetadata(apperr.CodeNotFound, "unknown minigame", map[string]string{"minigame": string(k)})
	}
	widen := WidenPct(k, ctx)
	grow := func(v float64) float64 { return v * float64(100+widen) / 100 }
	shrink := func(v float64) float64 { return v * 100 / float64(100+widen) }

	p := Params{Tier: tier, WidenPct: widen}
	p.TimeBudget = time.Duration(grow(interpolate(float64(s.EasyTime), float64(s.HardTime), tier, s.Curve)))
	if s.EasyWindow > 0 {
		p.Window = time.Duration(grow(interpolate(float64(s.EasyWindow), float64(s.HardWindow), tier, s.Curve)))
	}
	if s.EasySize > 0 {
		size := int(math.Round(interpolate(float64(s.EasySize), float64(s.HardSize), tier, s.Curve)))
		if widen >= MaxWidenPct/2 && size > s.EasySize {
			size--
		}
		p.Size = size
	}
	if s.EasyTaps > 0 {
		p.Taps = int(math.Ceil(shrink(interpolate(float64(s.EasyTaps), float64(s.HardTaps), tier, s.Curve))))
	}
	return p, nil
}

// Reason explains a signal.
type Reason string

const (
	ReasonCompleted Reason = "completed"
	ReasonFailed    Reason = "failed"
	ReasonTimeout   Reason = "timeout"
	ReasonAbandoned Reason = "abandoned"
)

// Signal is the boolean completion result consumed by a skill check.
type Signal struct {
	SessionID string `json:"session_id"`
	Kind      Kind   `json:"kind"`
	Success   bool   `json:"success"`
	Reason    Reason `json:"reason"`
}

// Forced converts the signal into a skill-check override.
func (s Signal) Forced() *roll.Forced {
	return &roll.Forced{Success: s.Success}
}

// Session is one running minigame.
type Session struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Params    Params    `json:"params"`
	StartedAt time.Time `json:"started_at"`
	Deadline  time.Time `json:"deadline"`
	// Grid is the scrambled rotation puzzle the host must solve.
	Grid   Grid    `json:"grid,omitempty"`
	Done   bool    `json:"done"`
	Signal *Signal `json:"signal,omitempty"`
}

// Start opens a session for a player of the given level. Rotation sessions
// draw their puzzle from rng.
func Start(k Kind, level int, ctx stats.Context, now time.Time, rng roll.RandomSource) (Session, error) {
	p, err := Scale(k, TierFor(level), ctx)
	if err != nil {
		return Session{}, err
	}
	s := Session{
		ID:        uuid.NewString(),
		Kind:      k,
		Params:    p,
		StartedAt: now,
		Deadline:  now.Add(p.TimeBudget),
	}
	if k == KindRotation {
		s.Grid = NewGrid(p.Size, rng)
	}
	return s, nil
}

// Attempt is what the host observed while the player played. Only the
// field matching the session kind is read.
type Attempt struct {
	// Offset is how far the reflex press landed from the target moment.
	Offset time.Duration `json:"offset"`
	Taps   int           `json:"taps"`
	// Moves are the rotation taps in the order they were made.
	Moves []Move `json:"moves"`
}

// Verify reports whether a completed the session's challenge.
func (s Session) Verify(a Attempt) bool {
	switch s.Kind {
	case KindReflex:
		return HitReflex(s.Params, a.Offset)
	case KindTapContest:
		return WonTapContest(s.Params, a.Taps)
	case KindRotation:
		return len(s.Grid) > 0 && s.Grid.Apply(a.Moves).Solved()
	default:
		return false
	}
}

func (s Session) close(success bool, reason Reason) (Session, Signal) {
	sig := Signal{SessionID: s.ID, Kind: s.Kind, Success: success, Reason: reason}
	s.Done = true
	s.Signal = &sig
	return s, sig
}

// Finish checks a at now. Anything after the deadline is a timeout whatever
// the attempt shows.
func (s Session) Finish(now time.Time, a Attempt) (Session, Signal, error) {
	if s.Done {
		return s, Signal{}, apperr.New(apperr.CodeIllegalTransition, "minigame already resolved")
	}
	if now.After(s.Deadline) {
		done, sig := s.close(false, ReasonTimeout)
		return done, sig, nil
	}
	if !s.Verify(a) {
		done, sig := s.close(false, ReasonFailed)
		return done, sig, nil
	}
	done, sig := s.close(true, ReasonCompleted)
	return done, sig, nil
}

// Abandon closes the session as a failure.
func (s Session) Abandon() (Session, Signal, error) {
	if s.Done {
		return s, Signal{}, apperr.New(apperr.CodeIllegalTransition, "minigame already resolved")
	}
	done, sig := s.close(false, ReasonAbandoned)
	return done, sig, nil
}

// Expire fails the session once the deadline has passed. ok is false when
// the session is still running or already resolved.
func (s Session) Expire(now time.Time) (Session, Signal, bool) {
	if s.Done || now.Before(s.Deadline) {
		return s, Signal{}, false
	}
	done, sig := s.close(false, ReasonTimeout)
	return done, sig, true
}

// Remaining is the time left before the deadline, floored at zero.
func (s Session) Remaining(now time.Time) time.Duration {
	if s.Done {
		return 0
	}
	d := s.Deadline.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
