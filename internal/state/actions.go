package state

import (
	"time"

	"github.com/xtding233/underworld-engine/internal/casino"
	"github.com/xtding233/underworld-engine/internal/incarceration"
	"github.com/xtding233/underworld-engine/internal/minigame"
	"github.com/xtding233/underworld-engine/internal/mission"
	"github.com/xtding233/underworld-engine/internal/stats"
)

// Action is a tagged state change. Kind is the discriminator persisted in
// logs and used by hosts.
type Action interface {
	Kind() string
}

// Action kinds.
const (
	KindRunStarted           = "run/started"
	KindRunUpdated           = "run/updated"
	KindRunAcknowledged      = "run/acknowledged"
	KindStakeCommitted       = "casino/stake_committed"
	KindWagerSettled         = "casino/wager_settled"
	KindSessionCredited      = "casino/session_credited"
	KindBlackjackSet         = "casino/blackjack_set"
	KindHighLowSet           = "casino/high_low_set"
	KindRemoteWagerConfirmed = "casino/remote_confirmed"
	KindAdmitted             = "custody/admitted"
	KindCustodyUpdated       = "custody/updated"
	KindTicked               = "clock/ticked"
	KindMinigameSet          = "minigame/set"
	KindCrewHired            = "crew/hired"
	KindBonusToggled         = "player/bonus_toggled"
	KindContactSet           = "player/contact_set"
	KindGameEnded            = "game/ended"
	KindLoaded               = "game/loaded"
)

// RunStarted installs a new run. Only one run may be active.
type RunStarted struct{ Run mission.Run }

// RunUpdated replaces the active run after a transition.
type RunUpdated struct{ Run mission.Run }

// RunAcknowledged applies the finished run's totals and clears it.
type RunAcknowledged struct{}

// StakeCommitted debits a multi-step wager's stake up front.
type StakeCommitted struct {
	Game   casino.Kind
	Amount int
}

// WagerSettled applies a single-shot wager: the stake and the payout in
// one step. Jackpot, when set, replaces the shared pool.
type WagerSettled struct {
	Settlement casino.Settlement
	Heat       int
	Jackpot    *casino.Jackpot
}

// SessionCredited pays out a multi-step wager whose stake was committed.
type SessionCredited struct{ Settlement casino.Settlement }

// BlackjackSet stores or clears (nil) the blackjack session.
type BlackjackSet struct{ Game *casino.Blackjack }

// HighLowSet stores or clears (nil) the high-low session.
type HighLowSet struct{ Game *casino.HighLow }

// RemoteWagerConfirmed applies an authority verdict's net to the local
// balance. Balance is the authority's own ledger and is only logged.
type RemoteWagerConfirmed struct {
	Game    casino.Kind
	Net     int
	Balance int
}

// Admitted starts a stay. Charge is the hospital bill actually collected.
type Admitted struct {
	Record incarceration.Record
	Charge int
}

// CustodyUpdated replaces the stay after a payment or escape.
type CustodyUpdated struct {
	Record incarceration.Record
	Charge int
	Heat   int
}

// Ticked advances one game day.
type Ticked struct {
	Now     time.Time
	Weather stats.Weather
}

// MinigameSet stores or clears (nil) the minigame session.
type MinigameSet struct{ Session *minigame.Session }

// CrewHired adds a crew member.
type CrewHired struct {
	Member stats.CrewMember
	Cost   int
}

// BonusToggled grants or revokes a named casino bonus.
type BonusToggled struct {
	Name   string
	Active bool
}

// ContactSet toggles the favourable contact.
type ContactSet struct{ Active bool }

// GameEnded is terminal.
type GameEnded struct {
	Reason string
	Legacy incarceration.Legacy
}

// Loaded replaces the whole state from a save.
type Loaded struct{ State GameState }

func (RunStarted) Kind() string           { return KindRunStarted }
func (RunUpdated) Kind() string           { return KindRunUpdated }
func (RunAcknowledged) Kind() string      { return KindRunAcknowledged }
func (StakeCommitted) Kind() string       { return KindStakeCommitted }
func (WagerSettled) Kind() string         { return KindWagerSettled }
func (SessionCredited) Kind() string      { return KindSessionCredited }
func (BlackjackSet) Kind() string         { return KindBlackjackSet }
func (HighLowSet) Kind() string           { return KindHighLowSet }
func (RemoteWagerConfirmed) Kind() string { return KindRemoteWagerConfirmed }
func (Admitted) Kind() string             { return KindAdmitted }
func (CustodyUpdated) Kind() string       { return KindCustodyUpdated }
func (Ticked) Kind() string               { return KindTicked }
func (MinigameSet) Kind() string          { return KindMinigameSet }
func (CrewHired) Kind() string            { return KindCrewHired }
func (BonusToggled) Kind() string         { return KindBonusToggled }
func (ContactSet) Kind() string           { return KindContactSet }
func (GameEnded) Kind() string            { return KindGameEnded }
func (Loaded) Kind() string               { return KindLoaded }
