// Package casino resolves wagers: per-game base payouts, the capped
// VIP/ownership bonus on net profit, the shared jackpot pool and the
// multi-step sessions (blackjack, high-low).
//
// Every function here is pure. Callers pass the balance and pool they read
// from a state snapshot and apply the returned Settlement themselves.
package casino

// Kind names a wager game.
type Kind string

const (
	KindBlackjack       Kind = "blackjack"
	KindRoulette        Kind = "roulette"
	KindHighLow         Kind = "high_low"
	KindSlots           Kind = "slots"
	KindRace            Kind = "race"
	KindArmWrestle      Kind = "arm_wrestle"
	KindRussianRoulette Kind = "russian_roulette"
)

// Rule classifies how a game computes its base payout.
type Rule string

const (
	RuleDealerBeat Rule = "dealer_beat"
	RuleTable      Rule = "multiplier_table"
	RuleLadder     Rule = "ladder"
	RuleSkill      Rule = "skill_check"
	RuleRemote     Rule = "remote"
)

// Spec is the catalogue entry for a game.
type Spec struct {
	Label  string
	Icon   string
	Color  string
	Rule   Rule
	Limits Limits
	// Remote games are settled by the wager authority, never locally.
	Remote bool
}

var catalogue = map[Kind]Spec{
	KindBlackjack:       {Label: "Blackjack", Icon: "cards", Color: "#27ae60", Rule: RuleDealerBeat, Limits: Limits{Min: 10, Max: 50000}},
	KindRoulette:        {Label: "Roulette", Icon: "wheel", Color: "#c0392b", Rule: RuleTable, Limits: Limits{Min: 10, Max: 25000}},
	KindHighLow:         {Label: "High-Low", Icon: "arrows", Color: "#2980b9", Rule: RuleLadder, Limits: Limits{Min: 10, Max: 10000}},
	KindSlots:           {Label: "Slots", Icon: "cherry", Color: "#f39c12", Rule: RuleTable, Limits: Limits{Min: 5, Max: 5000}},
	KindRace:            {Label: "Street Race", Icon: "car", Color: "#7f8c8d", Rule: RuleSkill, Limits: Limits{Min: 100, Max: 100000}},
	KindArmWrestle:      {Label: "Arm Wrestle", Icon: "fist", Color: "#d35400", Rule: RuleSkill, Limits: Limits{Min: 20, Max: 20000}},
	KindRussianRoulette: {Label: "Russian Roulette", Icon: "revolver", Color: "#2c3e50", Rule: RuleRemote, Limits: Limits{Min: 100, Max: 100000}, Remote: true},
}

// Kinds lists every game in display order.
func Kinds() []Kind {
	return []Kind{KindBlackjack, KindRoulette, KindHighLow, KindSlots, KindRace, KindArmWrestle, KindRussianRoulette}
}

// Spec returns the catalogue entry; ok is false for unknown kinds.
func (k Kind) Spec() (Spec, bool) {
	s, ok := catalogue[k]
	return s, ok
}
