package stats

// Escape tuning.
const (
	EscapeBaseChance = 30
	EscapeChanceCap  = 95
	ArmWrestleBase   = 40
	RaceBase         = 35
	OpponentPerStrPt = 3
)

// EscapeChance resolves a prison escape: base 30 plus 3 per brains point,
// crew, weather and facility bonuses.
func EscapeChance(ctx Context) Effective {
	return Resolve(ActionEscape, StatBrains, EscapeBaseChance, ctx)
}

// StreetEventChance resolves a street-event choice with +5 per stat point.
func StreetEventChance(s Stat, difficulty int, ctx Context) Effective {
	return Resolve(ActionStreetEvent, s, ChoiceBase(difficulty), ctx)
}

// ArmWrestleChance resolves an arm-wrestle against an opponent of the given
// strength.
func ArmWrestleChance(opponentStrength int, ctx Context) Effective {
	eff := Resolve(ActionArmWrestle, StatMuscle, ArmWrestleBase, ctx)
	if opponentStrength > 0 {
		eff = eff.With(Modifier{
			Label:  "Opponent",
			Source: SourcePenalty,
			Value:  -opponentStrength * OpponentPerStrPt,
		})
	}
	return eff
}

// RaceChance resolves a street race.
func RaceChance(ctx Context) Effective {
	return Resolve(ActionRace, StatBrains, RaceBase, ctx)
}
