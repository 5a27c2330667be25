package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeChanceScenario(t *testing.T) {
	ctx := Context{
		Stats: PlayerStats{Brains: 10},
		Crew:  []CrewMember{{ID: "c1", Role: RoleHacker, HitPoints: 50, Loyalty: 80}},
	}
	eff := EscapeChance(ctx)

	assert.Equal(t, 30, eff.Base)
	require.Len(t, eff.Modifiers, 2)
	assert.Equal(t, Modifier{Label: "Brains 10 × 3", Source: SourceStat, Value: 30}, eff.Modifiers[0])
	assert.Equal(t, Modifier{Label: "Crew: Hacker", Source: SourceCrew, Value: 10}, eff.Modifiers[1])
	assert.Equal(t, 40, eff.Adjustment())
	assert.Equal(t, 70, eff.Chance())
	assert.Equal(t, 70, eff.Capped(EscapeChanceCap))
}

func TestEscapeChanceDisplayCapped(t *testing.T) {
	ctx := Context{
		Stats:      PlayerStats{Brains: 20},
		Crew:       []CrewMember{{Role: RoleHacker, HitPoints: 1}},
		Facilities: []Facility{FacilityTunnel},
	}
	eff := EscapeChance(ctx)
	assert.Equal(t, 100, eff.Chance())
	assert.Equal(t, 95, eff.Capped(EscapeChanceCap))

	tunnel, ok := eff.Find(SourceFacility)
	require.True(t, ok)
	assert.Equal(t, 15, tunnel.Value)
}

func TestIncapacitatedCrewGivesNoBonus(t *testing.T) {
	ctx := Context{Crew: []CrewMember{{Role: RoleHacker, HitPoints: 0}}}
	eff := EscapeChance(ctx)
	assert.Empty(t, eff.Modifiers)
	assert.Equal(t, 30, eff.Chance())
}

func TestCrewRoleCountedOnce(t *testing.T) {
	ctx := Context{Crew: []CrewMember{
		{ID: "a", Role: RoleHacker, HitPoints: 10},
		{ID: "b", Role: RoleHacker, HitPoints: 10},
	}}
	eff := EscapeChance(ctx)
	require.Len(t, eff.Modifiers, 1)
	assert.Equal(t, 10, eff.Adjustment())
}

func TestStreetEventFivePerPoint(t *testing.T) {
	eff := StreetEventChance(StatCharm, 60, Context{Stats: PlayerStats{Charm: 3}})
	assert.Equal(t, 40, eff.Base)
	assert.Equal(t, 15, eff.Adjustment())
	assert.Equal(t, 55, eff.Chance())
}

func TestStatBoundRolesOnlyHelpMatchingStat(t *testing.T) {
	crew := []CrewMember{
		{Role: RoleEnforcer, HitPoints: 5},
		{Role: RoleHacker, HitPoints: 5},
	}
	eff := Resolve(ActionHeistPhase, StatBrains, 50, Context{Crew: crew})
	require.Len(t, eff.Modifiers, 1)
	assert.Equal(t, "Crew: Hacker", eff.Modifiers[0].Label)
}

func TestModifiersSumToAdjustment(t *testing.T) {
	ctx := Context{
		Stats:      PlayerStats{Brains: 4},
		Crew:       []CrewMember{{Role: RoleDriver, HitPoints: 3}},
		Weather:    WeatherStorm,
		Facilities: []Facility{FacilityGarage},
		Approach:   &Approach{ID: "quiet", Label: "Quiet", Bonus: 7},
		Equipment:  []Equipment{{Name: "Nitro", Kind: ActionRace, Bonus: 4}},
	}
	eff := RaceChance(ctx)

	sum := 0
	for _, m := range eff.Modifiers {
		sum += m.Value
	}
	assert.Equal(t, sum, eff.Adjustment())
	// brains 8, driver 10, storm -15, garage 5, approach 7, nitro 4
	assert.Equal(t, 19, eff.Adjustment())
	assert.Equal(t, 54, eff.Chance())
}

func TestArmWrestleOpponentPenalty(t *testing.T) {
	eff := ArmWrestleChance(5, Context{Stats: PlayerStats{Muscle: 5}})
	assert.Equal(t, 40+20-15, eff.Chance())
	pen, ok := eff.Find(SourcePenalty)
	require.True(t, ok)
	assert.Equal(t, -15, pen.Value)
}

func TestChoiceBaseClamps(t *testing.T) {
	assert.Equal(t, 100, ChoiceBase(-5))
	assert.Equal(t, 0, ChoiceBase(150))
	assert.Equal(t, 35, ChoiceBase(65))
}

func TestNegativeStatsTreatedAsZero(t *testing.T) {
	assert.Equal(t, 0, PlayerStats{Muscle: -3}.Get(StatMuscle))
	assert.Equal(t, 0, PlayerStats{}.Get(Stat("luck")))
}
