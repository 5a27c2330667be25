package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/underworld-engine/internal/casino"
	"github.com/xtding233/underworld-engine/internal/incarceration"
	"github.com/xtding233/underworld-engine/internal/mission"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestBuiltinIsValid(t *testing.T) {
	raw, err := Builtin()
	require.NoError(t, err)
	require.NoError(t, ValidateRaw(raw))

	tun := Resolve(raw)
	assert.Equal(t, 30*time.Minute, tun.Incarceration.TickInterval)
	assert.Equal(t, casino.DefaultLadder, tun.Ladder)
	assert.Equal(t, 10000, tun.JackpotFloor)
	assert.Equal(t, incarceration.DefaultRules(), tun.Incarceration)

	heist, ok := tun.Mission("first_national")
	require.True(t, ok)
	assert.Equal(t, mission.KindHeist, heist.Kind)
	assert.Len(t, heist.Approaches, 2)
	assert.Equal(t, mission.RuleAnyFailFails, heist.AggregateRule())

	_, ok = tun.Mission("mugging")
	assert.True(t, ok)
}

func TestLoaderMergesProfile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "default.yaml"), `
casino:
  jackpot_floor: 20000
  limits:
    slots: {max: 1000}
bonuses:
  vip_gold: 12
`)
	writeFile(t, filepath.Join(dir, "profiles", "hard.yaml"), `
incarceration:
  tick_minutes: 10
  escape_day_penalty: 5
missions:
  - id: docks_delivery
    title: Hard Docks
    kind: mission
    category: transport
    encounters:
      - id: only
        choices:
          - {id: go, stat: muscle, difficulty: 90, effects: {money: 100}}
`)
	l := NewLoader(dir)
	tun, err := l.Load("hard")
	require.NoError(t, err)

	assert.Equal(t, 20000, tun.JackpotFloor)
	assert.Equal(t, casino.Limits{Min: 5, Max: 1000}, tun.LimitsFor(casino.KindSlots))
	assert.Equal(t, 12, tun.Bonuses["vip_gold"])
	assert.Equal(t, 5, tun.Bonuses["vip_silver"], "builtin bonuses survive the overlay")
	assert.Equal(t, 10*time.Minute, tun.Incarceration.TickInterval)
	assert.Equal(t, 5, tun.Incarceration.EscapeDayPenalty)
	assert.Equal(t, 20, tun.Incarceration.EscapeHeatPenalty)

	docks, ok := tun.Mission("docks_delivery")
	require.True(t, ok)
	assert.Equal(t, "Hard Docks", docks.Title)
	assert.Equal(t, "docks_delivery", tun.Missions[0].ID, "replaced in place")

	def, err := l.Load("default")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, def.Incarceration.TickInterval)
}

func TestLoaderCacheAndInvalidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "default.yaml")
	writeFile(t, path, "casino: {jackpot_floor: 15000}\n")
	l := NewLoader(dir)

	tun, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, 15000, tun.JackpotFloor)

	writeFile(t, path, "casino: {jackpot_floor: 16000}\n")
	tun, _ = l.Load("")
	assert.Equal(t, 15000, tun.JackpotFloor, "served from cache")

	l.Invalidate()
	tun, _ = l.Load("")
	assert.Equal(t, 16000, tun.JackpotFloor)
}

func TestLoaderMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "default.yaml"), "casino: [oops\n")
	_, err := NewLoader(dir).Load("")
	assert.Error(t, err)
}

func TestValidateRawCollectsErrors(t *testing.T) {
	neg := -1
	zero := 0
	big := 1_000_000
	cfg := RawConfig{
		Casino: &CasinoRaw{
			Limits:       map[string]LimitsRaw{"poker": {}, "slots": {Max: &big}, "roulette": {Min: &zero}},
			JackpotFloor: &neg,
			Ladder:       []int{100, 90},
		},
		Bonuses: map[string]int{"mega": 40},
		Incarceration: &IncarcerationRaw{
			TickMinutes:        &zero,
			ContactDiscountPct: &big,
		},
		Missions: []mission.Mission{{ID: "x", Kind: mission.KindMission, Category: mission.CategoryRobbery}},
	}
	err := ValidateRaw(cfg)
	require.Error(t, err)
	for _, want := range []string{
		"casino.limits.poker: unknown game",
		"casino.limits.slots.max must not exceed table ceiling",
		"casino.limits.roulette.min must be > 0",
		"casino.jackpot_floor must be > 0",
		"casino.high_low_ladder[1]",
		"bonuses.mega",
		"incarceration.tick_minutes must be > 0",
		"incarceration.contact_discount_pct must be in [0,100]",
		"missions: x: no encounters",
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestBonusSet(t *testing.T) {
	tun := Tuning{Bonuses: map[string]int{"vip_gold": 10, "casino_owner": 10, "lucky_charm": 3}}
	set := tun.BonusSet([]string{"vip_gold", "casino_owner", "unknown"})
	assert.Len(t, set, 2)
	assert.Equal(t, 20, set.Uncapped())
	assert.Equal(t, casino.MaxBonusPct, set.Total())
}

func TestWithTick(t *testing.T) {
	raw, err := Builtin()
	require.NoError(t, err)
	tun := Resolve(raw).WithTick(5 * time.Minute)
	assert.Equal(t, 5*time.Minute, tun.Incarceration.TickInterval)
	assert.Equal(t, 5*time.Minute, tun.WithTick(0).Incarceration.TickInterval)
}

func TestParseEnvDefaults(t *testing.T) {
	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, ":8080", s.Addr)
	assert.Equal(t, "default", s.Profile)
	assert.Zero(t, s.TickMinutes)
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("UW_TICK_MINUTES", "15")
	t.Setenv("UW_SEED", "42")
	t.Setenv("LOG_LEVEL", "debug")
	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, 15, s.TickMinutes)
	assert.Equal(t, uint64(42), s.Seed)
	assert.Equal(t, "DEBUG", s.SlogLevel().String())
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("UW_TICK_MINUTES", "soon")
	_, err := LoadSettings()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestFileWatcherScan(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "default.yaml")
	writeFile(t, path, "version: a\n")

	var changed []string
	w := NewFileWatcher([]string{path, filepath.Join(dir, "missing.yaml")}, time.Second, func(p string) {
		changed = append(changed, p)
	})
	w.scanAll(true)
	assert.Empty(t, changed)

	w.scanAll(false)
	assert.Empty(t, changed, "unchanged mtime")

	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))
	w.scanAll(false)
	assert.Equal(t, []string{path}, changed)
}

func TestShippedProfilesLoad(t *testing.T) {
	l := NewLoader(filepath.Join("..", "..", "configs"))
	for _, profile := range []string{"default", "hard"} {
		_, err := l.Load(profile)
		assert.NoError(t, err, profile)
	}

	hard, err := l.Load("hard")
	require.NoError(t, err)
	assert.Equal(t, 70, hard.Incarceration.ArrestHeat)
	assert.Equal(t, 3, hard.Incarceration.MaxAdmissions[incarceration.KindPrison])
	assert.Equal(t, casino.Limits{Min: 100, Max: 50000}, hard.LimitsFor(casino.KindRace))
}
