// Package state owns the game state snapshot and the single reducer that
// mutates it. Engine code computes tagged actions from a snapshot; only
// Reduce applies them.
package state

import (
	"time"

	"github.com/xtding233/underworld-engine/internal/casino"
	"github.com/xtding233/underworld-engine/internal/incarceration"
	"github.com/xtding233/underworld-engine/internal/minigame"
	"github.com/xtding233/underworld-engine/internal/mission"
	"github.com/xtding233/underworld-engine/internal/stats"
)

// Tuning shared by the reducer.
const (
	MaxFeed          = 50
	HeatDecayPerDay  = 2
	VehicleDecay     = 1
	LoyaltyOnSuccess = 2
	LoyaltyOnFailure = 5
	DefaultMaxHealth = 100
)

// Player is the protagonist's persistent record.
type Player struct {
	Name        string            `json:"name"`
	Level       int               `json:"level"`
	XP          int               `json:"xp"`
	Stats       stats.PlayerStats `json:"stats"`
	Health      int               `json:"health"`
	MaxHealth   int               `json:"max_health"`
	Money       int               `json:"money"`
	Dirty       int               `json:"dirty"`
	Goods       int               `json:"goods"`
	Heat        int               `json:"heat"`
	VehicleHeat int               `json:"vehicle_heat"`
	Bonuses     []string          `json:"bonuses"`
	Contact     bool              `json:"contact"`
	Equipment   []stats.Equipment `json:"equipment"`
	Facilities  []stats.Facility  `json:"facilities"`
}

// Sessions are the ephemeral multi-step wagers and minigames.
type Sessions struct {
	Blackjack *casino.Blackjack `json:"blackjack,omitempty"`
	HighLow   *casino.HighLow   `json:"high_low,omitempty"`
	Minigame  *minigame.Session `json:"minigame,omitempty"`
}

// GameState is the whole snapshot.
type GameState struct {
	Version       int                        `json:"version"`
	Day           int                        `json:"day"`
	LastTick      time.Time                  `json:"last_tick"`
	Weather       stats.Weather              `json:"weather"`
	District      string                     `json:"district"`
	Player        Player                     `json:"player"`
	Crew          []stats.CrewMember         `json:"crew"`
	Run           *mission.Run               `json:"run,omitempty"`
	Incarceration *incarceration.Record      `json:"incarceration,omitempty"`
	Admissions    map[incarceration.Kind]int `json:"admissions"`
	Jackpot       casino.Jackpot             `json:"jackpot"`
	Sessions      Sessions                   `json:"sessions"`
	GameOver      bool                       `json:"game_over"`
	Legacy        *incarceration.Legacy      `json:"legacy,omitempty"`
	Feed          []string                   `json:"feed"`
}

// New returns a fresh game.
func New(name string, now time.Time, jackpotFloor int) GameState {
	return GameState{
		Day:      1,
		LastTick: now,
		Weather:  stats.WeatherClear,
		District: "downtown",
		Player: Player{
			Name:      name,
			Level:     1,
			Health:    DefaultMaxHealth,
			MaxHealth: DefaultMaxHealth,
			Money:     1000,
			Stats:     stats.PlayerStats{Muscle: 1, Brains: 1, Charm: 1},
		},
		Admissions: make(map[incarceration.Kind]int),
		Jackpot:    casino.NewJackpot(jackpotFloor),
	}
}

// Context is the stat-resolution input for the current snapshot.
func (s GameState) Context() stats.Context {
	return stats.Context{
		Stats:      s.Player.Stats,
		Crew:       s.Crew,
		Weather:    s.Weather,
		Facilities: s.Player.Facilities,
		Equipment:  s.Player.Equipment,
	}
}

// Locked reports whether the player is in custody or care.
func (s GameState) Locked() bool {
	return s.Incarceration != nil && !s.Incarceration.Released()
}

// clone copies every slice and map the reducer may write to, so earlier
// snapshots stay untouched.
func (s GameState) clone() GameState {
	out := s
	out.Crew = append([]stats.CrewMember(nil), s.Crew...)
	out.Feed = append([]string(nil), s.Feed...)
	out.Player.Bonuses = append([]string(nil), s.Player.Bonuses...)
	out.Player.Equipment = append([]stats.Equipment(nil), s.Player.Equipment...)
	out.Player.Facilities = append([]stats.Facility(nil), s.Player.Facilities...)
	out.Admissions = make(map[incarceration.Kind]int, len(s.Admissions))
	for k, v := range s.Admissions {
		out.Admissions[k] = v
	}
	return out
}

func (s *GameState) feed(line string) {
	s.Feed = append(s.Feed, line)
	if len(s.Feed) > MaxFeed {
		s.Feed = s.Feed[len(s.Feed)-MaxFeed:]
	}
}
