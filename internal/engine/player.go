package engine

import (
	"github.com/google/uuid"

	"github.com/xtding233/underworld-engine/internal/apperr"
	"github.com/xtding233/underworld-engine/internal/state"
	"github.com/xtding233/underworld-engine/internal/stats"
)

// Crew hiring.
const (
	HireCost       = 500
	RecruitHP      = 10
	RecruitLoyalty = 50
)

// HireCrew recruits a member with role.
func (e *Engine) HireCrew(name string, role stats.Role) (stats.CrewMember, state.GameState, error) {
	m := stats.CrewMember{ID: uuid.NewString(), Name: name, Role: role, HitPoints: RecruitHP, Loyalty: RecruitLoyalty}
	next, err := e.update("hire crew", func(s state.GameState) ([]state.Action, error) {
		if err := requireFree(s); err != nil {
			return nil, err
		}
		if _, ok := role.Spec(); !ok {
			return nil, apperr.WithMetadata(apperr.CodeNotFound, "unknown role", map[string]string{"role": string(role)})
		}
		if name == "" {
			return nil, apperr.New(apperr.CodeIllegalTransition, "crew member needs a name")
		}
		return []state.Action{state.CrewHired{Member: m, Cost: HireCost}}, nil
	})
	return m, next, err
}

// ToggleBonus grants or revokes a configured casino bonus source.
func (e *Engine) ToggleBonus(name string, active bool) (state.GameState, error) {
	t := e.Tuning()
	return e.update("toggle bonus", func(s state.GameState) ([]state.Action, error) {
		if _, ok := t.Bonuses[name]; !ok && active {
			return nil, apperr.WithMetadata(apperr.CodeNotFound, "unknown bonus", map[string]string{"bonus": name})
		}
		return []state.Action{state.BonusToggled{Name: name, Active: active}}, nil
	})
}

// SetContact toggles the favourable contact that discounts release.
func (e *Engine) SetContact(active bool) (state.GameState, error) {
	return e.update("set contact", func(state.GameState) ([]state.Action, error) {
		return []state.Action{state.ContactSet{Active: active}}, nil
	})
}
