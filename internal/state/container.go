package state

import (
	"sync"
	"time"

	"github.com/xtding233/underworld-engine/internal/apperr"
)

// Surface identifies an interactive area that stages reveals.
type Surface string

const (
	SurfaceMission  Surface = "mission"
	SurfaceCasino   Surface = "casino"
	SurfaceCustody  Surface = "custody"
	SurfaceMinigame Surface = "minigame"
)

// Listener observes applied actions, e.g. to autosave.
type Listener func(next GameState, applied []Action)

// Container is the single writer of GameState.
type Container struct {
	mu        sync.Mutex
	state     GameState
	reveals   map[Surface]time.Time
	listeners []Listener
}

// NewContainer wraps an initial state.
func NewContainer(initial GameState) *Container {
	return &Container{
		state:   initial.clone(),
		reveals: make(map[Surface]time.Time),
	}
}

// Snapshot returns a copy of the current state.
func (c *Container) Snapshot() GameState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Subscribe registers l for every successful dispatch.
func (c *Container) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Dispatch applies actions atomically.
func (c *Container) Dispatch(actions ...Action) (GameState, error) {
	return c.Update(func(GameState) ([]Action, error) { return actions, nil })
}

// Update computes actions from the current snapshot and applies them
// under one lock, so no other dispatch can interleave between read and
// write. If fn or any action fails, nothing is applied.
func (c *Container) Update(fn func(GameState) ([]Action, error)) (GameState, error) {
	c.mu.Lock()
	actions, err := fn(c.state.clone())
	if err != nil {
		cur := c.state.clone()
		c.mu.Unlock()
		return cur, err
	}
	next, err := ReduceAll(c.state, actions...)
	if err != nil {
		cur := c.state.clone()
		c.mu.Unlock()
		return cur, err
	}
	c.state = next
	listeners := append([]Listener(nil), c.listeners...)
	out := next.clone()
	c.mu.Unlock()

	if len(actions) > 0 {
		for _, l := range listeners {
			l(out, actions)
		}
	}
	return out, nil
}

// BeginReveal marks surface busy until now+d. It fails while a previous
// reveal on the same surface is still showing.
func (c *Container) BeginReveal(s Surface, now time.Time, d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if until, ok := c.reveals[s]; ok && now.Before(until) {
		return apperr.WithMetadata(apperr.CodeRevealPending, "reveal in progress", map[string]string{"surface": string(s)})
	}
	if d <= 0 {
		delete(c.reveals, s)
		return nil
	}
	c.reveals[s] = now.Add(d)
	return nil
}

// EndReveal frees surface early.
func (c *Container) EndReveal(s Surface) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.reveals, s)
}

// RevealPending reports whether surface is busy at now.
func (c *Container) RevealPending(s Surface, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	until, ok := c.reveals[s]
	return ok && now.Before(until)
}
