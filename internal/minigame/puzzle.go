package minigame

import (
	"time"

	"github.com/xtding233/underworld-engine/internal/roll"
)

// Grid is a rotation puzzle: every tile holds a quarter-turn offset 0–3
// and the puzzle is solved when all offsets are 0.
type Grid [][]int

// NewGrid scrambles a size×size grid. At least one tile is always turned.
func NewGrid(size int, rng roll.RandomSource) Grid {
	if size < 1 {
		size = 1
	}
	if rng == nil {
		rng = roll.DefaultRNG()
	}
	g := make(Grid, size)
	turned := false
	for y := range g {
		g[y] = make([]int, size)
		for x := range g[y] {
			g[y][x] = roll.IntN(rng, 4)
			if g[y][x] != 0 {
				turned = true
			}
		}
	}
	if !turned {
		g[0][0] = 1
	}
	return g
}

// Rotate turns tile (x, y) one quarter clockwise. Out-of-range taps are
// ignored.
func (g Grid) Rotate(x, y int) {
	if y < 0 || y >= len(g) || x < 0 || x >= len(g[y]) {
		return
	}
	g[y][x] = (g[y][x] + 1) % 4
}

// Move is one quarter turn of tile (X, Y).
type Move struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Apply returns a copy of g with moves played in order. g is unchanged.
func (g Grid) Apply(moves []Move) Grid {
	out := make(Grid, len(g))
	for y := range g {
		out[y] = append([]int(nil), g[y]...)
	}
	for _, m := range moves {
		out.Rotate(m.X, m.Y)
	}
	return out
}

// Solved reports whether every tile is aligned.
func (g Grid) Solved() bool {
	for _, row := range g {
		for _, v := range row {
			if v != 0 {
				return false
			}
		}
	}
	return true
}

// HitReflex reports whether a press landed inside the window around the
// target moment.
func HitReflex(p Params, offset time.Duration) bool {
	if offset < 0 {
		offset = -offset
	}
	return offset <= p.Window
}

// WonTapContest reports whether enough taps were made.
func WonTapContest(p Params, taps int) bool {
	return taps >= p.Taps
}
