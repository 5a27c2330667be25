package roll

import (
	"errors"
	"math"
)

var ErrInvalidChance = errors.New("invalid chance; must be 0..100")

func validateProb(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return ErrInvalidProb
	}
	if p < 0 || p > 1 {
		return ErrInvalidProb
	}
	return nil
}

func validateBand(band int) error {
	if band < 0 || band > 100 {
		return ErrInvalidChance
	}
	return nil
}

// ClampPct bounds v to [0, 100].
func ClampPct(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
