package roll

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// RandomSource abstract
type RandomSource interface {
	Float64() float64 // [0, 1)
}

// crypto random : default generation method
type cryptoRNG struct{}

func (cryptoRNG) Float64() float64 {
	// Read 53bit random => [0, 1)
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		// back to math/rand/v2
		return rand.Float64()
	}
	u := binary.BigEndian.Uint64(buf[:]) >> 11 // 53 bits
	return float64(u) / (1 << 53)
}

func DefaultRNG() RandomSource { return cryptoRNG{} }

// Replicable RNG (e.g. Monte Carlo, tests)
type seededRNG struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// ScriptedRNG replays a fixed list of draws, cycling when exhausted.
// Tests use it to pin every outcome.
type ScriptedRNG struct {
	mu     sync.Mutex
	values []float64
	next   int
}

func NewScriptedRNG(values ...float64) *ScriptedRNG {
	if len(values) == 0 {
		values = []float64{0}
	}
	return &ScriptedRNG{values: values}
}

func (s *ScriptedRNG) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// IntN returns a uniform integer in [0, n). n <= 0 returns 0.
func IntN(rng RandomSource, n int) int {
	if n <= 0 {
		return 0
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	i := int(rng.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
