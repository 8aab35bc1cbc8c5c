package games

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// RNG is the randomness source every game draws from
type RNG interface {
	// IntN returns a uniform int in [0, n)
	IntN(n int) int
	// Float64 returns a uniform float in [0, 1)
	Float64() float64
}

// lockedRNG makes a *rand.Rand safe to share between concurrent interactions
type lockedRNG struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRNG) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

func (l *lockedRNG) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// NewRNG returns a ChaCha8 generator seeded from the operating system
func NewRNG() RNG {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		panic("games: unable to seed RNG: " + err.Error())
	}
	return &lockedRNG{r: rand.New(rand.NewChaCha8(seed))}
}

// NewSeededRNG returns a deterministic generator for simulations
func NewSeededRNG(seed uint64) RNG {
	var s [32]byte
	binary.LittleEndian.PutUint64(s[:8], seed)
	return &lockedRNG{r: rand.New(rand.NewChaCha8(s))}
}

// ScriptedRNG replays fixed values. Used by tests to force outcomes.
type ScriptedRNG struct {
	mu     sync.Mutex
	Ints   []int
	Floats []float64
}

// NewScriptedRNG creates an RNG that returns ints and floats in order
func NewScriptedRNG(ints []int, floats ...float64) *ScriptedRNG {
	return &ScriptedRNG{Ints: ints, Floats: floats}
}

// IntN returns the next scripted int modulo n, or 0 once exhausted
func (s *ScriptedRNG) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Ints) == 0 {
		return 0
	}
	v := s.Ints[0]
	s.Ints = s.Ints[1:]
	return ((v % n) + n) % n
}

// Float64 returns the next scripted float, or 0 once exhausted
func (s *ScriptedRNG) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[0]
	s.Floats = s.Floats[1:]
	return v
}
