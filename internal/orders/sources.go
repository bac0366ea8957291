package orders

import (
	"math/rand/v2"
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// CookingTimeSource hands out cooking durations in minutes.
type CookingTimeSource interface {
	CookingMinutes() uint32
}

// RandomRange draws uniformly from an inclusive range.
type RandomRange struct {
	min, max uint32
	mu       sync.Mutex
	rnd      *rand.Rand
}

func NewRandomRange(lo, hi uint32) *RandomRange {
	return NewSeededRange(lo, hi, rand.Uint64(), rand.Uint64())
}

func NewSeededRange(lo, hi uint32, seed1, seed2 uint64) *RandomRange {
	if hi < lo {
		lo, hi = hi, lo
	}
	return &RandomRange{min: lo, max: hi, rnd: rand.New(rand.NewPCG(seed1, seed2))}
}

func (r *RandomRange) CookingMinutes() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.min + uint32(r.rnd.IntN(int(r.max-r.min)+1))
}

// FixedCooking always returns the same duration.
type FixedCooking uint32

func (f FixedCooking) CookingMinutes() uint32 { return uint32(f) }
