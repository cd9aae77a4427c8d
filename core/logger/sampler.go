package logger

import (
	"strconv"
	"strings"
	"sync"
)

// ratioSampler admits the first numerator events out of every
// denominator, then starts a new window. A zero ratio disables
// sampling and every event passes.
type ratioSampler struct {
	mu          sync.Mutex
	numerator   int
	denominator int
	counter     int
}

func newRatioSampler(numerator, denominator int) *ratioSampler {
	s := &ratioSampler{}
	s.Set(numerator, denominator)
	return s
}

// Set replaces the ratio and restarts the window. Non-positive values
// disable sampling; a numerator above the denominator is clamped.
func (s *ratioSampler) Set(numerator, denominator int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if numerator <= 0 || denominator <= 0 {
		s.numerator = 0
		s.denominator = 0
		s.counter = 0
		return
	}
	if numerator > denominator {
		numerator = denominator
	}
	s.numerator = numerator
	s.denominator = denominator
	s.counter = 0
}

// Allow reports whether the current event falls inside the admitted
// part of the window.
func (s *ratioSampler) Allow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.denominator <= 0 || s.numerator <= 0 {
		return true
	}
	s.counter++
	if s.counter > s.denominator {
		s.counter = 1
	}
	return s.counter <= s.numerator
}

// parseRatioSpec accepts "N/M" or a bare "N" meaning 1/N. Anything
// else, including non-positive values, yields the disabled ratio 0/0.
func parseRatioSpec(spec string) (num, den int) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0, 0
	}
	if n, d, ok := strings.Cut(spec, "/"); ok {
		a, err1 := strconv.Atoi(strings.TrimSpace(n))
		b, err2 := strconv.Atoi(strings.TrimSpace(d))
		if err1 == nil && err2 == nil {
			return a, b
		}
		return 0, 0
	}
	if v, err := strconv.Atoi(spec); err == nil && v > 0 {
		return 1, v
	}
	return 0, 0
}
