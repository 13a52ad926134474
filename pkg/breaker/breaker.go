package breaker

import (
	"errors"
	"sync"
	"time"
)

var ErrOpen = errors.New("circuit breaker is open")

type state uint8

const (
	closed state = iota
	open
	halfOpen
)

// Breaker is a sliding-window circuit breaker: once the failure share over
// the last window exceeds threshold it opens, after cooldown it lets probe
// calls through and closes again after recovery consecutive successes.
type Breaker struct {
	mu sync.Mutex

	st        state
	window    []bool
	pos       int
	threshold float64
	cooldown  time.Duration
	recovery  int

	openedAt  time.Time
	successes int
}

func New(window int, cooldown time.Duration, threshold float64, recovery int) *Breaker {
	return &Breaker{
		st:        closed,
		window:    make([]bool, window),
		threshold: threshold,
		cooldown:  cooldown,
		recovery:  recovery,
	}
}

func (b *Breaker) Call(fn func() error) error {
	b.mu.Lock()
	if b.st == open {
		if time.Since(b.openedAt) <= b.cooldown {
			b.mu.Unlock()
			return ErrOpen
		}
		b.st = halfOpen
		b.successes = 0
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()

	b.window[b.pos] = err != nil
	b.pos = (b.pos + 1) % len(b.window)

	if b.st == halfOpen {
		if err != nil {
			b.trip()
		} else if b.successes++; b.successes > b.recovery {
			b.Reset()
		}
		return err
	}

	fails := 0
	for _, failed := range b.window {
		if failed {
			fails++
		}
	}
	if float64(fails)/float64(len(b.window)) >= b.threshold {
		b.trip()
	}
	return err
}

func (b *Breaker) trip() {
	b.st = open
	b.successes = 0
	b.openedAt = time.Now()
}

// Reset closes the breaker and clears the window. Callers must hold no
// expectations about in-flight calls.
func (b *Breaker) Reset() {
	for i := range b.window {
		b.window[i] = false
	}
	b.pos = 0
	b.successes = 0
	b.st = closed
}
