// Package tracking generates the human-shareable opportunity codes
// (PREFIX-YEAR-NNNNN).
package tracking

import (
	"context"
	"fmt"
	"math/rand/v2"
	"regexp"
	"sync"
	"time"
)

// Pattern matches every code the generator produces.
var Pattern = regexp.MustCompile(`^[A-Z]+-\d{4}-\d{5}$`)

const suffixSpace = 100000

// Reserver claims a code before it is used. Implementations return false
// when the code is already taken.
type Reserver interface {
	Reserve(ctx context.Context, code string, year int) (bool, error)
}

// Generator draws random codes. It never returns the same code twice in a
// row and, when a Reserver is set, skips codes another process already claimed.
type Generator struct {
	prefix   string
	reserver Reserver
	now      func() time.Time
	intN     func(n int) int

	mu   sync.Mutex
	last string
}

// Option configures a Generator.
type Option func(*Generator)

// WithReserver enables cross-process reservation.
func WithReserver(r Reserver) Option {
	return func(g *Generator) { g.reserver = r }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithRandom overrides the suffix source. Used by tests to force repeats.
func WithRandom(intN func(n int) int) Option {
	return func(g *Generator) { g.intN = intN }
}

func NewGenerator(prefix string, opts ...Option) *Generator {
	g := &Generator{
		prefix: prefix,
		now:    time.Now,
		intN:   rand.IntN,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// maxReserveAttempts bounds how many taken codes are skipped before giving up
// on reservation and falling back to the store's uniqueness check.
const maxReserveAttempts = 5

// Next returns a fresh code for the current year. Reservation failures never
// block: the code is still returned and the store's unique constraint has the
// final word.
func (g *Generator) Next(ctx context.Context) string {
	year := g.now().Year()
	code := g.draw(year)
	if g.reserver == nil {
		return code
	}
	for range maxReserveAttempts {
		ok, err := g.reserver.Reserve(ctx, code, year)
		if err != nil || ok {
			return code
		}
		code = g.draw(year)
	}
	return code
}

func (g *Generator) draw(year int) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	for {
		code := fmt.Sprintf("%s-%04d-%05d", g.prefix, year, g.intN(suffixSpace))
		if code != g.last {
			g.last = code
			return code
		}
	}
}
