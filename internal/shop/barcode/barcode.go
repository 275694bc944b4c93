// Package barcode generates the 9-digit numeric codes used to identify
// inventory items, repair tickets and completed sales.
package barcode

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Length is the fixed rendered width of every code.
const Length = 9

// space is the size of the code space: codes are uniform in [0, 1e9).
const space = 1_000_000_000

// maxDraws bounds the uniqueness retry loop. Collisions in a 1e9 space
// are already unlikely; hitting the bound means the probe is broken or
// the table is absurdly full.
const maxDraws = 8

var ErrExhausted = errors.New("barcode: no unique code after retries")

// Generator draws uniformly distributed 9-digit decimal codes,
// left-padded with zeros. Safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeeded returns a deterministic generator, used in tests.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Next returns a fresh code with no uniqueness guarantee.
func (g *Generator) Next() string {
	g.mu.Lock()
	n := g.rnd.Int63n(space)
	g.mu.Unlock()
	return fmt.Sprintf("%0*d", Length, n)
}

// NextUnique draws codes until the exists probe rejects one, retrying a
// bounded number of times. The probe is expected to check every table
// that shares the code space.
func (g *Generator) NextUnique(exists func(code string) (bool, error)) (string, error) {
	for i := 0; i < maxDraws; i++ {
		code := g.Next()
		used, err := exists(code)
		if err != nil {
			return "", errors.Wrap(err, "barcode: uniqueness probe failed")
		}
		if !used {
			return code, nil
		}
	}
	return "", ErrExhausted
}
