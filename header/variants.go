package header

import (
	"iter"
	"math"
	"slices"
)

type variantConfig struct {
	max int
}

type VariantOption func(*variantConfig)

// WithMaxVariants stops expansion after n combinations. Zero means no limit.
func WithMaxVariants(n int) VariantOption {
	return func(c *variantConfig) {
		c.max = n
	}
}

// Count is the number of combinations Variants yields without a limit. It
// saturates at math.MaxInt.
func Count(t *Template) int {
	n := 1
	for _, p := range t.Pieces {
		if !p.Varianted() {
			continue
		}
		c := len(p.Candidates)
		if n > math.MaxInt/c {
			return math.MaxInt
		}
		n *= c
	}
	return n
}

// Variants enumerates every assignment of one candidate to each varianted
// piece. Each yielded slice is a fresh copy of the template's pieces in which
// every static piece has exactly one candidate. Combinations are produced on
// demand; the first varianted piece changes slowest.
func Variants(t *Template, opts ...VariantOption) iter.Seq[[]Piece] {
	cfg := &variantConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var parts []int
	for i, p := range t.Pieces {
		if p.Varianted() {
			parts = append(parts, i)
		}
	}

	return func(yield func([]Piece) bool) {
		choice := make([]int, len(parts))
		for produced := 0; cfg.max <= 0 || produced < cfg.max; produced++ {
			pieces := slices.Clone(t.Pieces)
			for k, idx := range parts {
				p := pieces[idx]
				p.Candidates = []string{p.Candidates[choice[k]]}
				pieces[idx] = p
			}
			if !yield(pieces) {
				return
			}

			k := len(parts) - 1
			for ; k >= 0; k-- {
				choice[k]++
				if choice[k] < len(t.Pieces[parts[k]].Candidates) {
					break
				}
				choice[k] = 0
			}
			if k < 0 {
				return
			}
		}
	}
}
