// Package disambiguate separates particles and keywords that are written
// directly after a declared name: 사람을 becomes 사람 and 을 when 사람 is
// declared and 을 belongs to the grammar. Both passes return a new token list
// and leave their input untouched.
package disambiguate

import (
	"github.com/tliron/commonlog"

	"github.com/dhamidi/yaksok/token"
)

var log = commonlog.GetLogger("yaksok.disambiguate")

// Remap maps each index of an old token list to its index in the new list.
// A split token maps to its first half.
type Remap []int

// Index translates old, returning -1 when it is out of range.
func (r Remap) Index(old int) int {
	if old < 0 || old >= len(r) {
		return -1
	}
	return r[old]
}

// Then composes r with a remap of the list r produced.
func (r Remap) Then(next Remap) Remap {
	out := make(Remap, len(r))
	for i, mid := range r {
		out[i] = next.Index(mid)
	}
	return out
}

// identity is the remap of an unchanged list of n tokens.
func identity(n int) Remap {
	r := make(Remap, n)
	for i := range r {
		r[i] = i
	}
	return r
}

// applySplits rebuilds tokens, cutting every token that starts at a key of
// splits after the mapped prefix.
func applySplits(tokens []token.Token, splits map[token.Position]string) ([]token.Token, Remap) {
	if len(splits) == 0 {
		return tokens, identity(len(tokens))
	}
	out := make([]token.Token, 0, len(tokens)+len(splits))
	remap := make(Remap, len(tokens))
	for i, tok := range tokens {
		remap[i] = len(out)
		prefix, ok := splits[tok.Pos]
		if !ok || tok.Kind != token.Identifier || len(prefix) >= len(tok.Text) {
			out = append(out, tok)
			continue
		}
		head, tail := tok.Split(prefix)
		out = append(out, head, tail)
	}
	return out, remap
}
