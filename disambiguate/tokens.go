package disambiguate

import (
	"strings"

	"github.com/dhamidi/yaksok/header"
	"github.com/dhamidi/yaksok/token"
)

// SplitTokens is the token level pass. It scans once, treating an
// identifier as declared from the moment it is followed by an assignment.
// Every later identifier that ends in a vocabulary word and whose remaining
// prefix is a declared name is split in two. vocabulary must be ordered
// longest first; the first word that fits wins. Declaration headers are left
// alone.
func SplitTokens(tokens []token.Token, vocabulary []string) ([]token.Token, Remap) {
	ranges := header.Ranges(tokens)
	declared := map[string]bool{}
	splits := map[token.Position]string{}

	r := 0
	for i, tok := range tokens {
		for r < len(ranges) && ranges[r].End <= i {
			r++
		}
		if tok.Kind != token.Identifier || (r < len(ranges) && ranges[r].Contains(i)) {
			continue
		}
		if followedByAssigner(tokens, i) {
			declared[tok.Text] = true
			continue
		}
		if len(declared) == 0 || declared[tok.Text] {
			continue
		}
		for _, suffix := range vocabulary {
			if len(suffix) >= len(tok.Text) || !strings.HasSuffix(tok.Text, suffix) {
				continue
			}
			prefix := strings.TrimSuffix(tok.Text, suffix)
			if declared[prefix] {
				splits[tok.Pos] = prefix
				break
			}
		}
	}

	if len(splits) > 0 {
		log.Debugf("token pass split %d identifiers", len(splits))
	}
	return applySplits(tokens, splits)
}

func followedByAssigner(tokens []token.Token, i int) bool {
	for j := i + 1; j < len(tokens); j++ {
		switch tokens[j].Kind {
		case token.Space:
			continue
		case token.Assigner:
			return true
		}
		return false
	}
	return false
}
