package grammar

import (
	"github.com/dhamidi/yaksok/node"
	"github.com/dhamidi/yaksok/token"
)

// Mentioned wraps the exported rules of file so they only match behind a
// mention of it: `@계산 (1)과 (2)를 더하기`. The wrapped rules are not
// exported again.
func Mentioned(file string, rules []Rule) []Rule {
	var out []Rule
	for _, r := range rules {
		if !r.Has(FlagExported) {
			continue
		}
		inner := r
		pattern := make([]Unit, 0, len(r.Pattern)+1)
		pattern = append(pattern, Unit{Kind: node.KindMention, Literal: file})
		pattern = append(pattern, r.Pattern...)
		out = append(out, Rule{
			Name:    "@" + file + " " + r.Name,
			Pattern: pattern,
			Flags:   r.Flags &^ FlagExported,
			Build: func(n []node.Node, toks []token.Token) node.Node {
				rest := n[1:]
				call := inner.Build(rest, node.TokensOf(rest))
				return node.NewMentionInvoke(file, call, toks)
			},
		})
	}
	return out
}

// Exported returns the rules of rules that carry FlagExported.
func Exported(rules []Rule) []Rule {
	var out []Rule
	for _, r := range rules {
		if r.Has(FlagExported) {
			out = append(out, r)
		}
	}
	return out
}
