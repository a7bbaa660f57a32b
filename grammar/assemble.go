package grammar

import (
	"cmp"
	"slices"
	"unicode/utf8"

	"github.com/dhamidi/yaksok/node"
)

// SourceKind orders rule sources. Among rules of equal pattern length, rules
// from an earlier kind win.
type SourceKind int

const (
	SourceExtension SourceKind = iota
	SourceDeclaration
	SourceLocal
	SourceMethod
	SourceMention
	SourcePrelude
)

var sourceKindNames = map[SourceKind]string{
	SourceExtension:   "extension",
	SourceDeclaration: "declaration",
	SourceLocal:       "local",
	SourceMethod:      "method",
	SourceMention:     "mention",
	SourcePrelude:     "prelude",
}

func (k SourceKind) String() string {
	return sourceKindNames[k]
}

// Source is one contribution of rules to a file's grammar.
type Source struct {
	Kind  SourceKind
	Name  string
	Rules []Rule
}

// Grammar is an assembled, immutable rule set.
type Grammar struct {
	levels     []Level
	vocabulary []string
	suffixes   []string
}

// Assemble combines the base grammar with sources. Extension and declaration
// rules join the declaration level; every other source is appended to each
// base level. Each level is sorted by descending pattern length, keeping
// assembly order for equal lengths: extensions, declarations, base, local
// invocations, methods, mentions, prelude. Sources of the same kind keep the
// order they were given in.
func Assemble(base Base, sources ...Source) *Grammar {
	ordered := slices.Clone(sources)
	slices.SortStableFunc(ordered, func(a, b Source) int {
		return cmp.Compare(a.Kind, b.Kind)
	})

	var front, dynamic []Rule
	for _, src := range ordered {
		rules := withSource(src)
		switch src.Kind {
		case SourceExtension, SourceDeclaration:
			front = append(front, rules...)
		default:
			dynamic = append(dynamic, rules...)
		}
	}

	g := &Grammar{}
	decl := append(slices.Clone(front), base.Declarations...)
	g.levels = append(g.levels, Level{Name: "declaration", Rules: sortRules(decl)})
	for _, level := range base.Levels {
		rules := append(slices.Clone(level.Rules), dynamic...)
		g.levels = append(g.levels, Level{Name: level.Name, Rules: sortRules(rules)})
	}

	g.vocabulary = collectVocabulary(g.levels)
	g.suffixes = collectSuffixes(append(front, dynamic...))
	return g
}

func withSource(src Source) []Rule {
	rules := slices.Clone(src.Rules)
	for i := range rules {
		if rules[i].Source == "" {
			rules[i].Source = src.Kind.String()
			if src.Name != "" {
				rules[i].Source += ":" + src.Name
			}
		}
	}
	return rules
}

func sortRules(rules []Rule) []Rule {
	slices.SortStableFunc(rules, func(a, b Rule) int {
		return cmp.Compare(len(b.Pattern), len(a.Pattern))
	})
	return rules
}

// Levels returns the rule levels in the order the parser runs them.
func (g *Grammar) Levels() []Level {
	return g.levels
}

// Vocabulary lists every identifier literal of every rule, longest first.
func (g *Grammar) Vocabulary() []string {
	return g.vocabulary
}

// HeaderSuffixes lists the literals that directly follow an argument in
// invocation rules, longest first. They are the particles that attach to the
// end of an argument.
func (g *Grammar) HeaderSuffixes() []string {
	return g.suffixes
}

func collectVocabulary(levels []Level) []string {
	seen := map[string]bool{}
	var out []string
	for _, level := range levels {
		for _, r := range level.Rules {
			for _, lit := range r.Literals() {
				if !seen[lit] {
					seen[lit] = true
					out = append(out, lit)
				}
			}
		}
	}
	return longestFirst(out)
}

func collectSuffixes(rules []Rule) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range rules {
		for i := 0; i+1 < len(r.Pattern); i++ {
			next := r.Pattern[i+1]
			if r.Pattern[i].Kind != node.KindEvaluable || next.Kind != node.KindIdentifier || next.Literal == "" {
				continue
			}
			if !seen[next.Literal] {
				seen[next.Literal] = true
				out = append(out, next.Literal)
			}
		}
	}
	return longestFirst(out)
}

// longestFirst sorts by descending length in codepoints, then by text.
func longestFirst(words []string) []string {
	slices.SortFunc(words, func(a, b string) int {
		if c := cmp.Compare(utf8.RuneCountInString(b), utf8.RuneCountInString(a)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return words
}
