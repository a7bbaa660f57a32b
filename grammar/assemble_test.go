package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/yaksok/node"
	"github.com/dhamidi/yaksok/token"
)

func stub(name string, pattern ...Unit) Rule {
	return Rule{
		Name:    name,
		Pattern: pattern,
		Flags:   FlagExported,
		Build: func(n []node.Node, toks []token.Token) node.Node {
			return node.NewFunctionInvoke(name, nil, toks)
		},
	}
}

func names(rules []Rule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.Name
	}
	return out
}

func levelNamed(t *testing.T, g *Grammar, name string) Level {
	t.Helper()
	for _, l := range g.Levels() {
		if l.Name == name {
			return l
		}
	}
	t.Fatalf("no level %q", name)
	return Level{}
}

func TestAssembleLevelLayout(t *testing.T) {
	base := BaseGrammar()
	g := Assemble(base,
		Source{Kind: SourceDeclaration, Rules: []Rule{stub("decl", Word("약속"), Sym(","), Word("하기"))}},
		Source{Kind: SourceLocal, Rules: []Rule{stub("local", Word("하기"))}},
	)

	levels := g.Levels()
	require.Len(t, levels, len(base.Levels)+1)
	assert.Equal(t, "declaration", levels[0].Name)
	assert.Contains(t, names(levels[0].Rules), "decl")
	assert.Contains(t, names(levels[0].Rules), "class")
	assert.NotContains(t, names(levels[0].Rules), "local")

	for _, l := range levels[1:] {
		assert.Contains(t, names(l.Rules), "local", "level %s", l.Name)
		assert.NotContains(t, names(l.Rules), "decl", "level %s", l.Name)
	}
}

func TestAssembleSortsLongestFirst(t *testing.T) {
	g := Assemble(Base{},
		Source{Kind: SourceLocal, Rules: []Rule{
			stub("one", Word("가")),
			stub("three", Word("가"), Word("나"), Word("다")),
			stub("two", Word("가"), Word("나")),
		}},
	)
	// With an empty base only the declaration level exists.
	require.Len(t, g.Levels(), 1)

	g = Assemble(Base{Levels: []Level{{Name: "only"}}},
		Source{Kind: SourceLocal, Rules: []Rule{
			stub("one", Word("가")),
			stub("three", Word("가"), Word("나"), Word("다")),
			stub("two", Word("가"), Word("나")),
		}},
	)
	assert.Equal(t, []string{"three", "two", "one"}, names(levelNamed(t, g, "only").Rules))
}

func TestAssembleTieBreakPrecedence(t *testing.T) {
	pattern := []Unit{Open(node.KindEvaluable), Word("를"), Word("먹기")}
	base := Base{Levels: []Level{{Name: "only", Rules: []Rule{stub("base", pattern...)}}}}

	// Given out of order on purpose.
	g := Assemble(base,
		Source{Kind: SourcePrelude, Name: "기본", Rules: []Rule{stub("prelude", pattern...)}},
		Source{Kind: SourceMention, Name: "b", Rules: []Rule{stub("mention b", pattern...)}},
		Source{Kind: SourceMethod, Rules: []Rule{stub("method", pattern...)}},
		Source{Kind: SourceMention, Name: "a", Rules: []Rule{stub("mention a", pattern...)}},
		Source{Kind: SourceLocal, Rules: []Rule{stub("local", pattern...)}},
	)

	got := names(levelNamed(t, g, "only").Rules)
	assert.Equal(t, []string{"base", "local", "method", "mention b", "mention a", "prelude"}, got)

	g = Assemble(Base{},
		Source{Kind: SourceDeclaration, Rules: []Rule{stub("declaration", pattern...)}},
		Source{Kind: SourceExtension, Rules: []Rule{stub("extension", pattern...)}},
	)
	assert.Equal(t, []string{"extension", "declaration"}, names(g.Levels()[0].Rules))
}

func TestAssembleTagsSource(t *testing.T) {
	g := Assemble(Base{Levels: []Level{{Name: "only"}}},
		Source{Kind: SourceMention, Name: "계산", Rules: []Rule{stub("m", Word("가"))}},
		Source{Kind: SourceLocal, Rules: []Rule{stub("l", Word("나"))}},
	)
	rules := levelNamed(t, g, "only").Rules
	sources := map[string]string{}
	for _, r := range rules {
		sources[r.Name] = r.Source
	}
	assert.Equal(t, map[string]string{"m": "mention:계산", "l": "local"}, sources)
}

func TestVocabularyAndSuffixes(t *testing.T) {
	g := Assemble(BaseGrammar(),
		Source{Kind: SourceLocal, Rules: []Rule{
			stub("eat", Open(node.KindEvaluable), Word("를"), Word("먹기")),
			stub("praise", Open(node.KindEvaluable), Word("에게"), Open(node.KindEvaluable), Word("을"), Word("칭찬하기")),
		}},
	)

	vocab := g.Vocabulary()
	assert.Contains(t, vocab, "칭찬하기")
	assert.Contains(t, vocab, "보여주기")
	assert.Contains(t, vocab, "를")
	for i := 1; i < len(vocab); i++ {
		assert.GreaterOrEqual(t, len([]rune(vocab[i-1])), len([]rune(vocab[i])))
	}

	assert.Equal(t, []string{"에게", "를", "을"}, g.HeaderSuffixes())
}

func TestMatch(t *testing.T) {
	nodes := node.FromTokens(token.Tokenize(`"사과" 를 먹기`))

	assert.True(t, Match(nodes, []Unit{Open(node.KindEvaluable), Word("를"), Word("먹기")}))
	assert.True(t, Match(nodes, []Unit{Word("를"), Word("먹기")}))
	assert.True(t, Match(nodes, []Unit{Open(node.KindIdentifier)}))
	assert.False(t, Match(nodes, []Unit{Word("을"), Word("먹기")}))
	assert.False(t, Match(nodes, []Unit{Open(node.KindIdentifier), Word("를"), Word("먹기")}))
	assert.False(t, Match(nodes[:1], []Unit{Word("를"), Word("먹기")}))
	assert.False(t, Match(nodes, nil))
}

func TestDefers(t *testing.T) {
	r := Rule{DeferBefore: []string{"["}}
	nodes := node.FromTokens(token.Tokenize("가 [ ]"))

	assert.False(t, r.Defers(nil))
	assert.False(t, r.Defers(nodes[0]))
	assert.True(t, r.Defers(nodes[1]))
}

func TestMentioned(t *testing.T) {
	exported := stub("(a)를 먹기", Open(node.KindEvaluable), Word("를"), Word("먹기"))
	private := exported
	private.Name = "private"
	private.Flags = 0

	rules := Mentioned("음식", []Rule{exported, private})
	require.Len(t, rules, 1)
	r := rules[0]
	assert.False(t, r.Has(FlagExported))
	assert.Equal(t, Unit{Kind: node.KindMention, Literal: "음식"}, r.Pattern[0])

	nodes := node.FromTokens(token.Tokenize("@음식 사과 를 먹기"))
	require.True(t, Match(nodes, r.Pattern))
	got := r.Build(nodes, node.TokensOf(nodes)).(*node.MentionInvoke)
	assert.Equal(t, "음식", got.File)
	assert.Equal(t, "(a)를 먹기", got.Call.(*node.FunctionInvoke).Name)
	assert.Equal(t, "사과를먹기", token.Join(got.Call.Tokens()))
	assert.Equal(t, "@음식사과를먹기", token.Join(got.Tokens()))
}
