package grammar

import (
	"github.com/dhamidi/yaksok/node"
	"github.com/dhamidi/yaksok/token"
)

// Level is one ordered group of rules. The parser runs levels in order.
type Level struct {
	Name  string
	Rules []Rule
}

// Base is the fixed part of the grammar. Declarations run in a level of their
// own ahead of everything else so headers are reduced before their
// parentheses and words can be read as expressions.
type Base struct {
	Declarations []Rule
	Levels       []Level
}

const baseSource = "base"

var assigners = []string{"=", "+=", "-=", "*=", "/=", "%="}

var operatorTiers = []struct {
	name string
	ops  []Unit
}{
	{"power", []Unit{Op("**")}},
	{"multiply", []Unit{Op("*"), Op("/"), Op("//"), Op("%")}},
	{"add", []Unit{Op("+"), Op("-")}},
	{"range", []Unit{Op("~")}},
	{"compare", []Unit{Op(">"), Op("<"), Op(">="), Op("<="), Op("=="), Op("!=")}},
	{"and", []Unit{Word("이고"), Word("그리고")}},
	{"or", []Unit{Word("이거나"), Word("거나"), Word("또는")}},
}

// formulaDefers keeps a binary formula from swallowing the left side of an
// index or member access.
var formulaDefers = []string{"[", "."}

// BaseGrammar returns the fixed language grammar.
func BaseGrammar() Base {
	evaluable := Open(node.KindEvaluable)

	b := Base{
		Declarations: []Rule{
			{
				Name:    "class",
				Pattern: []Unit{Word("클래스"), Sym(","), Open(node.KindIdentifier), Open(node.KindEOL), Open(node.KindBlock)},
				Build: func(n []node.Node, toks []token.Token) node.Node {
					return node.NewDeclareClass(n[2].Text(), n[4].(*node.Block), toks)
				},
			},
		},
	}

	b.Levels = append(b.Levels, Level{Name: "atom", Rules: []Rule{
		{
			Name:    "paren",
			Pattern: []Unit{Sym("("), evaluable, Sym(")")},
			Build: func(n []node.Node, toks []token.Token) node.Node {
				return node.NewParen(n[1], toks)
			},
		},
		{
			Name:    "new",
			Pattern: []Unit{Word("새"), Open(node.KindIdentifier)},
			Build: func(n []node.Node, toks []token.Token) node.Node {
				return node.NewNewInstance(n[1].Text(), toks)
			},
		},
		{
			Name:    "index",
			Pattern: []Unit{evaluable, Sym("["), evaluable, Sym("]")},
			Build: func(n []node.Node, toks []token.Token) node.Node {
				return node.NewIndexFetch(n[0], n[2], toks)
			},
		},
		{
			Name:    "empty list",
			Pattern: []Unit{Sym("["), Sym("]")},
			Build: func(_ []node.Node, toks []token.Token) node.Node {
				return node.NewList(nil, toks)
			},
		},
		{
			Name:    "list",
			Pattern: []Unit{Sym("["), evaluable, Sym("]")},
			Build: func(n []node.Node, toks []token.Token) node.Node {
				return node.NewList([]node.Node{n[1]}, toks)
			},
		},
		{
			Name:    "empty dict",
			Pattern: []Unit{Sym("{"), Sym("}")},
			Build: func(_ []node.Node, toks []token.Token) node.Node {
				return node.NewDict(nil, toks)
			},
		},
	}})

	for _, tier := range operatorTiers {
		level := Level{Name: tier.name}
		for _, op := range tier.ops {
			level.Rules = append(level.Rules, Rule{
				Name:        "formula " + op.Literal,
				Pattern:     []Unit{evaluable, op, evaluable},
				DeferBefore: formulaDefers,
				Build: func(n []node.Node, toks []token.Token) node.Node {
					return node.NewFormula([]node.Node{n[0], n[1], n[2]}, toks)
				},
			})
		}
		b.Levels = append(b.Levels, level)
	}

	b.Levels = append(b.Levels, Level{Name: "sequence", Rules: []Rule{
		{
			Name:    "sequence",
			Pattern: []Unit{evaluable, Sym(","), evaluable},
			Build: func(n []node.Node, toks []token.Token) node.Node {
				return node.NewSequence([]node.Node{n[0], n[2]}, toks)
			},
		},
		{
			Name:    "sequence item",
			Pattern: []Unit{Open(node.KindSequence), Sym(","), evaluable},
			Build: func(n []node.Node, toks []token.Token) node.Node {
				seq := n[0].(*node.Sequence)
				items := append(append([]node.Node(nil), seq.Items...), n[2])
				return node.NewSequence(items, toks)
			},
		},
		{
			Name:    "sequence list",
			Pattern: []Unit{Sym("["), Open(node.KindSequence), Sym("]")},
			Build: func(n []node.Node, toks []token.Token) node.Node {
				return node.NewList(n[1].(*node.Sequence).Items, toks)
			},
		},
		{
			Name:    "key value",
			Pattern: []Unit{Open(node.KindIdentifier), Sym(":"), evaluable},
			Build: func(n []node.Node, toks []token.Token) node.Node {
				return node.NewKeyValue([]node.Entry{{Key: n[0].Text(), Value: n[2]}}, toks)
			},
		},
		{
			Name:    "key values",
			Pattern: []Unit{Open(node.KindKeyValue), Sym(","), Open(node.KindKeyValue)},
			Build: func(n []node.Node, toks []token.Token) node.Node {
				entries := append(append([]node.Entry(nil), n[0].(*node.KeyValue).Entries...), n[2].(*node.KeyValue).Entries...)
				return node.NewKeyValue(entries, toks)
			},
		},
		{
			Name:    "dict",
			Pattern: []Unit{Sym("{"), Open(node.KindKeyValue), Sym("}")},
			Build: func(n []node.Node, toks []token.Token) node.Node {
				return node.NewDict(n[1].(*node.KeyValue).Entries, toks)
			},
		},
	}})

	statements := Level{Name: "statement"}
	for _, op := range assigners {
		statements.Rules = append(statements.Rules, Rule{
			Name:    "assign " + op,
			Pattern: []Unit{Open(node.KindIdentifier), Sym(op), evaluable},
			Flags:   FlagStatement,
			Build: func(n []node.Node, toks []token.Token) node.Node {
				return node.NewSetVariable(n[0].Text(), n[1].Text(), n[2], toks)
			},
		})
	}
	statements.Rules = append(statements.Rules,
		Rule{
			Name:    "print",
			Pattern: []Unit{evaluable, Word("보여주기")},
			Flags:   FlagStatement,
			Build: func(n []node.Node, toks []token.Token) node.Node {
				return node.NewPrint(n[0], toks)
			},
		},
		Rule{
			Name:    "return value",
			Pattern: []Unit{evaluable, Word("반환하기")},
			Flags:   FlagStatement,
			Build: func(n []node.Node, toks []token.Token) node.Node {
				return node.NewReturn(n[0], toks)
			},
		},
		Rule{
			Name:    "return",
			Pattern: []Unit{Word("반환하기")},
			Flags:   FlagStatement,
			Build: func(_ []node.Node, toks []token.Token) node.Node {
				return node.NewReturn(nil, toks)
			},
		},
		Rule{
			Name:    "if",
			Pattern: []Unit{Word("만약"), evaluable, Word("이면"), Open(node.KindEOL), Open(node.KindBlock)},
			Build: func(n []node.Node, toks []token.Token) node.Node {
				return node.NewIf([]node.Case{{Cond: n[1], Body: n[4].(*node.Block)}}, toks)
			},
		},
		Rule{
			Name:    "else if",
			Pattern: []Unit{Word("아니면"), Word("만약"), evaluable, Word("이면"), Open(node.KindEOL), Open(node.KindBlock)},
			Build: func(n []node.Node, toks []token.Token) node.Node {
				return node.NewElseIf(node.Case{Cond: n[2], Body: n[5].(*node.Block)}, toks)
			},
		},
		Rule{
			Name:    "else",
			Pattern: []Unit{Word("아니면"), Open(node.KindEOL), Open(node.KindBlock)},
			Build: func(n []node.Node, toks []token.Token) node.Node {
				return node.NewElse(n[2].(*node.Block), toks)
			},
		},
		Rule{
			Name:    "if else if",
			Pattern: []Unit{Open(node.KindIf), Open(node.KindElseIf)},
			Build: func(n []node.Node, toks []token.Token) node.Node {
				cases := append(append([]node.Case(nil), n[0].(*node.If).Cases...), n[1].(*node.ElseIf).Case)
				return node.NewIf(cases, toks)
			},
		},
		Rule{
			Name:    "if else",
			Pattern: []Unit{Open(node.KindIf), Open(node.KindElse)},
			Build: func(n []node.Node, toks []token.Token) node.Node {
				cases := append(append([]node.Case(nil), n[0].(*node.If).Cases...), node.Case{Body: n[1].(*node.Else).Body})
				return node.NewIf(cases, toks)
			},
		},
	)
	statements.Rules = append(statements.Rules, loopRules()...)
	b.Levels = append(b.Levels, statements)

	for i := range b.Declarations {
		b.Declarations[i].Source = baseSource
	}
	for _, level := range b.Levels {
		for i := range level.Rules {
			level.Rules[i].Source = baseSource
		}
	}
	return b
}

// listLoopForms are the accepted spellings of a loop over a list. The
// indices locate the list, the item name and the body in the match.
var listLoopForms = []struct {
	pattern          []Unit
	list, name, body int
}{
	{[]Unit{Word("반복"), Open(node.KindEvaluable), Word("의"), Open(node.KindIdentifier), Word("마다"), Open(node.KindEOL), Open(node.KindBlock)}, 1, 3, 6},
	{[]Unit{Word("반복"), Open(node.KindEvaluable), Word("의"), Open(node.KindIdentifier), Word("마다"), Sym(":"), Open(node.KindEOL), Open(node.KindBlock)}, 1, 3, 7},
	{[]Unit{Open(node.KindEvaluable), Word("의"), Open(node.KindIdentifier), Word("마다"), Word("반복"), Sym(":"), Open(node.KindEOL), Open(node.KindBlock)}, 0, 2, 7},
	{[]Unit{Open(node.KindEvaluable), Word("의"), Open(node.KindIdentifier), Word("마다"), Sym(":"), Open(node.KindEOL), Open(node.KindBlock)}, 0, 2, 6},
	{[]Unit{Open(node.KindEvaluable), Word("의"), Open(node.KindIdentifier), Word("마다"), Word("반복하기"), Open(node.KindEOL), Open(node.KindBlock)}, 0, 2, 6},
	{[]Unit{Open(node.KindEvaluable), Word("의"), Open(node.KindIdentifier), Word("마다"), Word("반복"), Open(node.KindEOL), Open(node.KindBlock)}, 0, 2, 6},
}

// countLoopForms locate the count and the body in the match.
var countLoopForms = []struct {
	pattern     []Unit
	count, body int
}{
	{[]Unit{Word("반복"), Open(node.KindEvaluable), Word("번"), Open(node.KindEOL), Open(node.KindBlock)}, 1, 4},
	{[]Unit{Open(node.KindEvaluable), Word("번"), Word("반복"), Open(node.KindEOL), Open(node.KindBlock)}, 0, 4},
	{[]Unit{Open(node.KindEvaluable), Word("번"), Word("반복하기"), Open(node.KindEOL), Open(node.KindBlock)}, 0, 4},
	{[]Unit{Open(node.KindEvaluable), Word("번"), Sym(":"), Open(node.KindEOL), Open(node.KindBlock)}, 0, 4},
}

// loopRules are the loop statements. Like conditionals, a loop ends in its
// body, so it carries no statement flag.
func loopRules() []Rule {
	var rules []Rule
	for _, verb := range []string{"반복", "반복하기"} {
		rules = append(rules, Rule{
			Name:    "loop " + verb,
			Pattern: []Unit{Word(verb), Open(node.KindEOL), Open(node.KindBlock)},
			Build: func(n []node.Node, toks []token.Token) node.Node {
				return node.NewLoop(n[2].(*node.Block), toks)
			},
		})
	}
	for _, form := range listLoopForms {
		rules = append(rules, Rule{
			Name:    "list loop",
			Pattern: form.pattern,
			Build: func(n []node.Node, toks []token.Token) node.Node {
				return node.NewListLoop(n[form.list], n[form.name].Text(), n[form.body].(*node.Block), toks)
			},
		})
	}
	for _, form := range countLoopForms {
		rules = append(rules, Rule{
			Name:    "count loop",
			Pattern: form.pattern,
			Build: func(n []node.Node, toks []token.Token) node.Node {
				return node.NewCountLoop(n[form.count], n[form.body].(*node.Block), toks)
			},
		})
	}
	rules = append(rules,
		Rule{
			Name:    "break",
			Pattern: []Unit{Word("반복"), Word("그만")},
			Flags:   FlagStatement,
			Build: func(_ []node.Node, toks []token.Token) node.Node {
				return node.NewBreak(toks)
			},
		},
		Rule{
			Name:    "stop",
			Pattern: []Unit{Word("약속"), Word("그만")},
			Flags:   FlagStatement,
			Build: func(_ []node.Node, toks []token.Token) node.Node {
				return node.NewReturn(nil, toks)
			},
		},
	)
	return rules
}
