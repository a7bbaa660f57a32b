package header

import (
	"strconv"

	"github.com/dhamidi/yaksok/grammar"
	"github.com/dhamidi/yaksok/node"
	"github.com/dhamidi/yaksok/token"
)

// InvokeRules returns one exported call rule per variant of t. Static pieces
// match their candidate as an identifier; argument pieces match any value.
func InvokeRules(t *Template, opts ...VariantOption) []grammar.Rule {
	var rules []grammar.Rule
	for pieces := range Variants(t, opts...) {
		rules = append(rules, grammar.Rule{
			Name:    t.Name,
			Pattern: pattern(pieces),
			Flags:   grammar.FlagExported,
			Build: func(n []node.Node, toks []token.Token) node.Node {
				return node.NewFunctionInvoke(t.Name, bind(pieces, n), toks)
			},
		})
	}
	return rules
}

// MethodInvokeRules returns the receiver-qualified call rules of t:
// `receiver . <header>`.
func MethodInvokeRules(t *Template, opts ...VariantOption) []grammar.Rule {
	var rules []grammar.Rule
	for pieces := range Variants(t, opts...) {
		p := append([]grammar.Unit{grammar.Open(node.KindEvaluable), grammar.Sym(".")}, pattern(pieces)...)
		rules = append(rules, grammar.Rule{
			Name:    t.Name,
			Pattern: p,
			Flags:   grammar.FlagExported,
			Build: func(n []node.Node, toks []token.Token) node.Node {
				rest := n[2:]
				call := node.NewFunctionInvoke(t.Name, bind(pieces, rest), node.TokensOf(rest))
				return node.NewMethodInvoke(n[0], call, toks)
			},
		})
	}
	return rules
}

// CallRules returns the call family matching the declaration kind.
func CallRules(t *Template, opts ...VariantOption) []grammar.Rule {
	if t.Kind == DeclMethod {
		return MethodInvokeRules(t, opts...)
	}
	return InvokeRules(t, opts...)
}

func pattern(pieces []Piece) []grammar.Unit {
	units := make([]grammar.Unit, len(pieces))
	for i, p := range pieces {
		if p.Kind == PieceStatic {
			units[i] = grammar.Word(p.Candidates[0])
		} else {
			units[i] = grammar.Open(node.KindEvaluable)
		}
	}
	return units
}

// bind pairs argument pieces with the matched nodes. A destructure piece
// binds each of its names to an index fetch into the one argument.
func bind(pieces []Piece, n []node.Node) []node.Param {
	var params []node.Param
	for i, p := range pieces {
		switch p.Kind {
		case PieceValue:
			params = append(params, node.Param{Name: p.Names[0], Value: n[i]})
		case PieceDestructure:
			arg := n[i]
			for j, name := range p.Names {
				index := node.NewNumber(strconv.Itoa(j), float64(j), arg.Tokens())
				params = append(params, node.Param{
					Name:  name,
					Value: node.NewIndexFetch(arg, index, arg.Tokens()),
				})
			}
		}
	}
	return params
}

// DeclareRule returns the rule that reduces the declaration of t together
// with its body. The header is matched token for token.
func DeclareRule(t *Template) grammar.Rule {
	var units []grammar.Unit
	units = append(units, literalUnits(t.Prefix)...)
	units = append(units, literalUnits(t.Tokens)...)
	units = append(units, grammar.Open(node.KindEOL))
	if t.Kind == DeclFFI {
		units = append(units, grammar.Open(node.KindFFIBody))
	} else {
		units = append(units, grammar.Open(node.KindBlock))
	}

	params := t.Params()
	return grammar.Rule{
		Name:    t.Kind.Keyword() + " " + t.Name,
		Pattern: units,
		Build: func(n []node.Node, toks []token.Token) node.Node {
			last := n[len(n)-1]
			switch t.Kind {
			case DeclFFI:
				return node.NewDeclareFFI(t.Runtime, t.Name, params, last.(*node.FFIBody).Code, toks)
			case DeclMethod:
				return node.NewDeclareMethod(t.Receivers, t.Name, params, last.(*node.Block), toks)
			}
			return node.NewDeclareFunction(t.Name, params, last.(*node.Block), toks)
		},
	}
}

func literalUnits(tokens []token.Token) []grammar.Unit {
	var units []grammar.Unit
	for _, tok := range tokens {
		switch tok.Kind {
		case token.Identifier:
			units = append(units, grammar.Word(tok.Text))
		case token.LParen, token.RParen, token.Comma:
			units = append(units, grammar.Sym(tok.Text))
		}
	}
	return units
}
