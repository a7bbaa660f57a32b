// Package grammar holds pattern rules and assembles them, with the fixed base
// grammar, into the ordered rule set the parser runs.
package grammar

import (
	"fmt"
	"strings"

	"github.com/dhamidi/yaksok/node"
	"github.com/dhamidi/yaksok/token"
)

// Unit matches one node by kind and, when Literal is set, by its text.
type Unit struct {
	Kind    node.Kind
	Literal string
}

// Open matches any node of kind k. KindEvaluable matches every node that
// produces a value.
func Open(k node.Kind) Unit {
	return Unit{Kind: k}
}

// Word matches an identifier with the given text.
func Word(text string) Unit {
	return Unit{Kind: node.KindIdentifier, Literal: text}
}

// Sym matches a punctuation or assignment symbol.
func Sym(text string) Unit {
	return Unit{Kind: node.KindExpression, Literal: text}
}

// Op matches an operator.
func Op(text string) Unit {
	return Unit{Kind: node.KindOperator, Literal: text}
}

func (u Unit) Matches(n node.Node) bool {
	if u.Kind == node.KindEvaluable {
		return n.Kind().IsEvaluable()
	}
	if n.Kind() != u.Kind {
		return false
	}
	return u.Literal == "" || n.Text() == u.Literal
}

func (u Unit) String() string {
	if u.Literal != "" {
		return fmt.Sprintf("%q", u.Literal)
	}
	return "<" + u.Kind.String() + ">"
}

type Flag int

const (
	// FlagStatement restricts a rule to whole lines: the node below the
	// match and the next input node must each be absent or end a line.
	FlagStatement Flag = 1 << iota
	// FlagExported marks rules other files may use through a mention.
	FlagExported
)

// Builder creates the node that replaces the matched nodes. tokens is the
// concatenated span of the matched nodes.
type Builder func(nodes []node.Node, tokens []token.Token) node.Node

type Rule struct {
	// Name identifies the rule in listings, e.g. the header it came from.
	Name    string
	Pattern []Unit
	Build   Builder
	Flags   Flag
	// DeferBefore holds literals before which the rule must not reduce.
	DeferBefore []string
	// Source names where the rule came from.
	Source string
}

func (r Rule) Has(f Flag) bool {
	return r.Flags&f != 0
}

// Defers reports whether the rule must wait because next comes after the
// match.
func (r Rule) Defers(next node.Node) bool {
	if next == nil {
		return false
	}
	for _, lit := range r.DeferBefore {
		if next.Text() == lit {
			return true
		}
	}
	return false
}

func (r Rule) String() string {
	units := make([]string, len(r.Pattern))
	for i, u := range r.Pattern {
		units[i] = u.String()
	}
	return fmt.Sprintf("%s: %s", r.Name, strings.Join(units, " "))
}

// Literals returns the identifier literals of the pattern.
func (r Rule) Literals() []string {
	var out []string
	for _, u := range r.Pattern {
		if u.Kind == node.KindIdentifier && u.Literal != "" {
			out = append(out, u.Literal)
		}
	}
	return out
}

// Match reports whether pattern matches the top len(pattern) nodes of stack.
func Match(stack []node.Node, pattern []Unit) bool {
	if len(pattern) == 0 || len(pattern) > len(stack) {
		return false
	}
	top := stack[len(stack)-len(pattern):]
	for i, u := range pattern {
		if !u.Matches(top[i]) {
			return false
		}
	}
	return true
}
