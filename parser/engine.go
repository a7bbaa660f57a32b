// Package parser reduces blocks of nodes into syntax trees with a greedy
// shift-reduce engine driven by an assembled grammar.
package parser

import (
	"slices"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/yaksok/grammar"
	"github.com/dhamidi/yaksok/node"
)

type Option func(*Parser)

// WithMaxRounds bounds how often the level sequence is repeated per block.
// Zero, the default, repeats until no level reduces anything.
func WithMaxRounds(n int) Option {
	return func(p *Parser) {
		p.maxRounds = n
	}
}

func WithLogger(log commonlog.Logger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

type Parser struct {
	grammar   *grammar.Grammar
	maxRounds int
	log       commonlog.Logger
}

func New(g *grammar.Grammar, opts ...Option) *Parser {
	p := &Parser{
		grammar: g,
		log:     commonlog.GetLogger("yaksok.parser"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reduces b with g. See (*Parser).Parse.
func Parse(b *node.Block, g *grammar.Grammar, opts ...Option) *node.Block {
	return New(g, opts...).Parse(b)
}

// Parse returns the reduced form of b. Nested blocks are reduced first. The
// levels of the grammar run in order, each as one left-to-right shift-reduce
// pass, and the whole sequence repeats while any level reduced something.
// Nodes no rule could consume are left in place. b itself is not modified.
func (p *Parser) Parse(b *node.Block) *node.Block {
	children := make([]node.Node, 0, len(b.Children)+1)
	for _, c := range b.Children {
		if blk, ok := c.(*node.Block); ok {
			children = append(children, p.Parse(blk))
			continue
		}
		children = append(children, c)
	}
	end := node.NewEOL(nil)
	children = append(children, end)

	rounds := 0
	for p.maxRounds <= 0 || rounds < p.maxRounds {
		rounds++
		changed := false
		for _, level := range p.grammar.Levels() {
			var reduced bool
			children, reduced = p.reduce(children, level.Rules)
			changed = changed || reduced
		}
		if !changed {
			break
		}
	}
	p.log.Debugf("block of %d nodes settled after %d rounds", len(children), rounds)

	if n := len(children); n > 0 && children[n-1] == node.Node(end) {
		children = children[:n-1]
	}
	return node.NewBlock(children)
}

// reduce runs one shift-reduce pass of rules over input.
func (p *Parser) reduce(input []node.Node, rules []grammar.Rule) ([]node.Node, bool) {
	stack := make([]node.Node, 0, len(input))
	queue := input
	reduced := false
	for {
		if r, ok := applicable(stack, queue, rules); ok {
			n := len(r.Pattern)
			matched := slices.Clone(stack[len(stack)-n:])
			built := r.Build(matched, node.TokensOf(matched))
			stack = append(stack[:len(stack)-n], built)
			reduced = true
			continue
		}
		if len(queue) == 0 {
			return stack, reduced
		}
		stack = append(stack, queue[0])
		queue = queue[1:]
	}
}

// applicable returns the first rule that matches the top of stack and is not
// held back by the next input node.
func applicable(stack, queue []node.Node, rules []grammar.Rule) (grammar.Rule, bool) {
	var next node.Node
	if len(queue) > 0 {
		next = queue[0]
	}
	for _, r := range rules {
		if !grammar.Match(stack, r.Pattern) || r.Defers(next) {
			continue
		}
		if r.Has(grammar.FlagStatement) && !atStatement(stack, len(r.Pattern), next) {
			continue
		}
		return r, true
	}
	return grammar.Rule{}, false
}

func atStatement(stack []node.Node, n int, next node.Node) bool {
	var prev node.Node
	if below := len(stack) - n - 1; below >= 0 {
		prev = stack[below]
	}
	return node.EndsLine(prev) && (next == nil || next.Kind() == node.KindEOL)
}
