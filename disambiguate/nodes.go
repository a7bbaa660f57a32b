package disambiguate

import (
	"maps"
	"strings"

	"github.com/dhamidi/yaksok/header"
	"github.com/dhamidi/yaksok/node"
	"github.com/dhamidi/yaksok/token"
)

const (
	newKeyword    = "새"
	lambdaKeyword = "람다"
	// eachSuffix ends the item name of a list loop.
	eachSuffix = "마다"
	// ofSuffix joins a list to the item name of a list loop.
	ofSuffix = "의"
)

// scope is what one block knows. Child blocks receive a copy.
type scope struct {
	names    map[string]bool
	suffixes map[string]bool
}

func (s *scope) child(params []string) *scope {
	c := &scope{names: maps.Clone(s.names), suffixes: maps.Clone(s.suffixes)}
	for _, p := range params {
		c.names[p] = true
	}
	return c
}

// line is one source line of a block: its nodes up to and including the
// end-of-line, followed by the block it opens, if any.
type line struct {
	nodes []node.Node
	block *node.Block
	// params are the header parameter names visible in block.
	params []string
	decl   bool
	// instances are the identifiers following `새`, resolved once the whole
	// block is collected.
	instances []string
}

type nodeSplitter struct {
	splits map[token.Position]string
}

// SplitNodes is the node level pass. It walks root block by block, tracking
// the names each block declares (declaration headers, classes, `새` targets,
// assignment targets, header parameters) and the particles that follow a
// header's closing parenthesis. An identifier that ends in a tracked suffix
// and whose prefix is a tracked name is replaced by two identifier nodes; the
// prefix is chosen as long as possible. Child blocks inherit what their
// parents know, never the other way around.
//
// The children of root and its nested blocks are rewritten in place. The
// matching token split is applied to a copy of tokens, which is returned
// together with the index remap.
func SplitNodes(root *node.Block, tokens []token.Token, suffixes []string) ([]token.Token, Remap) {
	sc := &scope{names: map[string]bool{}, suffixes: map[string]bool{}}
	for _, s := range suffixes {
		sc.suffixes[s] = true
	}
	sp := &nodeSplitter{splits: map[token.Position]string{}}
	sp.block(root, sc)

	if len(sp.splits) > 0 {
		log.Debugf("node pass split %d identifiers", len(sp.splits))
	}
	return applySplits(tokens, sp.splits)
}

func (sp *nodeSplitter) block(b *node.Block, parent *scope) {
	sc := parent.child(nil)
	lines := linesOf(b.Children)
	for i := range lines {
		collect(&lines[i], sc)
	}
	for _, ln := range lines {
		for _, text := range ln.instances {
			sc.names[instanceName(text, sc)] = true
		}
	}

	children := make([]node.Node, 0, len(b.Children))
	for _, ln := range lines {
		if ln.decl {
			children = append(children, ln.nodes...)
		} else {
			children = append(children, sp.splitLine(ln.nodes, sc)...)
		}
		if ln.block != nil {
			sp.block(ln.block, sc.child(ln.params))
			children = append(children, ln.block)
		}
	}
	b.Children = children
}

func linesOf(children []node.Node) []line {
	var lines []line
	var cur line
	for _, c := range children {
		if blk, ok := c.(*node.Block); ok {
			if len(cur.nodes) == 0 && len(lines) > 0 && lines[len(lines)-1].block == nil {
				lines[len(lines)-1].block = blk
				continue
			}
			cur.block = blk
			lines = append(lines, cur)
			cur = line{}
			continue
		}
		cur.nodes = append(cur.nodes, c)
		if c.Kind() == node.KindEOL {
			lines = append(lines, cur)
			cur = line{}
		}
	}
	if len(cur.nodes) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

// collect records the names and suffixes ln introduces.
func collect(ln *line, sc *scope) {
	n := ln.nodes
	if len(n) >= 2 && isIdent(n[0]) && header.IsKeyword(n[0].Text()) && isSym(n[1], ",", "(") {
		ln.decl = true
		collectHeader(ln, sc)
		return
	}
	if len(n) >= 3 && isWord(n[0], "클래스") && isSym(n[1], ",") && isIdent(n[2]) {
		ln.decl = true
		sc.names[n[2].Text()] = true
		return
	}

	for i := range n {
		switch {
		case isWord(n[i], newKeyword) && i+1 < len(n) && isIdent(n[i+1]):
			ln.instances = append(ln.instances, n[i+1].Text())
		case isWord(n[i], lambdaKeyword):
			for _, p := range n[i+1:] {
				if isIdent(p) {
					sc.names[p.Text()] = true
				} else if !isSym(p, ",") {
					break
				}
			}
		case isIdent(n[i]) && i+1 < len(n) && isSym(n[i+1], "=") && !(i > 0 && isSym(n[i-1], ".")):
			sc.names[n[i].Text()] = true
		case isWord(n[i], eachSuffix) && i > 0 && isIdent(n[i-1]):
			ln.params = append(ln.params, n[i-1].Text())
		case isIdent(n[i]) && strings.HasSuffix(n[i].Text(), eachSuffix) && n[i].Text() != eachSuffix:
			ln.params = append(ln.params, strings.TrimSuffix(n[i].Text(), eachSuffix))
		}
	}
}

// collectHeader reads a declaration line. Names inside parentheses of the
// header are parameters of the body; a word right after a closing
// parenthesis is a suffix; a header of one bare word is a name.
func collectHeader(ln *line, sc *scope) {
	n := ln.nodes
	start := 0
	depth := 0
	for i, c := range n {
		switch {
		case isSym(c, "("):
			depth++
		case isSym(c, ")"):
			depth--
		case isSym(c, ",") && depth == 0:
			start = i + 1
		}
		if start > 0 {
			break
		}
	}
	h := n[start:]
	if len(h) > 0 && h[len(h)-1].Kind() == node.KindEOL {
		h = h[:len(h)-1]
	}

	if len(h) == 1 && isIdent(h[0]) {
		sc.names[h[0].Text()] = true
	}

	inParen := false
	for i, c := range h {
		switch {
		case isSym(c, "("):
			inParen = true
		case isSym(c, ")"):
			inParen = false
			if i+1 < len(h) && isIdent(h[i+1]) {
				sc.suffixes[h[i+1].Text()] = true
			}
		case inParen && isIdent(c):
			ln.params = append(ln.params, c.Text())
		}
	}
}

func (sp *nodeSplitter) splitLine(nodes []node.Node, sc *scope) []node.Node {
	out := make([]node.Node, 0, len(nodes))
	for i, n := range nodes {
		if !isIdent(n) || (i > 0 && isSym(nodes[i-1], ".")) || len(n.Tokens()) != 1 {
			out = append(out, n)
			continue
		}
		prefix, ok := bestPrefix(n.Text(), sc)
		if head, found := loopPrefix(n.Text(), nodes[i+1:]); found && len(head) > len(prefix) && !sc.names[n.Text()] {
			prefix, ok = head, true
		}
		if !ok {
			out = append(out, n)
			continue
		}
		tok := n.Tokens()[0]
		if tok.Text != n.Text() {
			out = append(out, n)
			continue
		}
		head, tail := tok.Split(prefix)
		sp.splits[tok.Pos] = prefix
		out = append(out,
			node.NewIdentifier(head.Text, []token.Token{head}),
			node.NewIdentifier(tail.Text, []token.Token{tail}),
		)
	}
	return out
}

// instanceName is the class a `새` target names: its declared prefix when a
// particle is attached, the whole text otherwise.
func instanceName(text string, sc *scope) string {
	if prefix, ok := bestPrefix(text, sc); ok {
		return prefix
	}
	return text
}

// bestPrefix finds the longest declared prefix of text that leaves a known
// suffix.
func bestPrefix(text string, sc *scope) (string, bool) {
	if sc.names[text] {
		return "", false
	}
	best := ""
	for suffix := range sc.suffixes {
		if len(suffix) >= len(text) || !strings.HasSuffix(text, suffix) {
			continue
		}
		prefix := strings.TrimSuffix(text, suffix)
		if sc.names[prefix] && len(prefix) > len(best) {
			best = prefix
		}
	}
	return best, best != ""
}

// loopPrefix splits the particles of a list loop off any name: `마다`
// always, `의` only when a value follows.
func loopPrefix(text string, rest []node.Node) (string, bool) {
	if head, ok := strings.CutSuffix(text, eachSuffix); ok && head != "" {
		return head, true
	}
	if head, ok := strings.CutSuffix(text, ofSuffix); ok && head != "" {
		for _, next := range rest {
			if next.Kind() == node.KindEOL || isSym(next, ",", "(", ")") {
				continue
			}
			return head, next.Kind().IsEvaluable() || next.Kind() == node.KindSequence
		}
	}
	return "", false
}

func isIdent(n node.Node) bool {
	return n.Kind() == node.KindIdentifier
}

func isWord(n node.Node, text string) bool {
	return isIdent(n) && n.Text() == text
}

func isSym(n node.Node, symbols ...string) bool {
	if n.Kind() != node.KindExpression {
		return false
	}
	for _, s := range symbols {
		if n.Text() == s {
			return true
		}
	}
	return false
}
