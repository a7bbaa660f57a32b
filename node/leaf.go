package node

import (
	"strconv"
	"strings"

	"github.com/dhamidi/yaksok/token"
)

var unescaper = strings.NewReplacer(`\n`, "\n", `\t`, "\t", `\r`, "\r", `\\`, `\`, `\"`, `"`, `\'`, `'`)

// FromTokens maps each significant token to its leaf node. Whitespace and
// comments produce nothing.
func FromTokens(tokens []token.Token) []Node {
	nodes := make([]Node, 0, len(tokens))
	for _, tok := range tokens {
		if n := leaf(tok); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

func leaf(tok token.Token) Node {
	s := span{tokens: []token.Token{tok}}
	switch tok.Kind {
	case token.Space, token.LineComment:
		return nil
	case token.Identifier:
		return &Identifier{span: s, Name: tok.Text}
	case token.Number:
		v, _ := strconv.ParseFloat(tok.Text, 64)
		return &Number{span: s, Raw: tok.Text, Value: v}
	case token.String:
		text := tok.Text[1:]
		if len(text) > 0 && text[len(text)-1] == tok.Text[0] {
			text = text[:len(text)-1]
		}
		return &String{span: s, Value: unescaper.Replace(text)}
	case token.Operator:
		return &Operator{span: s, Op: tok.Text}
	case token.NewLine:
		return &EOL{span: s}
	case token.Indent:
		return &Indent{span: s, Level: tok.IndentLevel()}
	case token.Mention:
		return &Mention{span: s, File: strings.TrimPrefix(tok.Text, "@")}
	case token.FFIBody:
		code := strings.TrimPrefix(tok.Text, "***\n")
		code = strings.TrimSuffix(code, "\n***")
		return &FFIBody{span: s, Code: code}
	}
	return &Expression{span: s, Symbol: tok.Text}
}

// GroupBlocks nests lines into blocks by their leading indentation. A child
// block follows the end-of-line of the line that opens it. Indent nodes are
// consumed; blank lines stay in the innermost open block.
func GroupBlocks(nodes []Node) *Block {
	root := NewBlock(nil)
	stack := []*Block{root}

	for start := 0; start < len(nodes); {
		end := start
		for end < len(nodes) && nodes[end].Kind() != KindEOL {
			end++
		}
		if end < len(nodes) {
			end++
		}
		line := nodes[start:end]
		start = end

		level := 0
		if ind, ok := line[0].(*Indent); ok {
			level = ind.Level
			line = line[1:]
		}
		if len(line) == 0 || (len(line) == 1 && line[0].Kind() == KindEOL) {
			top := stack[len(stack)-1]
			top.Children = append(top.Children, line...)
			continue
		}

		for len(stack)-1 > level {
			stack = stack[:len(stack)-1]
		}
		for len(stack)-1 < level {
			parent := stack[len(stack)-1]
			child := NewBlock(nil)
			parent.Children = append(parent.Children, child)
			stack = append(stack, child)
		}
		top := stack[len(stack)-1]
		top.Children = append(top.Children, line...)
	}
	return root
}

// Walk calls fn for n and every descendant in source order. Returning false
// skips the descendants of that node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}
