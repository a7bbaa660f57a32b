// Package token defines the lexical tokens of the language and a reference
// scanner that produces them.
package token

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Position is a 1-based location. Column counts codepoints, not bytes.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before reports whether p comes strictly before q.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

type Kind int

const (
	Unknown Kind = iota

	Identifier
	Number
	String

	Operator
	Assigner

	Comma
	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	Colon
	Dot

	Indent
	NewLine
	Space
	LineComment

	FFIBody
	Mention
)

var kindNames = map[Kind]string{
	Unknown:     "Unknown",
	Identifier:  "Identifier",
	Number:      "Number",
	String:      "String",
	Operator:    "Operator",
	Assigner:    "Assigner",
	Comma:       ",",
	LParen:      "(",
	RParen:      ")",
	LBracket:    "[",
	RBracket:    "]",
	LBrace:      "{",
	RBrace:      "}",
	Colon:       ":",
	Dot:         ".",
	Indent:      "Indent",
	NewLine:     "NewLine",
	Space:       "Space",
	LineComment: "LineComment",
	FFIBody:     "FFIBody",
	Mention:     "Mention",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsTrivia reports whether tokens of this kind carry no syntax.
func (k Kind) IsTrivia() bool {
	return k == Space || k == LineComment
}

// IsPunctuation reports whether the kind maps to an expression leaf node.
func (k Kind) IsPunctuation() bool {
	switch k {
	case Comma, LParen, RParen, LBracket, RBracket, LBrace, RBrace, Colon, Dot, Assigner, Unknown:
		return true
	}
	return false
}

type Token struct {
	Kind Kind
	Text string
	Pos  Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Pos, t.Kind, t.Text)
}

// Width is the number of codepoints the token covers on its first line.
func (t Token) Width() int {
	return utf8.RuneCountInString(t.Text)
}

// End is the position just after the token.
func (t Token) End() Position {
	if t.Kind == NewLine {
		return Position{Line: t.Pos.Line + 1, Column: 1}
	}
	if i := strings.LastIndexByte(t.Text, '\n'); i >= 0 {
		return Position{
			Line:   t.Pos.Line + strings.Count(t.Text, "\n"),
			Column: utf8.RuneCountInString(t.Text[i+1:]) + 1,
		}
	}
	return Position{Line: t.Pos.Line, Column: t.Pos.Column + t.Width()}
}

// IndentLevel is the nesting depth encoded by an Indent token: one level per
// tab or per four spaces.
func (t Token) IndentLevel() int {
	if t.Kind != Indent {
		return 0
	}
	level, spaces := 0, 0
	for _, r := range t.Text {
		switch r {
		case '\t':
			level++
		case ' ':
			spaces++
		}
	}
	return level + spaces/4
}

// Split cuts an identifier token after prefix codepoints worth of text and
// returns two identifier tokens covering the same span.
func (t Token) Split(prefix string) (Token, Token) {
	head := Token{Kind: Identifier, Text: prefix, Pos: t.Pos}
	tail := Token{
		Kind: Identifier,
		Text: t.Text[len(prefix):],
		Pos:  Position{Line: t.Pos.Line, Column: t.Pos.Column + utf8.RuneCountInString(prefix)},
	}
	return head, tail
}

// Join concatenates the text of tokens.
func Join(tokens []Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Text)
	}
	return b.String()
}

// Index maps token start positions to their index in a token list. Tokens are
// identified by where they start.
type Index map[Position]int

func NewIndex(tokens []Token) Index {
	idx := make(Index, len(tokens))
	for i, tok := range tokens {
		if _, ok := idx[tok.Pos]; !ok {
			idx[tok.Pos] = i
		}
	}
	return idx
}

// Of returns the index of tok, or -1.
func (idx Index) Of(tok Token) int {
	if i, ok := idx[tok.Pos]; ok {
		return i
	}
	return -1
}
