package header

import (
	"github.com/dhamidi/yaksok/token"
)

type DeclKind int

const (
	DeclFunction DeclKind = iota
	DeclFFI
	DeclMethod
)

var declNames = map[DeclKind]string{
	DeclFunction: "약속",
	DeclFFI:      "번역",
	DeclMethod:   "메소드",
}

// Keyword is the word that opens a declaration of this kind.
func (k DeclKind) Keyword() string {
	return declNames[k]
}

func (k DeclKind) String() string {
	switch k {
	case DeclFFI:
		return "ffi"
	case DeclMethod:
		return "method"
	}
	return "function"
}

// Range locates one declaration in a token list. The declaration keyword is
// tokens[Start], the header is tokens[HeaderStart:End] and tokens[End] is the
// terminating newline when there is one.
type Range struct {
	Kind        DeclKind
	Start       int
	HeaderStart int
	End         int
	// Runtime is the foreign runtime of an FFI declaration.
	Runtime string
	// Receivers are the type names of a method declaration.
	Receivers []string
}

// Prefix returns the tokens from the keyword up to the header.
func (r Range) Prefix(tokens []token.Token) []token.Token {
	return tokens[r.Start:r.HeaderStart]
}

// Header returns the header tokens.
func (r Range) Header(tokens []token.Token) []token.Token {
	return tokens[r.HeaderStart:r.End]
}

// Contains reports whether tokens[i] belongs to the declaration line.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// IsKeyword reports whether word opens a declaration.
func IsKeyword(word string) bool {
	for _, name := range declNames {
		if name == word {
			return true
		}
	}
	return false
}

// Ranges finds every declaration line in tokens. A declaration starts a line
// (after indentation) with 약속 followed by a comma, or with 번역 or 메소드
// followed by a parenthesized name list and a comma.
func Ranges(tokens []token.Token) []Range {
	var out []Range
	for i := 0; i < len(tokens); i++ {
		if !lineStart(tokens, i) {
			continue
		}
		if r, ok := declarationAt(tokens, i); ok {
			out = append(out, r)
			i = r.End
		}
	}
	return out
}

func lineStart(tokens []token.Token, i int) bool {
	if tokens[i].Kind != token.Identifier {
		return false
	}
	for j := i - 1; j >= 0; j-- {
		switch tokens[j].Kind {
		case token.NewLine:
			return true
		case token.Indent, token.Space:
			continue
		}
		return false
	}
	return true
}

func declarationAt(tokens []token.Token, start int) (Range, bool) {
	r := Range{Start: start}
	i := skipSpace(tokens, start+1)

	switch tokens[start].Text {
	case DeclFunction.Keyword():
		r.Kind = DeclFunction
	case DeclFFI.Keyword(), DeclMethod.Keyword():
		r.Kind = DeclFFI
		if tokens[start].Text == DeclMethod.Keyword() {
			r.Kind = DeclMethod
		}
		names, next, ok := nameList(tokens, i)
		if !ok {
			return Range{}, false
		}
		if r.Kind == DeclFFI {
			if len(names) != 1 {
				return Range{}, false
			}
			r.Runtime = names[0]
		} else {
			r.Receivers = names
		}
		i = skipSpace(tokens, next)
	default:
		return Range{}, false
	}

	if i >= len(tokens) || tokens[i].Kind != token.Comma {
		return Range{}, false
	}
	r.HeaderStart = skipSpace(tokens, i+1)

	end := r.HeaderStart
	for end < len(tokens) && tokens[end].Kind != token.NewLine {
		end++
	}
	r.End = end
	return r, true
}

// nameList reads `( name {, name} )` starting at tokens[i].
func nameList(tokens []token.Token, i int) ([]string, int, bool) {
	if i >= len(tokens) || tokens[i].Kind != token.LParen {
		return nil, i, false
	}
	var names []string
	i = skipSpace(tokens, i+1)
	for i < len(tokens) {
		if tokens[i].Kind != token.Identifier {
			return nil, i, false
		}
		names = append(names, tokens[i].Text)
		i = skipSpace(tokens, i+1)
		if i >= len(tokens) {
			break
		}
		switch tokens[i].Kind {
		case token.RParen:
			return names, i + 1, true
		case token.Comma:
			i = skipSpace(tokens, i+1)
			continue
		}
		return nil, i, false
	}
	return nil, i, false
}

func skipSpace(tokens []token.Token, i int) int {
	for i < len(tokens) && tokens[i].Kind.IsTrivia() {
		i++
	}
	return i
}

// MergeBranches joins slash alternatives inside declaration headers. The
// scanner reads `절댓값/절대값` as identifier, operator, identifier; inside a
// header the three become one identifier token.
func MergeBranches(tokens []token.Token) []token.Token {
	ranges := Ranges(tokens)
	if len(ranges) == 0 {
		return tokens
	}

	out := make([]token.Token, 0, len(tokens))
	next := 0
	for i := 0; i < len(tokens); i++ {
		for next < len(ranges) && ranges[next].End <= i {
			next++
		}
		inHeader := next < len(ranges) && i >= ranges[next].HeaderStart && i < ranges[next].End
		if !inHeader || tokens[i].Kind != token.Identifier {
			out = append(out, tokens[i])
			continue
		}

		merged := tokens[i]
		for i+2 < ranges[next].End && isSlash(tokens[i+1]) && tokens[i+2].Kind == token.Identifier {
			merged.Text += tokens[i+1].Text + tokens[i+2].Text
			i += 2
		}
		out = append(out, merged)
	}
	return out
}

func isSlash(tok token.Token) bool {
	return tok.Kind == token.Operator && tok.Text == "/"
}
