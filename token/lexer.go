package token

import (
	"strings"
	"unicode/utf8"
)

var operators = []string{"**", "//", "<=", ">=", "==", "!=", "+", "-", "*", "/", ">", "<", "~", "%"}

var assigners = []string{"+=", "-=", "*=", "/=", "%=", "="}

const (
	ffiOpen  = "***\n"
	ffiClose = "\n***"
)

// Lexer is the reference scanner. It never fails: characters it does not
// recognise become Unknown tokens.
type Lexer struct {
	input  string
	pos    int
	line   int
	column int
	tokens []Token
}

func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  strings.ReplaceAll(input, "\r\n", "\n"),
		line:   1,
		column: 1,
	}
}

// Tokenize scans src completely.
func Tokenize(src string) []Token {
	l := NewLexer(src)
	for {
		if _, ok := l.NextToken(); !ok {
			break
		}
	}
	return l.tokens
}

func (l *Lexer) Position() Position {
	return Position{Line: l.line, Column: l.column}
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

func (l *Lexer) peekN(n int) rune {
	rest := l.input[l.pos:]
	for i := 0; i < n; i++ {
		if rest == "" {
			return 0
		}
		_, size := utf8.DecodeRuneInString(rest)
		rest = rest[size:]
	}
	if rest == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return r
}

func (l *Lexer) advance() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *Lexer) advanceString(s string) {
	for range s {
		l.advance()
	}
}

func (l *Lexer) atLineStart() bool {
	return l.pos == 0 || l.input[l.pos-1] == '\n'
}

// NextToken returns the next token and false at end of input.
func (l *Lexer) NextToken() (Token, bool) {
	if l.pos >= len(l.input) {
		return Token{}, false
	}

	start := l.Position()
	offset := l.pos
	ch := l.peek()
	rest := l.input[l.pos:]

	emit := func(kind Kind) (Token, bool) {
		tok := Token{Kind: kind, Text: l.input[offset:l.pos], Pos: start}
		l.tokens = append(l.tokens, tok)
		return tok, true
	}

	switch {
	case ch == '\n':
		l.advance()
		return emit(NewLine)
	case (ch == ' ' || ch == '\t') && l.atLineStart():
		if l.scanIndent() {
			return emit(Indent)
		}
		l.scanSpace()
		return emit(Space)
	case ch == ' ' || ch == '\t' || ch == '\r':
		l.scanSpace()
		return emit(Space)
	case ch == '#':
		for l.peek() != 0 && l.peek() != '\n' {
			l.advance()
		}
		return emit(LineComment)
	case strings.HasPrefix(rest, ffiOpen):
		end := strings.Index(rest[len(ffiOpen):], ffiClose)
		if end < 0 {
			l.advanceString(rest)
		} else {
			l.advanceString(rest[:len(ffiOpen)+end+len(ffiClose)])
		}
		return emit(FFIBody)
	case isDigit(ch) || (ch == '-' && isDigit(l.peekN(1)) && l.negativeAllowed()):
		l.scanNumber()
		return emit(Number)
	case ch == '"' || ch == '\'':
		l.scanString(ch)
		return emit(String)
	case ch == '@' && isIdentPart(l.peekN(1)):
		l.advance()
		for isIdentPart(l.peek()) {
			l.advance()
		}
		return emit(Mention)
	case isIdentStart(ch):
		for isIdentPart(l.peek()) {
			l.advance()
		}
		return emit(Identifier)
	}

	for _, a := range assigners {
		if strings.HasPrefix(rest, a) && !strings.HasPrefix(rest, "==") {
			l.advanceString(a)
			return emit(Assigner)
		}
	}
	for _, op := range operators {
		if strings.HasPrefix(rest, op) {
			l.advanceString(op)
			return emit(Operator)
		}
	}

	l.advance()
	switch ch {
	case ',':
		return emit(Comma)
	case '(':
		return emit(LParen)
	case ')':
		return emit(RParen)
	case '[':
		return emit(LBracket)
	case ']':
		return emit(RBracket)
	case '{':
		return emit(LBrace)
	case '}':
		return emit(RBrace)
	case ':':
		return emit(Colon)
	case '.':
		return emit(Dot)
	}
	return emit(Unknown)
}

func (l *Lexer) scanIndent() bool {
	rest := l.input[l.pos:]
	if rest[0] == '\t' {
		for l.peek() == '\t' {
			l.advance()
		}
		return true
	}
	n := len(rest) - len(strings.TrimLeft(rest, " "))
	if n%4 != 0 {
		return false
	}
	for i := 0; i < n; i++ {
		l.advance()
	}
	return true
}

func (l *Lexer) scanSpace() {
	for {
		ch := l.peek()
		if ch != ' ' && ch != '\t' && ch != '\r' {
			return
		}
		l.advance()
	}
}

func (l *Lexer) scanNumber() {
	if l.peek() == '-' {
		l.advance()
	}
	seenDot := false
	for {
		ch := l.peek()
		switch {
		case isDigit(ch):
			l.advance()
		case ch == '.' && !seenDot && isDigit(l.peekN(1)):
			seenDot = true
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) scanString(quote rune) {
	l.advance()
	for {
		ch := l.peek()
		if ch == 0 || ch == '\n' {
			return
		}
		l.advance()
		if ch == '\\' && l.peek() != 0 && l.peek() != '\n' {
			l.advance()
			continue
		}
		if ch == quote {
			return
		}
	}
}

// negativeAllowed reports whether a '-' starts a negative number rather than
// a subtraction.
func (l *Lexer) negativeAllowed() bool {
	for i := len(l.tokens) - 1; i >= 0; i-- {
		switch l.tokens[i].Kind {
		case Space, LineComment:
			continue
		case Number, Identifier, RParen, RBracket:
			return false
		}
		return true
	}
	return true
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' ||
		(r >= '가' && r <= '힣') || (r >= 'ㄱ' && r <= 'ㅎ')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}
