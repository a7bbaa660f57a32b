// Package header compiles declaration headers into templates and expands
// their particle alternatives into invocation rules.
package header

import (
	"slices"
	"strings"

	"github.com/dhamidi/yaksok/diag"
	"github.com/dhamidi/yaksok/token"
)

type PieceKind int

const (
	PieceStatic PieceKind = iota
	PieceValue
	PieceDestructure
)

func (k PieceKind) String() string {
	switch k {
	case PieceValue:
		return "value"
	case PieceDestructure:
		return "destructure"
	}
	return "static"
}

// Piece is one element of a header. A static piece matches one of its
// Candidates literally; value and destructure pieces bind Names to an
// argument.
type Piece struct {
	Kind       PieceKind
	Candidates []string
	// Original is the unsplit text of a static piece, slashes included.
	Original string
	Names    []string
	Tokens   []token.Token
}

// Varianted reports whether expanding p produces more than one rule.
func (p Piece) Varianted() bool {
	return p.Kind == PieceStatic && len(p.Candidates) > 1
}

type Template struct {
	// Name is the header as written, trimmed, slash notation included.
	Name      string
	Kind      DeclKind
	Pieces    []Piece
	Runtime   string
	Receivers []string
	// Prefix holds the keyword tokens before the header.
	Prefix []token.Token
	Tokens []token.Token
}

// Params lists the parameter names in header order.
func (t *Template) Params() []string {
	var names []string
	for _, p := range t.Pieces {
		names = append(names, p.Names...)
	}
	return names
}

// ReservedWords cannot name a parameter. Outside the allowlist they cannot
// appear as static header words either.
var ReservedWords = map[string]bool{
	"if": true, "elif": true, "else": true,
	"아니면": true, "만약": true, "이면": true, "보여주기": true,
	"반복": true, "그만": true, "약속": true, "메소드": true, "마다": true,
	"이고": true, "고": true, "이거나": true, "거나": true,
	"번역": true, "잠깐": true, "멈추기": true, "자신": true, "상위": true,
	"람다": true,
}

var staticAllowlist = map[string]bool{
	"상위": true, "고고": true, "이고": true, "거나": true, "잠깐": true,
}

const verbSuffix, verbFormSuffix = "기", "고"

// Compile builds the template of the declaration at r. The returned error is
// a *diag.Diagnostic spanning the offending tokens.
func Compile(r Range, tokens []token.Token) (*Template, error) {
	headerTokens := r.Header(tokens)
	t := &Template{
		Name:      strings.TrimSpace(token.Join(headerTokens)),
		Kind:      r.Kind,
		Runtime:   r.Runtime,
		Receivers: r.Receivers,
		Prefix:    r.Prefix(tokens),
		Tokens:    headerTokens,
	}

	var sig []token.Token
	for _, tok := range headerTokens {
		if !tok.Kind.IsTrivia() {
			sig = append(sig, tok)
		}
	}
	if len(sig) == 0 {
		return nil, diag.Unexpected("약속 이름", t.Prefix[len(t.Prefix)-1:])
	}

	for i := 0; i < len(sig); i++ {
		tok := sig[i]
		switch tok.Kind {
		case token.LParen:
			piece, next, err := parameter(sig, i)
			if err != nil {
				return nil, err
			}
			t.Pieces = append(t.Pieces, piece)
			i = next
		case token.Identifier:
			if ReservedWords[tok.Text] && !staticAllowlist[tok.Text] {
				return nil, diag.New(diag.CodeReservedWord, tok.Text, []token.Token{tok})
			}
			t.Pieces = append(t.Pieces, Piece{
				Kind:       PieceStatic,
				Candidates: candidates(tok.Text),
				Original:   tok.Text,
				Tokens:     []token.Token{tok},
			})
		default:
			return nil, diag.Unexpected("약속 이름", []token.Token{tok})
		}
	}

	hasStatic := false
	for _, p := range t.Pieces {
		if p.Kind == PieceStatic {
			hasStatic = true
			break
		}
	}
	if !hasStatic {
		return nil, diag.New(diag.CodeNoStaticPiece, t.Name, headerTokens)
	}

	if last := &t.Pieces[len(t.Pieces)-1]; last.Kind == PieceStatic {
		last.Candidates = withVerbForms(last.Candidates)
	}
	return t, nil
}

// parameter reads `(name)` or `(name, name...)` starting at sig[i] and returns
// the index of the closing parenthesis.
func parameter(sig []token.Token, i int) (Piece, int, error) {
	open := sig[i]
	var names []string
	var toks []token.Token
	j := i + 1
	for {
		if j >= len(sig) {
			return Piece{}, j, diag.Unexpected("약속 인자", []token.Token{open})
		}
		if sig[j].Kind != token.Identifier {
			return Piece{}, j, diag.Unexpected("약속 인자", sig[j:j+1])
		}
		if ReservedWords[sig[j].Text] {
			return Piece{}, j, diag.New(diag.CodeReservedWord, sig[j].Text, sig[j:j+1])
		}
		names = append(names, sig[j].Text)
		toks = append(toks, sig[j])

		j++
		if j >= len(sig) {
			return Piece{}, j, diag.Unexpected("약속 인자를 닫는 괄호", sig[j-1:j])
		}
		switch sig[j].Kind {
		case token.RParen:
			kind := PieceValue
			if len(names) > 1 {
				kind = PieceDestructure
			}
			return Piece{Kind: kind, Names: names, Tokens: toks}, j, nil
		case token.Comma:
			j++
			continue
		}
		return Piece{}, j, diag.Unexpected("약속 인자를 닫는 괄호 또는 추가 인자", sig[j:j+1])
	}
}

// candidates splits slash alternatives. The unsplit text is not a candidate
// unless it has no slash.
func candidates(text string) []string {
	// `을/를` itself never matches a call; it survives only as Piece.Original.
	if !strings.Contains(text, "/") {
		return []string{text}
	}
	var out []string
	for _, part := range strings.Split(text, "/") {
		if part != "" && !slices.Contains(out, part) {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return []string{text}
	}
	return out
}

// withVerbForms adds the connective form of every candidate ending in 기:
// 더하기 also matches 더하고.
func withVerbForms(cands []string) []string {
	out := append([]string(nil), cands...)
	for _, c := range cands {
		if !strings.HasSuffix(c, verbSuffix) || c == verbSuffix {
			continue
		}
		form := strings.TrimSuffix(c, verbSuffix) + verbFormSuffix
		if !slices.Contains(out, form) {
			out = append(out, form)
		}
	}
	return out
}
