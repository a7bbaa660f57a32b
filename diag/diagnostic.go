// Package diag holds the diagnostic record shared by every compilation stage
// and the postprocessor that refines diagnostics before they are shown.
package diag

import (
	"fmt"

	"github.com/dhamidi/yaksok/token"
)

type Code int

const (
	CodeUnknown Code = iota
	CodeNotDefinedIdentifier
	CodeNotExecutable
	CodeNoStaticPiece
	CodeUnexpectedToken
	CodeReservedWord
	CodeUseEqualityOperator
	CodeInvalidVariableName
	CodeTooManyVariants
	CodeUnknownMention
)

var codeNames = map[Code]string{
	CodeUnknown:              "Unknown",
	CodeNotDefinedIdentifier: "NotDefinedIdentifier",
	CodeNotExecutable:        "NotExecutable",
	CodeNoStaticPiece:        "NoStaticPiece",
	CodeUnexpectedToken:      "UnexpectedToken",
	CodeReservedWord:         "ReservedWord",
	CodeUseEqualityOperator:  "UseEqualityOperator",
	CodeInvalidVariableName:  "InvalidVariableName",
	CodeTooManyVariants:      "TooManyVariants",
	CodeUnknownMention:       "UnknownMention",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "Unknown"
}

// Diagnostic is one problem found in a file. Tokens is the span it points at
// and may be empty when no span could be determined.
type Diagnostic struct {
	Code Code
	// Name is the offending text, e.g. the undefined identifier.
	Name string
	// Expected names what should have appeared, for CodeUnexpectedToken.
	Expected string
	// Detail replaces the generated message when set.
	Detail     string
	Suggestion string
	Tokens     []token.Token
}

func New(code Code, name string, tokens []token.Token) *Diagnostic {
	return &Diagnostic{Code: code, Name: name, Tokens: tokens}
}

func NotDefined(name string, tokens []token.Token) *Diagnostic {
	return New(CodeNotDefinedIdentifier, name, tokens)
}

func NotExecutable(tokens []token.Token) *Diagnostic {
	return New(CodeNotExecutable, token.Join(tokens), tokens)
}

func Unexpected(expected string, tokens []token.Token) *Diagnostic {
	d := New(CodeUnexpectedToken, token.Join(tokens), tokens)
	d.Expected = expected
	return d
}

// Message is the user-facing text.
func (d *Diagnostic) Message() string {
	if d.Detail != "" {
		return d.Detail
	}
	switch d.Code {
	case CodeNotDefinedIdentifier:
		return fmt.Sprintf("%s라는 변수나 약속을 찾을 수 없어요", d.Name)
	case CodeNotExecutable:
		return fmt.Sprintf("%q는 실행할 수 있는 코드가 아니에요", d.Name)
	case CodeNoStaticPiece:
		return "약속(번역)을 선언할 때엔 적어도 하나의 고정되는 부분이 있어야 해요."
	case CodeUnexpectedToken:
		if d.Name == "" {
			return fmt.Sprintf("%s가 와야 하는데 코드가 끝났어요.", d.Expected)
		}
		return fmt.Sprintf("%q은 %s 자리에 올 수 없어요.", d.Name, d.Expected)
	case CodeReservedWord:
		return fmt.Sprintf("%q는 예약어라서 이름으로 사용할 수 없어요.", d.Name)
	case CodeUseEqualityOperator:
		return `만약에서는 "=="(등호 두개)를 사용해야 해요.`
	case CodeInvalidVariableName:
		return fmt.Sprintf("%q는 변수 이름으로 사용할 수 없어요.", d.Name)
	case CodeTooManyVariants:
		return fmt.Sprintf("%q의 조사 조합이 너무 많아요.", d.Name)
	case CodeUnknownMention:
		return fmt.Sprintf("불러오려는 파일 %q를 찾을 수 없어요.", d.Name)
	}
	return "올바르지 않은 코드에요. 문법을 다시 확인해주세요."
}

func (d *Diagnostic) Error() string {
	if pos, ok := d.Position(); ok {
		return fmt.Sprintf("%s: %s", pos, d.Message())
	}
	return d.Message()
}

// Position is the start of the span.
func (d *Diagnostic) Position() (token.Position, bool) {
	if len(d.Tokens) == 0 {
		return token.Position{}, false
	}
	return d.Tokens[0].Pos, true
}

// End is the position just after the span.
func (d *Diagnostic) End() (token.Position, bool) {
	if len(d.Tokens) == 0 {
		return token.Position{}, false
	}
	return d.Tokens[len(d.Tokens)-1].End(), true
}

// Clone copies d so that postprocessing never mutates its input.
func (d *Diagnostic) Clone() *Diagnostic {
	c := *d
	c.Tokens = append([]token.Token(nil), d.Tokens...)
	return &c
}
