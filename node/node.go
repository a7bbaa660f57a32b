// Package node defines the closed set of syntax tree nodes. Leaf nodes are
// mapped one-to-one from tokens; every other variant is produced by a rule
// reduction.
package node

import (
	"github.com/dhamidi/yaksok/token"
)

type Kind int

const (
	KindInvalid Kind = iota

	// Leaves
	KindIdentifier
	KindNumber
	KindString
	KindExpression
	KindOperator
	KindEOL
	KindIndent
	KindBlock
	KindMention
	KindFFIBody

	// Reductions
	KindParen
	KindFormula
	KindSequence
	KindList
	KindIndexFetch
	KindSetVariable
	KindPrint
	KindReturn
	KindIf
	KindElseIf
	KindElse
	KindNewInstance
	KindFunctionInvoke
	KindMethodInvoke
	KindMentionInvoke
	KindDeclareFunction
	KindDeclareMethod
	KindDeclareFFI
	KindDeclareClass
	KindLoop
	KindListLoop
	KindCountLoop
	KindBreak
	KindKeyValue
	KindDict

	// KindEvaluable is a pattern class, never the kind of a node. A pattern
	// unit of this kind matches every node that produces a value.
	KindEvaluable
)

var kindNames = map[Kind]string{
	KindInvalid:         "Invalid",
	KindIdentifier:      "Identifier",
	KindNumber:          "Number",
	KindString:          "String",
	KindExpression:      "Expression",
	KindOperator:        "Operator",
	KindEOL:             "EOL",
	KindIndent:          "Indent",
	KindBlock:           "Block",
	KindMention:         "Mention",
	KindFFIBody:         "FFIBody",
	KindParen:           "Paren",
	KindFormula:         "Formula",
	KindSequence:        "Sequence",
	KindList:            "List",
	KindIndexFetch:      "IndexFetch",
	KindSetVariable:     "SetVariable",
	KindPrint:           "Print",
	KindReturn:          "Return",
	KindIf:              "If",
	KindElseIf:          "ElseIf",
	KindElse:            "Else",
	KindNewInstance:     "NewInstance",
	KindFunctionInvoke:  "FunctionInvoke",
	KindMethodInvoke:    "MethodInvoke",
	KindMentionInvoke:   "MentionInvoke",
	KindDeclareFunction: "DeclareFunction",
	KindDeclareMethod:   "DeclareMethod",
	KindDeclareFFI:      "DeclareFFI",
	KindDeclareClass:    "DeclareClass",
	KindLoop:            "Loop",
	KindListLoop:        "ListLoop",
	KindCountLoop:       "CountLoop",
	KindBreak:           "Break",
	KindKeyValue:        "KeyValue",
	KindDict:            "Dict",
	KindEvaluable:       "Evaluable",
}

// kindLabels are the user-facing names shown in diagnostics.
var kindLabels = map[Kind]string{
	KindIdentifier:      "식별자",
	KindNumber:          "숫자",
	KindString:          "문자",
	KindExpression:      "표현식",
	KindOperator:        "연산자",
	KindEOL:             "줄바꿈",
	KindIndent:          "들여쓰기",
	KindBlock:           "코드 블록",
	KindMention:         "불러오기",
	KindFFIBody:         "번역 코드",
	KindParen:           "괄호로 묶인 값",
	KindFormula:         "계산식",
	KindSequence:        "나열된 값",
	KindList:            "목록",
	KindIndexFetch:      "목록 값 가져오기",
	KindSetVariable:     "변수 정하기",
	KindPrint:           "보여주기",
	KindReturn:          "반환하기",
	KindIf:              "만약",
	KindElseIf:          "아니면 만약",
	KindElse:            "아니면",
	KindNewInstance:     "새 객체",
	KindFunctionInvoke:  "약속 부르기",
	KindMethodInvoke:    "메소드 부르기",
	KindMentionInvoke:   "다른 파일의 약속 부르기",
	KindDeclareFunction: "약속 만들기",
	KindDeclareMethod:   "메소드 만들기",
	KindDeclareFFI:      "번역 만들기",
	KindDeclareClass:    "클래스 만들기",
	KindLoop:            "반복",
	KindListLoop:        "목록 반복",
	KindCountLoop:       "횟수 반복",
	KindBreak:           "반복 그만",
	KindKeyValue:        "키와 값",
	KindDict:            "사전",
	KindEvaluable:       "값이 있는 노드",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Label is the display name of the kind in diagnostics.
func (k Kind) Label() string {
	if label, ok := kindLabels[k]; ok {
		return label
	}
	return "노드"
}

// IsEvaluable reports whether nodes of kind k produce a value.
func (k Kind) IsEvaluable() bool {
	switch k {
	case KindIdentifier, KindNumber, KindString, KindParen, KindFormula, KindList, KindDict,
		KindIndexFetch, KindNewInstance, KindFunctionInvoke, KindMethodInvoke, KindMentionInvoke:
		return true
	}
	return false
}

// IsStatement reports whether nodes of kind k are complete statements on
// their own.
func (k Kind) IsStatement() bool {
	switch k {
	case KindSetVariable, KindPrint, KindReturn, KindIf, KindDeclareFunction,
		KindDeclareMethod, KindDeclareFFI, KindDeclareClass, KindEOL, KindBlock,
		KindLoop, KindListLoop, KindCountLoop, KindBreak:
		return true
	}
	return k.IsEvaluable()
}

// EndsLine reports whether n closes its line: nothing follows it on the same
// line in well-formed code. A nil node counts as the start of input.
func EndsLine(n Node) bool {
	if n == nil {
		return true
	}
	switch n.Kind() {
	case KindEOL, KindBlock, KindIf, KindElseIf, KindElse, KindDeclareFunction,
		KindDeclareMethod, KindDeclareFFI, KindDeclareClass, KindLoop, KindListLoop, KindCountLoop:
		return true
	}
	return false
}

// Node is implemented by the types in this package only.
type Node interface {
	Kind() Kind
	// Tokens is the source span the node was built from.
	Tokens() []token.Token
	// Text is the literal text used by literal pattern units. It is empty
	// for nodes that are not leaves.
	Text() string
	node()
}

type span struct {
	tokens []token.Token
}

func (s span) Tokens() []token.Token { return s.tokens }
func (span) Text() string            { return "" }
func (span) node()                   {}

type Identifier struct {
	span
	Name string
}

func NewIdentifier(name string, tokens []token.Token) *Identifier {
	return &Identifier{span: span{tokens}, Name: name}
}

func (*Identifier) Kind() Kind     { return KindIdentifier }
func (n *Identifier) Text() string { return n.Name }

type Number struct {
	span
	Raw   string
	Value float64
}

func NewNumber(raw string, value float64, tokens []token.Token) *Number {
	return &Number{span: span{tokens}, Raw: raw, Value: value}
}

func (*Number) Kind() Kind     { return KindNumber }
func (n *Number) Text() string { return n.Raw }

type String struct {
	span
	Value string
}

func (*String) Kind() Kind { return KindString }

// Expression is a punctuation or assignment symbol.
type Expression struct {
	span
	Symbol string
}

func NewExpression(symbol string, tokens []token.Token) *Expression {
	return &Expression{span: span{tokens}, Symbol: symbol}
}

func (*Expression) Kind() Kind     { return KindExpression }
func (n *Expression) Text() string { return n.Symbol }

type Operator struct {
	span
	Op string
}

func (*Operator) Kind() Kind     { return KindOperator }
func (n *Operator) Text() string { return n.Op }

type EOL struct {
	span
}

func NewEOL(tokens []token.Token) *EOL {
	return &EOL{span: span{tokens}}
}

func (*EOL) Kind() Kind { return KindEOL }

type Indent struct {
	span
	Level int
}

func (*Indent) Kind() Kind { return KindIndent }

// Block is one indentation scope. Its children are mutable until the block
// has been reduced.
type Block struct {
	Children []Node
}

func NewBlock(children []Node) *Block {
	return &Block{Children: children}
}

func (*Block) Kind() Kind   { return KindBlock }
func (*Block) Text() string { return "" }
func (*Block) node()        {}

func (b *Block) Tokens() []token.Token {
	return TokensOf(b.Children)
}

type Mention struct {
	span
	File string
}

func (*Mention) Kind() Kind     { return KindMention }
func (n *Mention) Text() string { return n.File }

type FFIBody struct {
	span
	Code string
}

func (*FFIBody) Kind() Kind { return KindFFIBody }

type Paren struct {
	span
	Value Node
}

func (*Paren) Kind() Kind { return KindParen }

// Formula alternates operands and operators: a + b * c is five terms.
type Formula struct {
	span
	Terms []Node
}

func (*Formula) Kind() Kind { return KindFormula }

type Sequence struct {
	span
	Items []Node
}

func (*Sequence) Kind() Kind { return KindSequence }

type List struct {
	span
	Items []Node
}

func (*List) Kind() Kind { return KindList }

type IndexFetch struct {
	span
	Target Node
	Index  Node
}

func (*IndexFetch) Kind() Kind { return KindIndexFetch }

type SetVariable struct {
	span
	Name  string
	Op    string
	Value Node
}

func (*SetVariable) Kind() Kind { return KindSetVariable }

type Print struct {
	span
	Value Node
}

func (*Print) Kind() Kind { return KindPrint }

type Return struct {
	span
	Value Node
}

func (*Return) Kind() Kind { return KindReturn }

// Case is one branch of a conditional. Cond is nil for the else branch.
type Case struct {
	Cond Node
	Body *Block
}

type If struct {
	span
	Cases []Case
}

func (*If) Kind() Kind { return KindIf }

type ElseIf struct {
	span
	Case Case
}

func (*ElseIf) Kind() Kind { return KindElseIf }

type Else struct {
	span
	Body *Block
}

func (*Else) Kind() Kind { return KindElse }

type NewInstance struct {
	span
	Class string
}

func (*NewInstance) Kind() Kind { return KindNewInstance }

// Param binds one header placeholder name to an argument node.
type Param struct {
	Name  string
	Value Node
}

type FunctionInvoke struct {
	span
	Name   string
	Params []Param
}

func (*FunctionInvoke) Kind() Kind { return KindFunctionInvoke }

type MethodInvoke struct {
	span
	Receiver Node
	Call     *FunctionInvoke
}

func (*MethodInvoke) Kind() Kind { return KindMethodInvoke }

type MentionInvoke struct {
	span
	File string
	Call Node
}

func (*MentionInvoke) Kind() Kind { return KindMentionInvoke }

type DeclareFunction struct {
	span
	Name   string
	Params []string
	Body   *Block
}

func (*DeclareFunction) Kind() Kind { return KindDeclareFunction }

type DeclareMethod struct {
	span
	Receivers []string
	Name      string
	Params    []string
	Body      *Block
}

func (*DeclareMethod) Kind() Kind { return KindDeclareMethod }

type DeclareFFI struct {
	span
	Runtime string
	Name    string
	Params  []string
	Code    string
}

func (*DeclareFFI) Kind() Kind { return KindDeclareFFI }

type DeclareClass struct {
	span
	Name string
	Body *Block
}

func (*DeclareClass) Kind() Kind { return KindDeclareClass }

type Loop struct {
	span
	Body *Block
}

func (*Loop) Kind() Kind { return KindLoop }

// ListLoop runs Body once per item of List with the item bound to Name.
type ListLoop struct {
	span
	List Node
	Name string
	Body *Block
}

func (*ListLoop) Kind() Kind { return KindListLoop }

type CountLoop struct {
	span
	Count Node
	Body  *Block
}

func (*CountLoop) Kind() Kind { return KindCountLoop }

type Break struct {
	span
}

func (*Break) Kind() Kind { return KindBreak }

// Entry is one key of a dictionary literal.
type Entry struct {
	Key   string
	Value Node
}

// KeyValue holds entries that are not yet enclosed in braces.
type KeyValue struct {
	span
	Entries []Entry
}

func (*KeyValue) Kind() Kind { return KindKeyValue }

type Dict struct {
	span
	Entries []Entry
}

func (*Dict) Kind() Kind { return KindDict }

// Span constructors for reduced nodes.

func NewParen(value Node, tokens []token.Token) *Paren {
	return &Paren{span: span{tokens}, Value: value}
}

func NewFormula(terms []Node, tokens []token.Token) *Formula {
	return &Formula{span: span{tokens}, Terms: terms}
}

func NewSequence(items []Node, tokens []token.Token) *Sequence {
	return &Sequence{span: span{tokens}, Items: items}
}

func NewList(items []Node, tokens []token.Token) *List {
	return &List{span: span{tokens}, Items: items}
}

func NewIndexFetch(target, index Node, tokens []token.Token) *IndexFetch {
	return &IndexFetch{span: span{tokens}, Target: target, Index: index}
}

func NewSetVariable(name, op string, value Node, tokens []token.Token) *SetVariable {
	return &SetVariable{span: span{tokens}, Name: name, Op: op, Value: value}
}

func NewPrint(value Node, tokens []token.Token) *Print {
	return &Print{span: span{tokens}, Value: value}
}

func NewReturn(value Node, tokens []token.Token) *Return {
	return &Return{span: span{tokens}, Value: value}
}

func NewIf(cases []Case, tokens []token.Token) *If {
	return &If{span: span{tokens}, Cases: cases}
}

func NewElseIf(c Case, tokens []token.Token) *ElseIf {
	return &ElseIf{span: span{tokens}, Case: c}
}

func NewElse(body *Block, tokens []token.Token) *Else {
	return &Else{span: span{tokens}, Body: body}
}

func NewNewInstance(class string, tokens []token.Token) *NewInstance {
	return &NewInstance{span: span{tokens}, Class: class}
}

func NewFunctionInvoke(name string, params []Param, tokens []token.Token) *FunctionInvoke {
	return &FunctionInvoke{span: span{tokens}, Name: name, Params: params}
}

func NewMethodInvoke(receiver Node, call *FunctionInvoke, tokens []token.Token) *MethodInvoke {
	return &MethodInvoke{span: span{tokens}, Receiver: receiver, Call: call}
}

func NewMentionInvoke(file string, call Node, tokens []token.Token) *MentionInvoke {
	return &MentionInvoke{span: span{tokens}, File: file, Call: call}
}

func NewDeclareFunction(name string, params []string, body *Block, tokens []token.Token) *DeclareFunction {
	return &DeclareFunction{span: span{tokens}, Name: name, Params: params, Body: body}
}

func NewDeclareMethod(receivers []string, name string, params []string, body *Block, tokens []token.Token) *DeclareMethod {
	return &DeclareMethod{span: span{tokens}, Receivers: receivers, Name: name, Params: params, Body: body}
}

func NewDeclareFFI(runtime, name string, params []string, code string, tokens []token.Token) *DeclareFFI {
	return &DeclareFFI{span: span{tokens}, Runtime: runtime, Name: name, Params: params, Code: code}
}

func NewDeclareClass(name string, body *Block, tokens []token.Token) *DeclareClass {
	return &DeclareClass{span: span{tokens}, Name: name, Body: body}
}

func NewLoop(body *Block, tokens []token.Token) *Loop {
	return &Loop{span: span{tokens}, Body: body}
}

func NewListLoop(list Node, name string, body *Block, tokens []token.Token) *ListLoop {
	return &ListLoop{span: span{tokens}, List: list, Name: name, Body: body}
}

func NewCountLoop(count Node, body *Block, tokens []token.Token) *CountLoop {
	return &CountLoop{span: span{tokens}, Count: count, Body: body}
}

func NewBreak(tokens []token.Token) *Break {
	return &Break{span: span{tokens}}
}

func NewKeyValue(entries []Entry, tokens []token.Token) *KeyValue {
	return &KeyValue{span: span{tokens}, Entries: entries}
}

func NewDict(entries []Entry, tokens []token.Token) *Dict {
	return &Dict{span: span{tokens}, Entries: entries}
}

// TokensOf concatenates the spans of nodes in order.
func TokensOf(nodes []Node) []token.Token {
	var out []token.Token
	for _, n := range nodes {
		out = append(out, n.Tokens()...)
	}
	return out
}

// Children returns the direct sub-nodes of n in source order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Block:
		return n.Children
	case *Paren:
		return []Node{n.Value}
	case *Formula:
		return n.Terms
	case *Sequence:
		return n.Items
	case *List:
		return n.Items
	case *IndexFetch:
		return []Node{n.Target, n.Index}
	case *SetVariable:
		return []Node{n.Value}
	case *Print:
		return []Node{n.Value}
	case *Return:
		if n.Value == nil {
			return nil
		}
		return []Node{n.Value}
	case *If:
		var out []Node
		for _, c := range n.Cases {
			if c.Cond != nil {
				out = append(out, c.Cond)
			}
			out = append(out, c.Body)
		}
		return out
	case *ElseIf:
		return []Node{n.Case.Cond, n.Case.Body}
	case *Else:
		return []Node{n.Body}
	case *FunctionInvoke:
		out := make([]Node, 0, len(n.Params))
		for _, p := range n.Params {
			out = append(out, p.Value)
		}
		return out
	case *MethodInvoke:
		return []Node{n.Receiver, n.Call}
	case *MentionInvoke:
		return []Node{n.Call}
	case *DeclareFunction:
		return []Node{n.Body}
	case *DeclareMethod:
		return []Node{n.Body}
	case *DeclareClass:
		return []Node{n.Body}
	case *Loop:
		return []Node{n.Body}
	case *ListLoop:
		return []Node{n.List, n.Body}
	case *CountLoop:
		return []Node{n.Count, n.Body}
	case *KeyValue:
		return entryValues(n.Entries)
	case *Dict:
		return entryValues(n.Entries)
	}
	return nil
}

func entryValues(entries []Entry) []Node {
	out := make([]Node, len(entries))
	for i, e := range entries {
		out[i] = e.Value
	}
	return out
}
