package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dhamidi/yaksok/diag"
	"github.com/dhamidi/yaksok/grammar"
	"github.com/dhamidi/yaksok/node"
	"github.com/dhamidi/yaksok/parser"
	"github.com/dhamidi/yaksok/token"
)

type finding struct {
	Code diag.Code
	Name string
}

func check(src string, opts ...Option) []finding {
	root := node.GroupBlocks(node.FromTokens(token.Tokenize(src)))
	tree := parser.Parse(root, grammar.Assemble(grammar.BaseGrammar()))
	var out []finding
	for _, d := range Block(tree, opts...) {
		out = append(out, finding{d.Code, d.Name})
	}
	return out
}

func TestBlock(t *testing.T) {
	tests := []struct {
		name string
		src  string
		opts []Option
		want []finding
	}{
		{
			name: "assigned before use",
			src:  "가 = 1\n가 + 1 보여주기\n",
		},
		{
			name: "used before assignment",
			src:  "가 보여주기\n가 = 1\n",
			want: []finding{{diag.CodeNotDefinedIdentifier, "가"}},
		},
		{
			name: "self reference",
			src:  "가 = 가 + 1\n",
			want: []finding{{diag.CodeNotDefinedIdentifier, "가"}},
		},
		{
			name: "compound assignment needs a value",
			src:  "가 += 1\n",
			want: []finding{{diag.CodeNotDefinedIdentifier, "가"}},
		},
		{
			name: "leftover nodes",
			src:  "가 = 1 보여주기\n",
			want: []finding{
				{diag.CodeNotDefinedIdentifier, "가"},
				{diag.CodeNotExecutable, "="},
				{diag.CodeNotDefinedIdentifier, "보여주기"},
			},
		},
		{
			name: "predefined names",
			src:  "원주율 보여주기\n",
			opts: []Option{WithNames("원주율")},
		},
		{
			name: "conditional bodies",
			src:  "만약 1 > 2 이면\n    나 보여주기\n",
			want: []finding{{diag.CodeNotDefinedIdentifier, "나"}},
		},
		{
			name: "list loop binds its item",
			src:  "목록 = [1, 2]\n반복 목록 의 값 마다\n    값 보여주기\n    반복 그만\n",
		},
		{
			name: "list loop over an unknown list",
			src:  "목록 의 값 마다 반복\n    값 보여주기\n",
			want: []finding{{diag.CodeNotDefinedIdentifier, "목록"}},
		},
		{
			name: "count loop",
			src:  "횟수 번 반복\n    1 보여주기\n",
			want: []finding{{diag.CodeNotDefinedIdentifier, "횟수"}},
		},
		{
			name: "dict values",
			src:  "가 = {이름: 나}\n",
			want: []finding{{diag.CodeNotDefinedIdentifier, "나"}},
		},
		{
			name: "unknown class",
			src:  "가 = 새 사람\n",
			want: []finding{{diag.CodeNotDefinedIdentifier, "사람"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, check(tt.src, tt.opts...))
		})
	}
}

func TestBlockDeclarationScopes(t *testing.T) {
	body := node.NewBlock([]node.Node{
		node.NewPrint(node.NewIdentifier("값", nil), nil),
		node.NewEOL(nil),
		node.NewSetVariable("안쪽", "=", node.NewNumber("1", 1, nil), []token.Token{{Text: "안쪽"}}),
	})
	root := node.NewBlock([]node.Node{
		node.NewDeclareFunction("(값) 보여주기2", []string{"값"}, body, nil),
		node.NewPrint(node.NewIdentifier("안쪽", []token.Token{{Text: "안쪽"}}), nil),
	})

	got := Block(root)

	if assert.Len(t, got, 1) {
		assert.Equal(t, "안쪽", got[0].Name)
	}
}

func TestBlockDestructuredArgumentOnce(t *testing.T) {
	arg := node.NewIdentifier("모름", []token.Token{{Text: "모름"}})
	call := node.NewFunctionInvoke("(가, 나) 더하기", []node.Param{
		{Name: "가", Value: node.NewIndexFetch(arg, node.NewNumber("0", 0, nil), nil)},
		{Name: "나", Value: node.NewIndexFetch(arg, node.NewNumber("1", 1, nil), nil)},
	}, nil)

	got := Block(node.NewBlock([]node.Node{call}))

	assert.Len(t, got, 1)
}
