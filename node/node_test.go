package node

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/yaksok/token"
)

func TestFromTokens(t *testing.T) {
	nodes := FromTokens(token.Tokenize(`값 = "한\n줄" # 설명` + "\n@계산 3.5"))

	var kinds []Kind
	for _, n := range nodes {
		kinds = append(kinds, n.Kind())
	}
	assert.Equal(t, []Kind{KindIdentifier, KindExpression, KindString, KindEOL, KindMention, KindNumber}, kinds)
	assert.Equal(t, "한\n줄", nodes[2].(*String).Value)
	assert.Equal(t, "계산", nodes[4].Text())
	assert.Equal(t, 3.5, nodes[5].(*Number).Value)
}

func TestFromTokensForeignBody(t *testing.T) {
	nodes := FromTokens(token.Tokenize("***\nreturn 1\n***"))
	require.Len(t, nodes, 1)
	assert.Equal(t, "return 1", nodes[0].(*FFIBody).Code)
}

func TestGroupBlocks(t *testing.T) {
	src := strings.Join([]string{
		"만약 참 이면",
		"    가",
		"",
		"        나",
		"    다",
		"라",
	}, "\n")

	root := GroupBlocks(FromTokens(token.Tokenize(src)))

	want := strings.Join([]string{
		"Block",
		"  Identifier 만약",
		"  Identifier 참",
		"  Identifier 이면",
		"  EOL",
		"  Block",
		"    Identifier 가",
		"    EOL",
		"    EOL",
		"    Block",
		"      Identifier 나",
		"      EOL",
		"    Identifier 다",
		"    EOL",
		"  Identifier 라",
		"",
	}, "\n")
	assert.Equal(t, want, Dump(root))
}

func TestDumpWithPositions(t *testing.T) {
	root := GroupBlocks(FromTokens(token.Tokenize("가 = 1")))
	assert.Equal(t, "Block [1:1]\n  Identifier [1:1] 가\n  Expression [1:3] \"=\"\n  Number [1:5] 1\n", DumpWithPositions(root))
}

func TestKindClasses(t *testing.T) {
	tests := []struct {
		kind      Kind
		evaluable bool
		statement bool
	}{
		{KindIdentifier, true, true},
		{KindFormula, true, true},
		{KindMentionInvoke, true, true},
		{KindPrint, false, true},
		{KindEOL, false, true},
		{KindExpression, false, false},
		{KindSequence, false, false},
		{KindElse, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.evaluable, tt.kind.IsEvaluable())
			assert.Equal(t, tt.statement, tt.kind.IsStatement())
		})
	}
	assert.Equal(t, "Unknown", Kind(999).String())
	assert.Equal(t, "목록", KindList.Label())
}

func TestEndsLine(t *testing.T) {
	assert.True(t, EndsLine(nil))
	assert.True(t, EndsLine(NewEOL(nil)))
	assert.True(t, EndsLine(NewBlock(nil)))
	assert.True(t, EndsLine(NewDeclareClass("사람", NewBlock(nil), nil)))
	assert.False(t, EndsLine(NewIdentifier("가", nil)))
	assert.False(t, EndsLine(NewPrint(NewIdentifier("가", nil), nil)))
}

func TestWalk(t *testing.T) {
	inner := NewFormula([]Node{NewIdentifier("가", nil), NewExpression("+", nil), NewIdentifier("나", nil)}, nil)
	root := NewBlock([]Node{NewPrint(inner, nil), NewEOL(nil)})

	var seen []Kind
	Walk(root, func(n Node) bool {
		seen = append(seen, n.Kind())
		return n.Kind() != KindFormula
	})

	assert.Equal(t, []Kind{KindBlock, KindPrint, KindFormula, KindEOL}, seen)
}
