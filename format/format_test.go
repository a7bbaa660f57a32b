package format

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/yaksok/diag"
	"github.com/dhamidi/yaksok/node"
	"github.com/dhamidi/yaksok/token"
)

func TestTreeJSONEncoder(t *testing.T) {
	root := node.GroupBlocks(node.FromTokens(token.Tokenize("가 = 1")))

	var buf bytes.Buffer
	require.NoError(t, NewTreeJSONEncoder(&buf).Encode(root))

	want := `{
		"kind": "Block",
		"span": {"start": {"line": 1, "column": 1}, "end": {"line": 1, "column": 6}},
		"children": [
			{"kind": "Identifier", "text": "가", "span": {"start": {"line": 1, "column": 1}, "end": {"line": 1, "column": 2}}},
			{"kind": "Expression", "text": "=", "span": {"start": {"line": 1, "column": 3}, "end": {"line": 1, "column": 4}}},
			{"kind": "Number", "text": "1", "span": {"start": {"line": 1, "column": 5}, "end": {"line": 1, "column": 6}}}
		]
	}`
	assert.JSONEq(t, want, buf.String())
}

func TestTreeJSONEncoderDeclaration(t *testing.T) {
	body := node.NewBlock(nil)
	decl := node.NewDeclareFunction("(사람)을 칭찬하기", []string{"사람"}, body, nil)

	enc := NewTreeJSONEncoder(nil)
	enc.root = decl
	text, err := enc.MarshalText()
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"kind": "DeclareFunction",
		"name": "(사람)을 칭찬하기",
		"params": ["사람"],
		"children": [{"kind": "Block"}]
	}`, string(text))
}

func TestDiagnosticJSONEncoder(t *testing.T) {
	toks := token.Tokenize("없는값 보여주기")
	d := diag.NotDefined("없는값", toks[:1])
	d.Suggestion = "있는값"

	var buf bytes.Buffer
	require.NoError(t, NewDiagnosticJSONEncoder(&buf, "main.yak").Encode([]*diag.Diagnostic{
		d,
		diag.New(diag.CodeUnknownMention, "계산", nil),
	}))

	assert.JSONEq(t, `[
		{
			"path": "main.yak",
			"code": "NotDefinedIdentifier",
			"message": "없는값라는 변수나 약속을 찾을 수 없어요",
			"span": {"start": {"line": 1, "column": 1}, "end": {"line": 1, "column": 4}},
			"suggestion": "있는값"
		},
		{
			"path": "main.yak",
			"code": "UnknownMention",
			"message": "불러오려는 파일 \"계산\"를 찾을 수 없어요."
		}
	]`, buf.String())
}

func TestEmptyDiagnosticsEncodeAsEmptyArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewDiagnosticJSONEncoder(&buf, "").Encode(nil))
	assert.JSONEq(t, `[]`, buf.String())
}

func TestTreeJSONEncoderLoopAndDict(t *testing.T) {
	body := node.NewBlock([]node.Node{node.NewBreak(nil)})
	loop := node.NewListLoop(node.NewIdentifier("목록", nil), "값", body, nil)
	dict := node.NewDict([]node.Entry{{Key: "이름", Value: node.NewNumber("1", 1, nil)}}, nil)

	enc := NewTreeJSONEncoder(nil)
	enc.root = node.NewBlock([]node.Node{loop, dict})
	text, err := enc.MarshalText()
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"kind": "Block",
		"children": [
			{
				"kind": "ListLoop",
				"name": "값",
				"children": [
					{"kind": "Identifier", "text": "목록"},
					{"kind": "Block", "children": [{"kind": "Break"}]}
				]
			},
			{
				"kind": "Dict",
				"keys": ["이름"],
				"children": [{"kind": "Number", "text": "1"}]
			}
		]
	}`, string(text))
}
