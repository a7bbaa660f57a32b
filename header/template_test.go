package header

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/yaksok/diag"
	"github.com/dhamidi/yaksok/grammar"
	"github.com/dhamidi/yaksok/node"
	"github.com/dhamidi/yaksok/token"
)

func compile(t *testing.T, src string) (*Template, error) {
	t.Helper()
	toks := MergeBranches(token.Tokenize(src))
	ranges := Ranges(toks)
	require.Len(t, ranges, 1, "declarations in %q", src)
	return Compile(ranges[0], toks)
}

func mustCompile(t *testing.T, src string) *Template {
	t.Helper()
	tmpl, err := compile(t, src)
	require.NoError(t, err)
	return tmpl
}

func TestCompilePieces(t *testing.T) {
	type piece struct {
		Kind       PieceKind
		Candidates []string
		Names      []string
	}
	tests := []struct {
		src  string
		name string
		want []piece
	}{
		{
			src:  "약속, (값)의 절댓값/절대값\n",
			name: "(값)의 절댓값/절대값",
			want: []piece{
				{Kind: PieceValue, Names: []string{"값"}},
				{Kind: PieceStatic, Candidates: []string{"의"}},
				{Kind: PieceStatic, Candidates: []string{"절댓값", "절대값"}},
			},
		},
		{
			src:  "약속, (a)와 (b)를 더하기\n",
			name: "(a)와 (b)를 더하기",
			want: []piece{
				{Kind: PieceValue, Names: []string{"a"}},
				{Kind: PieceStatic, Candidates: []string{"와"}},
				{Kind: PieceValue, Names: []string{"b"}},
				{Kind: PieceStatic, Candidates: []string{"를"}},
				{Kind: PieceStatic, Candidates: []string{"더하기", "더하고"}},
			},
		},
		{
			src:  "약속, (가, 나)를 이어붙이기/합치기\n",
			name: "(가, 나)를 이어붙이기/합치기",
			want: []piece{
				{Kind: PieceDestructure, Names: []string{"가", "나"}},
				{Kind: PieceStatic, Candidates: []string{"를"}},
				{Kind: PieceStatic, Candidates: []string{"이어붙이기", "합치기", "이어붙이고", "합치고"}},
			},
		},
		{
			src:  "약속, 인사하기 (이름)\n",
			name: "인사하기 (이름)",
			want: []piece{
				{Kind: PieceStatic, Candidates: []string{"인사하기"}},
				{Kind: PieceValue, Names: []string{"이름"}},
			},
		},
		{
			src:  "약속, 상위 부르기\n",
			name: "상위 부르기",
			want: []piece{
				{Kind: PieceStatic, Candidates: []string{"상위"}},
				{Kind: PieceStatic, Candidates: []string{"부르기", "부르고"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := mustCompile(t, tt.src)
			assert.Equal(t, tt.name, tmpl.Name)

			got := make([]piece, len(tmpl.Pieces))
			for i, p := range tmpl.Pieces {
				got[i] = piece{Kind: p.Kind, Candidates: p.Candidates, Names: p.Names}
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("pieces mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompileKeepsOriginalSlashText(t *testing.T) {
	tmpl := mustCompile(t, "약속, (값)의 절댓값/절대값\n")
	assert.Equal(t, "절댓값/절대값", tmpl.Pieces[2].Original)
	assert.NotContains(t, tmpl.Pieces[2].Candidates, "절댓값/절대값")
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		src  string
		code diag.Code
		at   string
	}{
		{"약속, (값)\n", diag.CodeNoStaticPiece, "(값)"},
		{"약속, (a) (b)\n", diag.CodeNoStaticPiece, "(a) (b)"},
		{"약속, (만약)을 하기\n", diag.CodeReservedWord, "만약"},
		{"약속, (값)을 보여주기\n", diag.CodeReservedWord, "보여주기"},
		{"약속, (1)을 하기\n", diag.CodeUnexpectedToken, "1"},
		{"약속, (값 을 하기\n", diag.CodeUnexpectedToken, "을"},
		{"약속, (값을 하기\n", diag.CodeUnexpectedToken, "하기"},
		{"약속, 값 + 하기\n", diag.CodeUnexpectedToken, "+"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := compile(t, tt.src)
			require.Error(t, err)

			var d *diag.Diagnostic
			require.True(t, errors.As(err, &d))
			assert.Equal(t, tt.code, d.Code)
			assert.Equal(t, tt.at, token.Join(d.Tokens))
		})
	}
}

func TestCompileIsIndependentPerDeclaration(t *testing.T) {
	src := "약속, (값)\n    1 보여주기\n약속, (값)을 두배하기\n    값 * 2 반환하기\n"
	toks := MergeBranches(token.Tokenize(src))
	ranges := Ranges(toks)
	require.Len(t, ranges, 2)

	_, err := Compile(ranges[0], toks)
	assert.Error(t, err)
	tmpl, err := Compile(ranges[1], toks)
	require.NoError(t, err)
	assert.Equal(t, "(값)을 두배하기", tmpl.Name)
}

func TestVariantsCartesianProduct(t *testing.T) {
	tmpl := mustCompile(t, "약속, 가/나 다 라/마/바\n")
	require.Equal(t, 6, Count(tmpl))

	rules := InvokeRules(tmpl)
	require.Len(t, rules, 6)

	got := map[[3]string]bool{}
	for _, r := range rules {
		require.Len(t, r.Pattern, 3)
		got[[3]string{r.Pattern[0].Literal, r.Pattern[1].Literal, r.Pattern[2].Literal}] = true
	}
	want := map[[3]string]bool{}
	for _, a := range []string{"가", "나"} {
		for _, c := range []string{"라", "마", "바"} {
			want[[3]string{a, "다", c}] = true
		}
	}
	assert.Equal(t, want, got)
}

func TestVariantsAreFreshCopies(t *testing.T) {
	tmpl := mustCompile(t, "약속, 가/나 하기\n")
	for pieces := range Variants(tmpl) {
		pieces[0].Candidates[0] = "changed"
	}
	assert.Equal(t, []string{"가", "나"}, tmpl.Pieces[0].Candidates)
}

func TestWithMaxVariants(t *testing.T) {
	tmpl := mustCompile(t, "약속, 가/나 다 라/마/바\n")

	assert.Len(t, InvokeRules(tmpl, WithMaxVariants(4)), 4)
	assert.Len(t, InvokeRules(tmpl, WithMaxVariants(100)), 6)

	n := 0
	for range Variants(tmpl) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestSlashAlternativesBindSameParameter(t *testing.T) {
	tmpl := mustCompile(t, "약속, (값)의 절댓값/절대값\n")
	rules := InvokeRules(tmpl)
	require.Len(t, rules, 2)

	for i, word := range []string{"절댓값", "절대값"} {
		r := rules[i]
		assert.Equal(t, []grammar.Unit{grammar.Open(node.KindEvaluable), grammar.Word("의"), grammar.Word(word)}, r.Pattern)
		assert.True(t, r.Has(grammar.FlagExported))

		nodes := node.FromTokens(token.Tokenize("사과 의 " + word))
		require.True(t, grammar.Match(nodes, r.Pattern))

		call, ok := r.Build(nodes, node.TokensOf(nodes)).(*node.FunctionInvoke)
		require.True(t, ok)
		assert.Equal(t, "(값)의 절댓값/절대값", call.Name)
		require.Len(t, call.Params, 1)
		assert.Equal(t, "값", call.Params[0].Name)
		assert.Same(t, nodes[0], call.Params[0].Value)
	}
}

func TestSlashJoinedTextIsOnlyDisplayed(t *testing.T) {
	tmpl := mustCompile(t, "약속, (값)의 절댓값/절대값\n")
	last := tmpl.Pieces[len(tmpl.Pieces)-1]

	assert.Equal(t, "절댓값/절대값", last.Original)
	assert.NotContains(t, last.Candidates, "절댓값/절대값")
	for _, r := range InvokeRules(tmpl) {
		assert.NotEqual(t, grammar.Word("절댓값/절대값"), r.Pattern[len(r.Pattern)-1])
	}
}

func TestDestructureBindsIndexFetches(t *testing.T) {
	tmpl := mustCompile(t, "약속, (가, 나)를 합치기\n")
	rules := InvokeRules(tmpl)
	require.Len(t, rules, 2)

	nodes := node.FromTokens(token.Tokenize("목록 를 합치기"))
	call := rules[0].Build(nodes, node.TokensOf(nodes)).(*node.FunctionInvoke)
	require.Len(t, call.Params, 2)
	for i, name := range []string{"가", "나"} {
		assert.Equal(t, name, call.Params[i].Name)
		fetch, ok := call.Params[i].Value.(*node.IndexFetch)
		require.True(t, ok)
		assert.Same(t, nodes[0], fetch.Target)
		assert.Equal(t, float64(i), fetch.Index.(*node.Number).Value)
	}
}

func TestMethodInvokeRules(t *testing.T) {
	toks := MergeBranches(token.Tokenize("메소드(사람), (대상)에게 인사하기\n"))
	ranges := Ranges(toks)
	require.Len(t, ranges, 1)
	assert.Equal(t, DeclMethod, ranges[0].Kind)
	assert.Equal(t, []string{"사람"}, ranges[0].Receivers)

	tmpl, err := Compile(ranges[0], toks)
	require.NoError(t, err)
	rules := CallRules(tmpl)
	require.Len(t, rules, 2)
	assert.Equal(t, grammar.Sym("."), rules[0].Pattern[1])

	nodes := node.FromTokens(token.Tokenize("철수.영희 에게 인사하기"))
	require.True(t, grammar.Match(nodes, rules[0].Pattern))
	got := rules[0].Build(nodes, node.TokensOf(nodes)).(*node.MethodInvoke)
	assert.Equal(t, "철수", got.Receiver.Text())
	assert.Equal(t, "(대상)에게 인사하기", got.Call.Name)
	assert.Equal(t, "영희", got.Call.Params[0].Value.Text())
}

func TestDeclareRule(t *testing.T) {
	tests := []struct {
		src  string
		kind node.Kind
		last node.Kind
	}{
		{"약속, (a)와 (b)를 더하기\n", node.KindDeclareFunction, node.KindBlock},
		{"번역(JavaScript), (a)와 (b)를 더하기\n", node.KindDeclareFFI, node.KindFFIBody},
		{"메소드(사람), (a)와 (b)를 더하기\n", node.KindDeclareMethod, node.KindBlock},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			tmpl := mustCompile(t, tt.src)
			r := DeclareRule(tmpl)

			assert.Equal(t, grammar.Open(tt.last), r.Pattern[len(r.Pattern)-1])
			assert.Equal(t, grammar.Open(node.KindEOL), r.Pattern[len(r.Pattern)-2])
			assert.Equal(t, grammar.Word(tmpl.Kind.Keyword()), r.Pattern[0])
			assert.False(t, r.Has(grammar.FlagExported))
		})
	}
}

func TestRangesSkipsNonDeclarations(t *testing.T) {
	src := "약속 = 3\n약속, 하기\n    약속 보여주기\n번역 보여주기\n"
	ranges := Ranges(token.Tokenize(src))
	require.Len(t, ranges, 1)
	assert.Equal(t, DeclFunction, ranges[0].Kind)
}

func TestMergeBranchesOnlyInsideHeaders(t *testing.T) {
	src := "약속, (값)의 절댓값/절대값\n    값/2 반환하기\n"
	toks := MergeBranches(token.Tokenize(src))

	var idents []string
	for _, tok := range toks {
		if tok.Kind == token.Identifier {
			idents = append(idents, tok.Text)
		}
	}
	assert.Equal(t, []string{"약속", "값", "의", "절댓값/절대값", "값", "반환하기"}, idents)
	assert.Equal(t, token.Position{Line: 1, Column: 10}, toks[8].Pos)
}

func TestDigest(t *testing.T) {
	a := mustCompile(t, "약속, (값)을 두배하기\n")
	moved := mustCompile(t, "\n\n약속,   (값)을 두배하기\n")
	other := mustCompile(t, "약속, (값)을 세배하기\n")

	da, err := a.Digest()
	require.NoError(t, err)
	dm, err := moved.Digest()
	require.NoError(t, err)
	do, err := other.Digest()
	require.NoError(t, err)

	assert.Equal(t, da, dm)
	assert.NotEqual(t, da, do)

	all1, err := DigestAll([]*Template{a, other})
	require.NoError(t, err)
	all2, err := DigestAll([]*Template{other, a})
	require.NoError(t, err)
	assert.NotEqual(t, all1, all2)
}
