package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/yaksok/diag"
	"github.com/dhamidi/yaksok/extension"
)

const (
	mainSrc = "@계산 1와 2를 더하기 보여주기\n"
	libSrc  = "약속, (가)와 (나)를 더하기\n    가 + 나 반환하기\n"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func codes(diags []*diag.Diagnostic) []diag.Code {
	var out []diag.Code
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

func TestMentionResolvesRegardlessOfLoadOrder(t *testing.T) {
	dir := t.TempDir()
	main := write(t, dir, "main.yak", mainSrc)
	write(t, dir, "계산.yak", libSrc)
	write(t, dir, "notes.txt", "무시")

	w, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, w.ScanAll())

	assert.Len(t, w.Paths(), 2)
	assert.Empty(t, w.Check(main))
	assert.Equal(t, []string{"계산"}, w.GetFile(main).Result.Mentions)
}

func TestDependentsFollowDeclarationChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	require.NoError(t, err)

	lib := filepath.Join(dir, "계산.yak")
	main := filepath.Join(dir, "main.yak")
	w.UpdateFile(lib, []byte(libSrc))
	w.UpdateFile(main, []byte(mainSrc))
	require.Empty(t, w.Check(main))
	before := w.GetFile(main).Result

	w.UpdateFile(lib, []byte("약속, (가)와 (나)를 더하기\n    가 - 나 반환하기\n"))
	assert.Same(t, before, w.GetFile(main).Result, "body change must not recompile dependents")

	w.UpdateFile(lib, []byte("약속, (가)와 (나)를 빼기\n    가 - 나 반환하기\n"))
	assert.NotSame(t, before, w.GetFile(main).Result)
	assert.NotEmpty(t, w.Check(main))

	w.RemoveFile(lib)
	assert.Equal(t, []diag.Code{diag.CodeUnknownMention}, codes(w.Check(main)))
	assert.Nil(t, w.Check(lib))
}

func TestPreludeAndExtensions(t *testing.T) {
	m, err := extension.Parse([]byte("name: 거북이\nversion: 1.0.0\nnames: [거북이]\nfunctions:\n  - header: (거리)만큼 앞으로 가기\n"))
	require.NoError(t, err)

	w, err := New(t.TempDir(),
		WithPrelude("약속, 인사하기\n    \"안녕\" 보여주기\n"),
		WithExtensions(m),
	)
	require.NoError(t, err)

	main := "main.yak"
	w.UpdateFile(main, []byte("인사하기\n10만큼 앞으로 가기\n거북이 보여주기\n"))

	assert.Empty(t, w.Check(main))
	assert.Len(t, w.Prelude(), 2)
	assert.Len(t, w.Extensions(), 2)
}

func TestBrokenPreludeIsAnError(t *testing.T) {
	_, err := New(t.TempDir(), WithPrelude("약속, (가)\n    1 보여주기\n"))
	assert.Error(t, err)
}

func TestFileWatcher(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	require.NoError(t, err)

	changed := make(chan string, 16)
	fw := NewFileWatcher(w, func(path string) { changed <- path })
	require.NoError(t, fw.Start())
	defer fw.Stop()

	path := write(t, dir, "main.yak", "1 보여주기\n")

	select {
	case got := <-changed:
		assert.Equal(t, path, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
	require.Eventually(t, func() bool { return w.GetFile(path) != nil }, 5*time.Second, 10*time.Millisecond)
	assert.Empty(t, w.Check(path))
}
