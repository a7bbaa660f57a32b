// Package workspace keeps every source file of a project compiled and lets
// files call each other's declarations through mentions.
package workspace

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/yaksok/codefile"
	"github.com/dhamidi/yaksok/diag"
	"github.com/dhamidi/yaksok/extension"
	"github.com/dhamidi/yaksok/grammar"
)

// Ext is the extension of source files.
const Ext = ".yak"

type Workspace struct {
	mu      sync.RWMutex
	rootDir string
	files   map[string]*File
	// digests remembers the declaration fingerprint of every file name so
	// that dependents are only recompiled when what they can call changes.
	digests map[string][32]byte

	prelude    []grammar.Rule
	extensions []grammar.Rule
	names      []string
	log        commonlog.Logger
}

type File struct {
	Path    string
	Name    string
	Content []byte
	Result  *codefile.Result
}

type Option func(*Workspace) error

// WithPrelude compiles src and makes its declarations callable from every
// file.
func WithPrelude(src string) Option {
	return func(w *Workspace) error {
		r := codefile.Compile("prelude", src, codefile.WithLogger(w.log))
		if diags := r.Check(); len(diags) > 0 {
			return fmt.Errorf("prelude: %w", diags[0])
		}
		w.prelude = append(w.prelude, r.Exports()...)
		return nil
	}
}

// WithExtensions registers the rules of host extension manifests.
func WithExtensions(manifests ...*extension.Manifest) Option {
	return func(w *Workspace) error {
		for _, m := range manifests {
			rules, err := m.Rules()
			if err != nil {
				return fmt.Errorf("extension %s: %w", m.Name, err)
			}
			w.log.Infof("registered extension %s %s with %d rules", m.Name, m.Version, len(rules))
			w.extensions = append(w.extensions, rules...)
			w.names = append(w.names, m.Names...)
		}
		return nil
	}
}

func WithLogger(log commonlog.Logger) Option {
	return func(w *Workspace) error {
		w.log = log
		return nil
	}
}

func New(rootDir string, opts ...Option) (*Workspace, error) {
	w := &Workspace{
		rootDir: rootDir,
		files:   make(map[string]*File),
		digests: make(map[string][32]byte),
		log:     commonlog.GetLogger("yaksok.workspace"),
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

// NameOf is the name other files mention path by: its base name without
// the extension.
func NameOf(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func (w *Workspace) ScanAll() error {
	return filepath.Walk(w.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != w.rootDir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == Ext {
			if err := w.ScanFile(path); err != nil {
				w.log.Warningf("scan %s: %s", path, err)
			}
		}
		return nil
	})
}

func (w *Workspace) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	w.UpdateFile(path, content)
	return nil
}

// UpdateFile compiles content as path. Files that mention path are
// recompiled when the declarations of path changed.
func (w *Workspace) UpdateFile(path string, content []byte) *File {
	w.mu.Lock()
	defer w.mu.Unlock()

	f := w.compileLocked(path, content)
	w.log.Infof("loaded %s", path)
	w.refreshLocked(f.Name, f.Result.Digest)
	return f
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, ok := w.files[path]
	if !ok {
		return
	}
	delete(w.files, path)
	delete(w.digests, f.Name)
	w.recompileDependentsLocked(f.Name)
}

func (w *Workspace) compileLocked(path string, content []byte) *File {
	f := &File{
		Path:    path,
		Name:    NameOf(path),
		Content: content,
	}
	f.Result = codefile.Compile(f.Name, string(content),
		codefile.WithSession(lockedSession{w}),
		codefile.WithNames(w.names...),
		codefile.WithLogger(w.log),
	)
	w.files[path] = f
	return f
}

func (w *Workspace) refreshLocked(name string, digest func() ([32]byte, error)) {
	sum, err := digest()
	if err != nil {
		w.log.Errorf("digest of %s: %s", name, err)
		w.recompileDependentsLocked(name)
		return
	}
	if old, ok := w.digests[name]; ok && old == sum {
		return
	}
	w.digests[name] = sum
	w.recompileDependentsLocked(name)
}

// recompileDependentsLocked recompiles every file mentioning name. The
// exports of a file depend on its own declarations only, so one level is
// enough.
func (w *Workspace) recompileDependentsLocked(name string) {
	mention := []byte("@" + name)
	for _, path := range w.pathsLocked() {
		f := w.files[path]
		if f.Name == name || !bytes.Contains(f.Content, mention) {
			continue
		}
		w.log.Debugf("recompiling %s after change to %s", path, name)
		w.compileLocked(path, f.Content)
	}
}

func (w *Workspace) pathsLocked() []string {
	paths := make([]string, 0, len(w.files))
	for path := range w.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func (w *Workspace) GetFile(path string) *File {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

// Paths lists the loaded files in order.
func (w *Workspace) Paths() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pathsLocked()
}

// Check returns the diagnostics of path, or nil when it is not loaded.
func (w *Workspace) Check(path string) []*diag.Diagnostic {
	f := w.GetFile(path)
	if f == nil {
		return nil
	}
	return f.Result.Check()
}

// Exports returns the call rules of the file mentioned as name.
func (w *Workspace) Exports(name string) ([]grammar.Rule, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return lockedSession{w}.Exports(name)
}

func (w *Workspace) Prelude() []grammar.Rule {
	return w.prelude
}

func (w *Workspace) Extensions() []grammar.Rule {
	return w.extensions
}

// lockedSession serves compilations that run while w.mu is held.
type lockedSession struct {
	w *Workspace
}

func (s lockedSession) Exports(name string) ([]grammar.Rule, bool) {
	for _, path := range s.w.pathsLocked() {
		if f := s.w.files[path]; f.Name == name {
			return f.Result.Exports(), true
		}
	}
	return nil, false
}

func (s lockedSession) Prelude() []grammar.Rule    { return s.w.prelude }
func (s lockedSession) Extensions() []grammar.Rule { return s.w.extensions }
