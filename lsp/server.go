// Package lsp publishes workspace diagnostics to editors over the Language
// Server Protocol.
package lsp

import (
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/yaksok/diag"
	"github.com/dhamidi/yaksok/workspace"
)

const lsName = "yaksok"

type Server struct {
	workspace *workspace.Workspace
	watcher   *workspace.FileWatcher
	handler   protocol.Handler
	server    *server.Server
	version   string
	options   []workspace.Option
	log       commonlog.Logger

	mu     sync.Mutex
	open   map[string]bool
	notify glsp.NotifyFunc
}

// NewServer creates a server whose workspace is built with opts once the
// client names the root directory.
func NewServer(version string, opts ...workspace.Option) *Server {
	ls := &Server{
		version: version,
		options: opts,
		open:    make(map[string]bool),
		log:     commonlog.GetLogger("yaksok.lsp"),
	}

	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentDidSave:   ls.textDocumentDidSave,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ws, err := workspace.New(rootDir, ls.options...)
	if err != nil {
		return nil, err
	}
	ls.workspace = ws
	ls.mu.Lock()
	ls.notify = ctx.Notify
	ls.mu.Unlock()

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.workspace.ScanAll(); err != nil {
		ls.log.Warningf("scan %s: %s", ls.workspace.RootDir(), err)
	}
	ls.watcher = workspace.NewFileWatcher(ls.workspace, func(string) {
		ls.publishOpen()
	})
	if err := ls.watcher.Start(); err != nil {
		ls.log.Warningf("watch %s: %s", ls.workspace.RootDir(), err)
		ls.watcher = nil
	}
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
	}
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.mu.Lock()
	ls.open[path] = true
	ls.mu.Unlock()
	ls.workspace.UpdateFile(path, []byte(params.TextDocument.Text))
	ls.publishOpen()
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.workspace.UpdateFile(path, []byte(textChange.Text))
			ls.publishOpen()
		}
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.mu.Lock()
	delete(ls.open, path)
	ls.mu.Unlock()
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.workspace.UpdateFile(path, []byte(*params.Text))
	} else if err := ls.workspace.ScanFile(path); err != nil {
		ls.log.Warningf("reload %s: %s", path, err)
	}
	ls.publishOpen()
	return nil
}

// publishOpen sends the diagnostics of every open document. A change to one
// file can change what the files mentioning it see.
func (ls *Server) publishOpen() {
	ls.mu.Lock()
	notify := ls.notify
	paths := make([]string, 0, len(ls.open))
	for path := range ls.open {
		paths = append(paths, path)
	}
	ls.mu.Unlock()
	if notify == nil {
		return
	}
	sort.Strings(paths)

	for _, path := range paths {
		notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         pathToURI(path),
			Diagnostics: toProtocol(ls.workspace.Check(path)),
		})
	}
}

func toProtocol(diags []*diag.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(diags))
	severity := protocol.DiagnosticSeverityError
	source := lsName
	for _, d := range diags {
		message := d.Message()
		if d.Suggestion != "" {
			message += "\n혹시 \"" + d.Suggestion + "\"를 사용하려고 했나요?"
		}
		out = append(out, protocol.Diagnostic{
			Range:    toRange(d),
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: d.Code.String()},
			Source:   &source,
			Message:  message,
		})
	}
	return out
}

// toRange converts the diagnostic span. Columns count code points, which
// equal UTF-16 units for Hangul and ASCII.
func toRange(d *diag.Diagnostic) protocol.Range {
	start, ok := d.Position()
	if !ok {
		return protocol.Range{}
	}
	end, _ := d.End()
	return protocol.Range{
		Start: protocol.Position{Line: zeroBased(start.Line), Character: zeroBased(start.Column)},
		End:   protocol.Position{Line: zeroBased(end.Line), Character: zeroBased(end.Column)},
	}
}

func zeroBased(n int) protocol.UInteger {
	if n < 1 {
		return 0
	}
	return protocol.UInteger(n - 1)
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	if strings.Contains(path, "://") {
		return path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
