// Package lsp adapts the tracker to an LSP-speaking editor over stdio.
// Annotations travel to the client as gutter/publishChanges notifications;
// the client owns all visual representation.
package lsp

import (
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/FahimAnayet/gutter/internal/config"
	"github.com/FahimAnayet/gutter/internal/tracker"
	"github.com/FahimAnayet/gutter/internal/watcher"
)

var log = commonlog.GetLogger("lsp")

const lsName = "gutter"

var version = "0.1.0"

type Server struct {
	cfg     config.Config
	tracker *tracker.Tracker
	watcher *watcher.Watcher // nil when disabled
	handler *protocol.Handler

	mu      sync.RWMutex
	glspCtx *glsp.Context
	// openDocs caches the latest buffer lines per path so commands that
	// arrive without document text (enable, toggle) can run a first pass.
	openDocs map[string][]string
}

// NewServer wires the tracker behind an LSP handler. The returned *Server is
// also the tracker's Renderer.
func NewServer(cfg config.Config, provider tracker.Provider) (*server.Server, *Server, error) {
	ls := &Server{
		cfg:      cfg,
		openDocs: make(map[string][]string),
	}

	ls.tracker = tracker.NewTracker(ls, provider, tracker.Options{
		Mode:      cfg.Mode(),
		QueueSize: cfg.Tracking.QueueSize,
	})

	if cfg.Watcher.Enabled {
		w, err := watcher.New(ls.baselineChangedOnDisk, cfg.WatcherDebounce())
		if err != nil {
			return nil, nil, err
		}
		ls.watcher = w
	}

	ls.handler = &protocol.Handler{
		Initialize:              ls.initialize,
		Initialized:             ls.initialized,
		SetTrace:                ls.setTrace,
		TextDocumentDidOpen:     ls.textDocumentDidOpen,
		TextDocumentDidChange:   ls.textDocumentDidChange,
		TextDocumentDidSave:     ls.textDocumentDidSave,
		TextDocumentDidClose:    ls.textDocumentDidClose,
		WorkspaceExecuteCommand: ls.executeCommand,
		Shutdown:                ls.shutdown,
	}

	return server.NewServer(ls.handler, lsName, false), ls, nil
}

// Tracker exposes the reconciler, mainly for shutdown.
func (ls *Server) Tracker() *tracker.Tracker {
	return ls.tracker
}

// setContext remembers the most recent request context; annotation deltas are
// published through it from the tracker's queue goroutines.
func (ls *Server) setContext(context *glsp.Context) {
	ls.mu.Lock()
	ls.glspCtx = context
	ls.mu.Unlock()
}

func (ls *Server) notifyContext() *glsp.Context {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return ls.glspCtx
}

func (ls *Server) rememberDoc(path string, lines []string) {
	ls.mu.Lock()
	ls.openDocs[path] = lines
	ls.mu.Unlock()
}

func (ls *Server) forgetDoc(path string) {
	ls.mu.Lock()
	delete(ls.openDocs, path)
	ls.mu.Unlock()
}

func (ls *Server) docLines(path string) []string {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return ls.openDocs[path]
}

// baselineChangedOnDisk runs on the watcher goroutine when a tracked file was
// written outside the editor.
func (ls *Server) baselineChangedOnDisk(path string) {
	ls.tracker.BaselineInvalidated(path, nil)
}
