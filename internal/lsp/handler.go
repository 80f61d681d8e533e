package lsp

import (
	"context"
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var commands = []string{
	"gutter.enable",
	"gutter.disable",
	"gutter.toggle",
	"gutter.nextChange",
	"gutter.prevChange",
	"gutter.listChanges",
}

func (ls *Server) initialize(
	glspCtx *glsp.Context,
	params *protocol.InitializeParams,
) (any, error) {
	ls.setContext(glspCtx)

	capabilities := ls.handler.CreateServerCapabilities()
	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
	}
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: commands,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &version,
		},
	}, nil
}

func (ls *Server) initialized(glspCtx *glsp.Context, params *protocol.InitializedParams) error {
	ls.setContext(glspCtx)
	log.Infof("server initialized")
	return nil
}

func (ls *Server) setTrace(glspCtx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) shutdown(glspCtx *glsp.Context) error {
	log.Infof("server shutting down")
	protocol.SetTraceValue(protocol.TraceValueOff)
	ls.tracker.Close()
	if ls.watcher != nil {
		ls.watcher.Close()
	}
	return nil
}

func (ls *Server) textDocumentDidOpen(
	glspCtx *glsp.Context,
	params *protocol.DidOpenTextDocumentParams,
) error {
	ls.setContext(glspCtx)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		// Documents without a file path have no identity; nothing to track.
		return nil
	}
	lines := splitBufferLines(params.TextDocument.Text)
	ls.rememberDoc(path, lines)

	if !ls.cfg.Tracking.AutoEnable || !ls.cfg.Trackable(path) {
		return nil
	}
	ls.enablePath(glspCtx, path, lines)
	return nil
}

func (ls *Server) textDocumentDidChange(
	glspCtx *glsp.Context,
	params *protocol.DidChangeTextDocumentParams,
) error {
	ls.setContext(glspCtx)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}

	// The server advertises full sync; take the last whole-document change.
	var lines []string
	for _, change := range params.ContentChanges {
		switch contentChange := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			lines = splitBufferLines(contentChange.Text)
		case protocol.TextDocumentContentChangeEvent:
			if contentChange.Range == nil {
				lines = splitBufferLines(contentChange.Text)
			}
		}
	}
	if lines == nil {
		return fmt.Errorf("incremental change received for %s with full sync advertised", path)
	}

	ls.rememberDoc(path, lines)
	ls.tracker.DocumentChanged(path, lines)
	return nil
}

func (ls *Server) textDocumentDidSave(
	glspCtx *glsp.Context,
	params *protocol.DidSaveTextDocumentParams,
) error {
	ls.setContext(glspCtx)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if ls.watcher != nil {
		ls.watcher.MarkSaved(path)
	}

	var saved []string
	if params.Text != nil {
		saved = splitBufferLines(*params.Text)
	} else {
		saved = ls.docLines(path)
	}
	ls.tracker.Saved(path, saved)
	return nil
}

func (ls *Server) textDocumentDidClose(
	glspCtx *glsp.Context,
	params *protocol.DidCloseTextDocumentParams,
) error {
	ls.setContext(glspCtx)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.forgetDoc(path)
	ls.disablePath(path)
	return nil
}

// enablePath starts tracking and reports enable failures to the user as a
// warning, per the error contract: no session, no annotations, retryable.
func (ls *Server) enablePath(glspCtx *glsp.Context, path string, lines []string) bool {
	if err := ls.tracker.Enable(context.Background(), path, lines); err != nil {
		log.Warningf("cannot track %s: %v", path, err)
		showWarning(glspCtx, fmt.Sprintf("gutter: cannot track %s: %v", path, err))
		return false
	}
	if ls.watcher != nil {
		if err := ls.watcher.Watch(path); err != nil {
			log.Warningf("cannot watch %s: %v", path, err)
		}
	}
	return true
}

func (ls *Server) disablePath(path string) {
	if ls.watcher != nil {
		ls.watcher.Unwatch(path)
	}
	ls.tracker.Disable(path)
}
