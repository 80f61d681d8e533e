package lsp

import (
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// executeCommand is the editor-facing command surface: enable, disable and
// toggle tracking, navigate between changes, and list them.
func (ls *Server) executeCommand(
	glspCtx *glsp.Context,
	params *protocol.ExecuteCommandParams,
) (any, error) {
	ls.setContext(glspCtx)

	path, err := commandPath(params.Arguments)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", params.Command, err)
	}

	switch params.Command {
	case "gutter.enable":
		return ls.enablePath(glspCtx, path, ls.docLines(path)), nil

	case "gutter.disable":
		ls.disablePath(path)
		return false, nil

	case "gutter.toggle":
		if ls.tracker.Enabled(path) {
			ls.disablePath(path)
			return false, nil
		}
		return ls.enablePath(glspCtx, path, ls.docLines(path)), nil

	case "gutter.nextChange":
		line, err := commandLine(params.Arguments)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", params.Command, err)
		}
		if next, ok := ls.tracker.NextChange(path, line); ok {
			return next, nil
		}
		return nil, nil

	case "gutter.prevChange":
		line, err := commandLine(params.Arguments)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", params.Command, err)
		}
		if prev, ok := ls.tracker.PrevChange(path, line); ok {
			return prev, nil
		}
		return nil, nil

	case "gutter.listChanges":
		cs, ok := ls.tracker.ChangeSet(path)
		if !ok {
			return []ChangeAnnotation{}, nil
		}
		annotations := make([]ChangeAnnotation, 0, len(cs))
		for _, rec := range cs {
			annotations = append(annotations, ChangeAnnotation{
				Line: rec.Line,
				Kind: rec.Kind.String(),
			})
		}
		sortAnnotations(annotations)
		return annotations, nil

	default:
		return nil, fmt.Errorf("unknown command %q", params.Command)
	}
}

// commandPath extracts the document URI argument every gutter command takes
// first.
func commandPath(args []any) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("missing document uri argument")
	}
	uri, ok := args[0].(string)
	if !ok {
		return "", fmt.Errorf("document uri argument must be a string, got %T", args[0])
	}
	return uriToPath(uri)
}

// commandLine extracts the 1-based cursor line the navigation commands take
// second. JSON numbers arrive as float64.
func commandLine(args []any) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("missing line argument")
	}
	line, ok := args[1].(float64)
	if !ok {
		return 0, fmt.Errorf("line argument must be a number, got %T", args[1])
	}
	return int(line), nil
}
