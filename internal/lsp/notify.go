package lsp

import (
	"sort"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/FahimAnayet/gutter/internal/tracker"
)

// publishChangesMethod is the server-to-client notification carrying the
// annotation state for one document. Clients re-render the gutter wholesale
// from it.
const publishChangesMethod = "gutter/publishChanges"

type PublishChangesParams struct {
	URI     string             `json:"uri"`
	Changes []ChangeAnnotation `json:"changes"`
}

type ChangeAnnotation struct {
	// Line is 1-based in the current buffer.
	Line int    `json:"line"`
	Kind string `json:"kind"`
}

// ApplyDelta implements tracker.Renderer. The wire format is the full
// annotation state rather than the delta, so a client can never drift;
// an empty delta therefore publishes nothing.
func (ls *Server) ApplyDelta(id string, delta tracker.Delta) {
	if delta.Empty() {
		return
	}
	glspCtx := ls.notifyContext()
	if glspCtx == nil {
		return
	}

	var annotations []ChangeAnnotation
	if cs, ok := ls.tracker.ChangeSet(id); ok {
		annotations = make([]ChangeAnnotation, 0, len(cs))
		for _, rec := range cs {
			annotations = append(annotations, ChangeAnnotation{
				Line: rec.Line,
				Kind: rec.Kind.String(),
			})
		}
		sortAnnotations(annotations)
	} else {
		annotations = []ChangeAnnotation{}
	}

	glspCtx.Notify(publishChangesMethod, PublishChangesParams{
		URI:     pathToURI(id),
		Changes: annotations,
	})
}

func sortAnnotations(annotations []ChangeAnnotation) {
	sort.Slice(annotations, func(i, j int) bool {
		return annotations[i].Line < annotations[j].Line
	})
}

func showWarning(glspCtx *glsp.Context, message string) {
	if glspCtx == nil {
		return
	}
	glspCtx.Notify("window/showMessage", protocol.ShowMessageParams{
		Type:    protocol.MessageTypeWarning,
		Message: message,
	})
}
