package lsp

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// uriToPath resolves a document URI to the filesystem path that identifies
// the document. Non-file URIs carry no identity.
func uriToPath(uri string) (string, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parsing uri %q: %w", uri, err)
	}
	if parsed.Scheme != "file" {
		return "", fmt.Errorf("uri %q is not a file", uri)
	}
	path, err := url.PathUnescape(parsed.Path)
	if err != nil {
		return "", fmt.Errorf("unescaping uri %q: %w", uri, err)
	}
	return filepath.FromSlash(path), nil
}

func pathToURI(path string) string {
	return "file://" + filepath.ToSlash(path)
}

// splitBufferLines turns buffer text into the line sequence the tracker
// works with. Same convention as baseline content: a trailing final newline
// terminates the last line, empty text is an empty sequence.
func splitBufferLines(text string) []string {
	if text == "" {
		return []string{}
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
