package lsp

import (
	"reflect"
	"testing"
)

func TestURIToPath(t *testing.T) {
	tests := []struct {
		uri     string
		want    string
		wantErr bool
	}{
		{"file:///home/u/doc.txt", "/home/u/doc.txt", false},
		{"file:///home/u/with%20space.txt", "/home/u/with space.txt", false},
		{"untitled:Untitled-1", "", true},
		{"https://example.com/doc", "", true},
	}

	for _, tt := range tests {
		got, err := uriToPath(tt.uri)
		if (err != nil) != tt.wantErr {
			t.Errorf("uriToPath(%q) err = %v, wantErr %v", tt.uri, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("uriToPath(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}

func TestPathToURIRoundTrip(t *testing.T) {
	path := "/home/u/project/main.go"
	got, err := uriToPath(pathToURI(path))
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if got != path {
		t.Fatalf("round trip = %q, want %q", got, path)
	}
}

func TestSplitBufferLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty buffer", "", []string{}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"blank lines kept", "a\n\nb\n", []string{"a", "", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitBufferLines(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitBufferLines(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

func TestCommandArguments(t *testing.T) {
	path, err := commandPath([]any{"file:///tmp/doc.txt"})
	if err != nil || path != "/tmp/doc.txt" {
		t.Errorf("commandPath = (%q, %v)", path, err)
	}
	if _, err := commandPath([]any{}); err == nil {
		t.Error("expected an error for missing uri")
	}
	if _, err := commandPath([]any{42}); err == nil {
		t.Error("expected an error for a non-string uri")
	}

	line, err := commandLine([]any{"file:///tmp/doc.txt", float64(7)})
	if err != nil || line != 7 {
		t.Errorf("commandLine = (%d, %v)", line, err)
	}
	if _, err := commandLine([]any{"file:///tmp/doc.txt"}); err == nil {
		t.Error("expected an error for missing line")
	}
}
