// Package baseline resolves the reference line sequence a tracked document is
// compared against: the last content written to disk, or the content of the
// file at a version-control revision.
package baseline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("baseline")

// ErrUnavailable means no baseline could be read for the document from any
// source. It is rare: version-control failures fall back to disk first.
var ErrUnavailable = errors.New("baseline unavailable")

// Source selects where the baseline comes from.
type Source int

const (
	FromVersionControl Source = iota
	FromDisk
)

func (s Source) String() string {
	if s == FromDisk {
		return "disk"
	}
	return "git"
}

// Mode is a fully specified baseline source. Revision is only meaningful with
// FromVersionControl; empty means HEAD.
type Mode struct {
	Source   Source
	Revision string
}

func (m Mode) revision() string {
	if m.Revision == "" {
		return "HEAD"
	}
	return m.Revision
}

// Provider resolves baselines. It is stateless per call and safe for
// concurrent use across documents. The cache is optional; behavior is
// identical without it.
type Provider struct {
	cache *Cache
}

func NewProvider(cache *Cache) *Provider {
	return &Provider{cache: cache}
}

// Resolve returns the baseline lines for the document identified by its
// absolute path. In version-control mode a failed lookup falls back to the
// on-disk content before reporting ErrUnavailable.
func (p *Provider) Resolve(ctx context.Context, id string, mode Mode) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if mode.Source == FromVersionControl {
		lines, err := p.resolveGit(ctx, id, mode.revision())
		if err == nil {
			return lines, nil
		}
		log.Debugf("git baseline for %s unavailable, trying disk: %v", id, err)
	}

	lines, err := resolveDisk(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return lines, nil
}

// splitLines turns raw file content into a line sequence. A trailing final
// newline terminates the last line rather than opening a phantom empty one;
// empty content is an empty sequence.
func splitLines(content string) []string {
	if content == "" {
		return []string{}
	}
	content = strings.TrimSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
