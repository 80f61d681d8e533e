package baseline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// resolveGit reads the file's content at the given revision from the
// enclosing git repository. The repository root is detected by walking up
// from the file's directory.
func (p *Provider) resolveGit(ctx context.Context, path, revision string) ([]string, error) {
	repo, err := git.PlainOpenWithOptions(filepath.Dir(path), &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}
	rel, err := filepath.Rel(wt.Filesystem.Root(), path)
	if err != nil {
		return nil, fmt.Errorf("relativizing %s: %w", path, err)
	}
	rel = filepath.ToSlash(rel)

	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, fmt.Errorf("resolving revision %s: %w", revision, err)
	}

	if p.cache != nil {
		if lines, ok := p.cache.Get(cacheKey(rel, revision, hash.String())); ok {
			return lines, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("getting commit: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("getting tree: %w", err)
	}
	f, err := tree.File(rel)
	if err != nil {
		return nil, fmt.Errorf("getting file %s at %s: %w", rel, revision, err)
	}
	content, err := f.Contents()
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", rel, err)
	}

	lines := splitLines(content)
	if p.cache != nil {
		if err := p.cache.Put(cacheKey(rel, revision, hash.String()), lines); err != nil {
			log.Warningf("caching baseline for %s failed: %v", rel, err)
		}
	}
	return lines, nil
}
