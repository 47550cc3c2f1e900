package drift

import (
	"io/fs"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/teranos/contractgen/errors"
)

// GitSource reads artifacts as committed at HEAD of the repository that
// contains Root, ignoring uncommitted edits in the working tree.
type GitSource struct {
	root     string
	repoRoot string
	tree     *object.Tree
	head     string
}

// NewGitSource opens the repository containing root and resolves HEAD.
func NewGitSource(root string) (*GitSource, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve project root")
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.WithHint(errors.Wrapf(err, "failed to open git repository at %s", abs),
			"--against-head requires the project to be inside a git repository")
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open worktree")
	}

	ref, err := repo.Head()
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve HEAD")
	}
	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load HEAD commit %s", ref.Hash())
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load HEAD tree")
	}

	return &GitSource{
		root:     abs,
		repoRoot: wt.Filesystem.Root(),
		tree:     tree,
		head:     ref.Hash().String(),
	}, nil
}

// Read returns the artifact's committed content. Paths are relative to the
// project root, or absolute.
func (s *GitSource) Read(path string) ([]byte, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.root, path)
	}
	rel, err := filepath.Rel(s.repoRoot, path)
	if err != nil {
		return nil, errors.Wrapf(err, "%s is outside the repository", path)
	}

	file, err := s.tree.File(filepath.ToSlash(rel))
	if errors.Is(err, object.ErrFileNotFound) {
		return nil, errors.Wrapf(fs.ErrNotExist, "%s not committed at HEAD", filepath.ToSlash(rel))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to look up %s at HEAD", rel)
	}

	contents, err := file.Contents()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s at HEAD", rel)
	}
	return []byte(contents), nil
}

// Describe names the commit artifacts are read from.
func (s *GitSource) Describe() string {
	if len(s.head) >= 7 {
		return "HEAD (" + s.head[:7] + ")"
	}
	return "HEAD"
}
