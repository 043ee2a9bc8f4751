// Package gitcheck verifies that a branch carrying source changes also
// carries changeset documents. It is the enforcement half of the check
// command: CI gates merges on it so no semver-impacting change lands without
// a recorded changeset.
package gitcheck

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/raveheart1/semversioner/internal/errors"
	"github.com/raveheart1/semversioner/internal/storage"
)

// ChangedFiles returns the paths that differ between the base branch and the
// current working tree, committed or not, relative to the repository root.
func ChangedFiles(path, base string) ([]string, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.NewUserInputError("opening git repository at %s: %v", path, err)
	}

	baseTree, err := branchTree(repo, base)
	if err != nil {
		return nil, err
	}
	headTree, err := headTree(repo)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}

	diff, err := object.DiffTree(baseTree, headTree)
	if err != nil {
		return nil, fmt.Errorf("diffing against %s: %w", base, err)
	}
	for _, change := range diff {
		if name := change.From.Name; name != "" {
			seen[name] = true
		}
		if name := change.To.Name; name != "" {
			seen[name] = true
		}
	}

	// Uncommitted work counts too: the check runs against the working tree,
	// not just what has been committed.
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("opening worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("reading worktree status: %w", err)
	}
	for file, st := range status {
		if st.Worktree != git.Unmodified || st.Staging != git.Unmodified {
			seen[file] = true
		}
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

// Check reports whether the change set rooted at path satisfies the changeset
// policy: either no changed file matches srcGlob, or at least one changeset
// document is among the changed files.
func Check(path, srcGlob, base string) (bool, error) {
	changed, err := ChangedFiles(path, base)
	if err != nil {
		return false, err
	}
	return Satisfied(changed, srcGlob), nil
}

// Satisfied applies the changeset policy to an already-computed list of
// changed files.
func Satisfied(changed []string, srcGlob string) bool {
	docPrefix := storage.DirName + "/" + storage.NextReleaseDir + "/"

	var impacted, documents int
	for _, f := range changed {
		if ok, err := doublestar.Match(srcGlob, f); err == nil && ok {
			impacted++
		}
		if strings.HasPrefix(f, docPrefix) {
			documents++
		}
	}
	return impacted == 0 || documents > 0
}

// branchTree resolves the tree of the named local branch.
func branchTree(repo *git.Repository, branch string) (*object.Tree, error) {
	ref, err := repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		return nil, errors.NewUserInputError("base branch %q not found: %v", branch, err)
	}
	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("reading commit for %s: %w", branch, err)
	}
	return commit.Tree()
}

// headTree resolves the tree of the current HEAD commit.
func headTree(repo *git.Repository) (*object.Tree, error) {
	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("reading HEAD commit: %w", err)
	}
	return commit.Tree()
}
