// Package gitver resolves git revision metadata for image labeling.
package gitver

import (
	"github.com/go-git/go-git/v5"
)

// Revision holds the resolved HEAD state of the working tree.
type Revision struct {
	SHA    string // short (7-char) commit hash
	Branch string // branch name, empty on detached HEAD
}

// Detect resolves HEAD from the repository containing dir. Returns nil
// when dir is not inside a git repository or HEAD cannot be resolved;
// building outside a repository is not an error.
func Detect(dir string) *Revision {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil
	}

	head, err := repo.Head()
	if err != nil {
		return nil
	}

	rev := &Revision{SHA: head.Hash().String()[:7]}
	if head.Name().IsBranch() {
		rev.Branch = head.Name().Short()
	}
	return rev
}

// Labels returns OCI image labels describing the revision.
func (r *Revision) Labels() map[string]string {
	if r == nil {
		return nil
	}
	labels := map[string]string{
		"org.opencontainers.image.revision": r.SHA,
	}
	if r.Branch != "" {
		labels["org.opencontainers.image.source.branch"] = r.Branch
	}
	return labels
}
