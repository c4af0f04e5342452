package gitrepo

import (
	"fmt"
	"io"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// DivergenceIter walks the commits reachable from HEAD that the reference
// branch does not yet contain, child before parent. The walk stops at the
// first commit already in the reference lineage, so a reference close to
// the tip never forces a full history traversal. Exhaustion is io.EOF.
type DivergenceIter struct {
	inner  object.CommitIter
	refTip *object.Commit
	done   bool
}

// CommitsAheadOf starts a divergence walk against the named local branch.
// These are exactly the commits a rebase onto that branch would replay. The
// iterator is single-use; call again to re-walk from the current tip.
func (r *Repo) CommitsAheadOf(referenceBranch string) (*DivergenceIter, error) {
	ref, err := r.repo.Reference(plumbing.NewBranchReferenceName(referenceBranch), true)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBranchNotFound, referenceBranch)
	}
	refTip, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("load tip of %s: %w", referenceBranch, err)
	}
	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}
	inner, err := r.repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("walk history: %w", err)
	}
	return &DivergenceIter{inner: inner, refTip: refTip}, nil
}

// Next yields the next commit ahead of the reference, or io.EOF once the
// fork point (or the root of history) is reached.
func (it *DivergenceIter) Next() (*object.Commit, error) {
	if it.done {
		return nil, io.EOF
	}
	c, err := it.inner.Next()
	if err != nil {
		it.done = true
		return nil, err
	}
	contained, err := it.contains(c)
	if err != nil {
		it.done = true
		return nil, err
	}
	if contained {
		it.done = true
		it.inner.Close()
		return nil, io.EOF
	}
	return c, nil
}

// contains reports whether the reference lineage already has the commit,
// i.e. the commit is the reference tip or one of its ancestors.
func (it *DivergenceIter) contains(c *object.Commit) (bool, error) {
	if c.Hash == it.refTip.Hash {
		return true, nil
	}
	ok, err := c.IsAncestor(it.refTip)
	if err != nil {
		return false, fmt.Errorf("ancestry test for %s: %w", c.Hash, err)
	}
	return ok, nil
}

// ForEach applies fn to each remaining commit. Returning storer.ErrStop
// from fn ends the walk without error, matching go-git iterator behavior.
func (it *DivergenceIter) ForEach(fn func(*object.Commit) error) error {
	defer it.Close()
	for {
		c, err := it.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			if err == storer.ErrStop {
				return nil
			}
			return err
		}
	}
}

// Slice drains the iterator into an ordered slice, child to parent.
func (it *DivergenceIter) Slice() ([]*object.Commit, error) {
	var commits []*object.Commit
	err := it.ForEach(func(c *object.Commit) error {
		commits = append(commits, c)
		return nil
	})
	return commits, err
}

// Close releases the underlying commit iterator. Safe to call twice.
func (it *DivergenceIter) Close() {
	it.done = true
	it.inner.Close()
}
