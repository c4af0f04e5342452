package gitrepo

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newMemRepo builds an empty in-memory repository for pure graph tests.
func newMemRepo(t *testing.T) (*git.Repository, *Repo) {
	t.Helper()
	repo, err := git.Init(memory.NewStorage(), memfs.New())
	require.NoError(t, err)
	return repo, New(repo, discardLogger())
}

// newDiskRepo builds an empty repository in a temp directory for tests that
// exercise transports or the worktree filesystem.
func newDiskRepo(t *testing.T) (string, *git.Repository, *Repo) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return dir, repo, New(repo, discardLogger())
}

// commitFile writes a file through the worktree filesystem and commits it.
func commitFile(t *testing.T, repo *git.Repository, name, content, msg string) plumbing.Hash {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, util.WriteFile(wt.Filesystem, name, []byte(content), 0o644))
	_, err = wt.Add(name)
	require.NoError(t, err)
	hash, err := wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash
}

// setBranch points a local branch at a commit without switching HEAD.
func setBranch(t *testing.T, repo *git.Repository, name string, hash plumbing.Hash) {
	t.Helper()
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), hash)
	require.NoError(t, repo.Storer.SetReference(ref))
}
