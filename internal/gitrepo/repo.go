// Package gitrepo is the synchronization engine for a local git working
// copy: remote fetching, recursive submodule updates and commit-graph
// divergence analysis, all reporting through a progress.Sink.
//
// Every operation is synchronous and blocks the calling goroutine for the
// duration of network and disk I/O. Callers that need a responsive UI run
// the engine on a worker goroutine and marshal events themselves.
package gitrepo

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
)

// Repo wraps a go-git repository handle and exposes the engine's operation
// surface. It holds no state of its own beyond the handle and a logger.
type Repo struct {
	repo   *git.Repository
	logger *slog.Logger
}

// Open opens the repository at path.
func Open(path string, logger *slog.Logger) (*Repo, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", path, err)
	}
	return New(repo, logger), nil
}

// New wraps an already-open repository handle.
func New(repo *git.Repository, logger *slog.Logger) *Repo {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repo{repo: repo, logger: logger}
}

// Underlying exposes the plumbing handle for callers that need go-git
// operations outside the engine's surface.
func (r *Repo) Underlying() *git.Repository {
	return r.repo
}

// BranchNames returns the short names of all local branches, sorted.
func (r *Repo) BranchNames() ([]string, error) {
	iter, err := r.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("enumerate branches: %w", err)
	}
	defer iter.Close()

	var names []string
	if err := iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	}); err != nil {
		return nil, fmt.Errorf("enumerate branches: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// RemoteNames returns the names of all configured remotes, sorted.
func (r *Repo) RemoteNames() ([]string, error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return nil, fmt.Errorf("read repository config: %w", err)
	}
	names := make([]string, 0, len(cfg.Remotes))
	for name := range cfg.Remotes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// DefaultRemoteName picks the remote to operate on when the caller names
// none: preferred if it is configured, else the alphabetically first remote.
// The second return is false when the repository has no remotes at all.
func (r *Repo) DefaultRemoteName(preferred string) (string, bool, error) {
	names, err := r.RemoteNames()
	if err != nil {
		return "", false, err
	}
	if len(names) == 0 {
		return "", false, nil
	}
	for _, name := range names {
		if name == preferred {
			return name, true, nil
		}
	}
	return names[0], true, nil
}

// remoteConfig looks up a configured remote by name. Missing remotes return
// nil with no error; callers decide whether that is a no-op or a failure.
func (r *Repo) remoteConfig(name string) (*gitconfig.RemoteConfig, error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return nil, fmt.Errorf("read repository config: %w", err)
	}
	return cfg.Remotes[name], nil
}

// WorkdirRoot returns the absolute path of the worktree root.
func (r *Repo) WorkdirRoot() (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoWorktree, err)
	}
	return wt.Filesystem.Root(), nil
}

// ResolvePath resolves a possibly-relative path against the worktree root.
// An already-absolute path comes back cleaned but otherwise unchanged. A
// relative path whose cleaned join lands outside the root is rejected with
// ErrPathOutsideRepo.
func (r *Repo) ResolvePath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	root, err := r.WorkdirRoot()
	if err != nil {
		return "", err
	}
	joined := filepath.Join(root, path)
	rel, err := filepath.Rel(root, joined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathOutsideRepo, path)
	}
	return joined, nil
}

// RevertPaths restores the listed worktree paths to their content at the
// current branch tip, discarding local modifications to exactly those paths
// and restaging them. Paths are slash-separated, relative to the worktree
// root. A path unknown to the tip commit fails the whole call.
func (r *Repo) RevertPaths(paths []string) error {
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("resolve HEAD: %w", err)
	}
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return fmt.Errorf("load HEAD commit: %w", err)
	}
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoWorktree, err)
	}

	for _, path := range paths {
		clean := filepath.ToSlash(filepath.Clean(path))
		if filepath.IsAbs(path) || clean == ".." || strings.HasPrefix(clean, "../") {
			return fmt.Errorf("%w: %s", ErrPathOutsideRepo, path)
		}
		file, err := commit.File(path)
		if err != nil {
			return fmt.Errorf("revert %s: %w", path, err)
		}
		contents, err := file.Contents()
		if err != nil {
			return fmt.Errorf("revert %s: read blob: %w", path, err)
		}
		mode, err := file.Mode.ToOSFileMode()
		if err != nil {
			return fmt.Errorf("revert %s: %w", path, err)
		}
		if err := util.WriteFile(wt.Filesystem, path, []byte(contents), mode); err != nil {
			return fmt.Errorf("revert %s: write: %w", path, err)
		}
		if _, err := wt.Add(path); err != nil {
			return fmt.Errorf("revert %s: restage: %w", path, err)
		}
	}
	return nil
}
