package gitrepo

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
	format "github.com/go-git/go-git/v5/plumbing/format/config"

	"github.com/sevigo/reposync/internal/progress"
)

// gitmodulesFile is the canonical submodule declaration file at the
// worktree root.
const gitmodulesFile = ".gitmodules"

// SubmoduleOutcome records the result of updating one top-level submodule.
// Recursed reports whether nested submodules were attempted; their own
// results surface only through progress events, never flattened into the
// parent's slice.
type SubmoduleOutcome struct {
	Name     string
	Path     string
	Recursed bool
	Err      error
}

func (o SubmoduleOutcome) OK() bool { return o.Err == nil }

// SubmoduleOptions carries the knobs for a submodule update pass.
type SubmoduleOptions struct {
	Recursive   bool
	Credentials CredentialResolver
	Sink        progress.Sink
}

func (o *SubmoduleOptions) sink() progress.Sink {
	if o.Sink == nil {
		return progress.NopSink{}
	}
	return o.Sink
}

// UpdateSubmodules initializes and updates every submodule declared in the
// repository's configuration, in declaration order. Failures are isolated
// per submodule: each one gets an outcome, and a failing update never stops
// the remaining submodules. A repository whose submodule configuration
// cannot be read at all fails the whole call.
func (r *Repo) UpdateSubmodules(ctx context.Context, opts SubmoduleOptions) ([]SubmoduleOutcome, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoWorktree, err)
	}
	subs, err := wt.Submodules()
	if err != nil {
		opts.sink().Push(progress.Text(fmt.Sprintf("reading submodule configuration failed: %v", err)))
		return nil, fmt.Errorf("read submodule configuration: %w", err)
	}
	sortByDeclaration(wt, subs)

	outcomes := make([]SubmoduleOutcome, 0, len(subs))
	for _, sub := range subs {
		cfg := sub.Config()
		opts.sink().Push(progress.Text(fmt.Sprintf("updating submodule %s", cfg.Name)))

		recursed, err := r.updateOne(ctx, sub, opts)
		if err != nil {
			opts.sink().Push(progress.Text(fmt.Sprintf("submodule %s failed: %v", cfg.Name, err)))
			r.logger.Error("submodule update failed", "submodule", cfg.Name, "path", cfg.Path, "error", err)
		} else {
			r.logger.Info("submodule updated", "submodule", cfg.Name, "path", cfg.Path, "recursed", recursed)
		}
		outcomes = append(outcomes, SubmoduleOutcome{
			Name:     cfg.Name,
			Path:     cfg.Path,
			Recursed: recursed,
			Err:      err,
		})
	}
	return outcomes, nil
}

// sortByDeclaration restores .gitmodules declaration order. The worktree
// hands submodules back from a map, so the file has to be decoded again to
// recover the order the user wrote. Unknown names sort last, by name.
func sortByDeclaration(wt *git.Worktree, subs git.Submodules) {
	if len(subs) < 2 {
		return
	}
	f, err := wt.Filesystem.Open(gitmodulesFile)
	if err != nil {
		return
	}
	defer f.Close()

	decoded := format.New()
	if err := format.NewDecoder(f).Decode(decoded); err != nil {
		return
	}
	rank := make(map[string]int)
	for i, sub := range decoded.Section("submodule").Subsections {
		rank[sub.Name] = i
	}
	sort.SliceStable(subs, func(i, j int) bool {
		ri, iOK := rank[subs[i].Config().Name]
		rj, jOK := rank[subs[j].Config().Name]
		switch {
		case iOK && jOK:
			return ri < rj
		case iOK:
			return true
		case jOK:
			return false
		default:
			return subs[i].Config().Name < subs[j].Config().Name
		}
	})
}

// updateOne updates a single submodule with init-if-absent semantics and,
// when requested, recurses into it. The nested repository handle lives only
// in the recursive frame; nothing is retained after the call returns.
func (r *Repo) updateOne(ctx context.Context, sub *git.Submodule, opts SubmoduleOptions) (recursed bool, err error) {
	cfg := sub.Config()

	updateOpts := &git.SubmoduleUpdateOptions{Init: true}
	if opts.Credentials != nil {
		auth, err := opts.Credentials.Resolve(cfg.Name, cfg.URL)
		if err != nil {
			return false, fmt.Errorf("resolve credentials: %w", err)
		}
		updateOpts.Auth = auth
	}

	if err := sub.UpdateContext(ctx, updateOpts); err != nil {
		return false, fmt.Errorf("update: %w", err)
	}
	if !opts.Recursive {
		return false, nil
	}

	subRepo, err := sub.Repository()
	if err != nil {
		return true, fmt.Errorf("open nested repository: %w", err)
	}
	nested := New(subRepo, r.logger)
	if _, err := nested.UpdateSubmodules(ctx, opts); err != nil {
		return true, fmt.Errorf("nested update: %w", err)
	}
	return true, nil
}
