package gitrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/sevigo/reposync/internal/progress"
)

// FetchOutcome records the result of fetching one remote. A fetch over N
// remotes always yields exactly N outcomes, in input order; one remote
// failing never aborts its siblings.
type FetchOutcome struct {
	Remote string
	Err    error
}

func (o FetchOutcome) OK() bool { return o.Err == nil }

// FetchOptions carries the per-operation knobs shared by all remotes.
type FetchOptions struct {
	Prune       bool
	Credentials CredentialResolver
	Sink        progress.Sink
}

func (o *FetchOptions) sink() progress.Sink {
	if o.Sink == nil {
		return progress.NopSink{}
	}
	return o.Sink
}

// Fetch fetches each remote snapshot in input order. Duplicates are each
// processed independently; an empty input returns an empty slice.
func (r *Repo) Fetch(ctx context.Context, remotes []*gitconfig.RemoteConfig, opts FetchOptions) []FetchOutcome {
	outcomes := make([]FetchOutcome, 0, len(remotes))
	for _, rc := range remotes {
		err := r.fetchOne(ctx, rc, opts)
		if err != nil {
			opts.sink().Push(progress.Text(fmt.Sprintf("fetch of %s failed: %v", rc.Name, err)))
			r.logger.Error("fetch failed", "remote", rc.Name, "error", err)
		} else {
			r.logger.Info("fetch complete", "remote", rc.Name)
		}
		outcomes = append(outcomes, FetchOutcome{Remote: rc.Name, Err: err})
	}
	return outcomes
}

// FetchAll fetches every configured remote, in name order. A repository
// whose remote configuration cannot be read at all fails the whole call;
// the failure is announced through the sink before it is returned.
func (r *Repo) FetchAll(ctx context.Context, opts FetchOptions) ([]FetchOutcome, error) {
	names, err := r.RemoteNames()
	if err != nil {
		opts.sink().Push(progress.Text(fmt.Sprintf("reading remote configuration failed: %v", err)))
		return nil, err
	}
	remotes := make([]*gitconfig.RemoteConfig, 0, len(names))
	for _, name := range names {
		rc, err := r.remoteConfig(name)
		if err != nil {
			opts.sink().Push(progress.Text(fmt.Sprintf("reading remote configuration failed: %v", err)))
			return nil, err
		}
		remotes = append(remotes, rc)
	}
	return r.Fetch(ctx, remotes, opts), nil
}

// FetchByName resolves a configured remote by name and fetches it. A name
// with no configured remote is a silent no-op returning an empty slice, not
// an error. Long-standing contract; see the command layer for the warning
// it prints instead.
func (r *Repo) FetchByName(ctx context.Context, name string, opts FetchOptions) ([]FetchOutcome, error) {
	rc, err := r.remoteConfig(name)
	if err != nil {
		opts.sink().Push(progress.Text(fmt.Sprintf("reading remote configuration failed: %v", err)))
		return nil, err
	}
	if rc == nil {
		r.logger.Warn("remote not configured, skipping fetch", "remote", name)
		return []FetchOutcome{}, nil
	}
	return r.Fetch(ctx, []*gitconfig.RemoteConfig{rc}, opts), nil
}

// fetchOne drives the plumbing fetch for a single remote, translating the
// sideband stream into sink events. git.NoErrAlreadyUpToDate is success.
func (r *Repo) fetchOne(ctx context.Context, rc *gitconfig.RemoteConfig, opts FetchOptions) error {
	var auth transport.AuthMethod
	if opts.Credentials != nil {
		url := ""
		if len(rc.URLs) > 0 {
			url = rc.URLs[0]
		}
		var err error
		auth, err = opts.Credentials.Resolve(rc.Name, url)
		if err != nil {
			return fmt.Errorf("resolve credentials for %s: %w", rc.Name, err)
		}
	}

	w := progress.NewSidebandWriter(opts.sink())

	remote := git.NewRemote(r.repo.Storer, rc)
	err := remote.FetchContext(ctx, &git.FetchOptions{
		RefSpecs: rc.Fetch,
		Prune:    opts.Prune,
		Auth:     auth,
		Progress: w,
	})
	w.Flush()
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		opts.sink().Push(progress.Text(fmt.Sprintf("%s already up to date", rc.Name)))
		return nil
	}
	return err
}
