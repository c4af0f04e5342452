package gitrepo

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/reposync/internal/progress"
)

func remoteTo(name, url string) *gitconfig.RemoteConfig {
	return &gitconfig.RemoteConfig{
		Name:  name,
		URLs:  []string{url},
		Fetch: []gitconfig.RefSpec{gitconfig.RefSpec("+refs/heads/*:refs/remotes/" + name + "/*")},
	}
}

func TestFetchNoRemotesIsEmpty(t *testing.T) {
	_, _, r := newDiskRepo(t)
	rec := &progress.Recorder{}

	outcomes := r.Fetch(context.Background(), nil, FetchOptions{Sink: rec})
	assert.Empty(t, outcomes)
	assert.Empty(t, rec.Events)
}

func TestFetchByNameUnknownRemoteIsNoop(t *testing.T) {
	_, _, r := newDiskRepo(t)
	rec := &progress.Recorder{}

	outcomes, err := r.FetchByName(context.Background(), "nonexistent", FetchOptions{Sink: rec})
	require.NoError(t, err, "unknown remote name is a no-op, not an error")
	assert.Empty(t, outcomes)
}

func TestFetchPartialFailureIsolation(t *testing.T) {
	srcDir, srcRepo, _ := newDiskRepo(t)
	commitFile(t, srcRepo, "a.txt", "payload", "first")

	_, _, r := newDiskRepo(t)
	rec := &progress.Recorder{}

	remotes := []*gitconfig.RemoteConfig{
		remoteTo("good", srcDir),
		remoteTo("bad", filepath.Join(srcDir, "definitely-missing")),
	}
	outcomes := r.Fetch(context.Background(), remotes, FetchOptions{Sink: rec, Credentials: AnonymousResolver{}})

	require.Len(t, outcomes, 2, "N remotes in, N outcomes out")
	assert.Equal(t, "good", outcomes[0].Remote)
	assert.True(t, outcomes[0].OK())
	assert.Equal(t, "bad", outcomes[1].Remote)
	require.Error(t, outcomes[1].Err)

	// The fetched ref landed.
	_, err := r.Underlying().Reference(plumbing.ReferenceName("refs/remotes/good/master"), true)
	assert.NoError(t, err)

	// The failure was announced through the sink.
	found := false
	for _, msg := range rec.Messages() {
		if strings.Contains(msg, "bad") && strings.Contains(msg, "failed") {
			found = true
		}
	}
	assert.True(t, found, "failure must produce a progress event, got %v", rec.Messages())
}

func TestFetchDuplicateRemotesProcessedIndependently(t *testing.T) {
	_, _, r := newDiskRepo(t)
	bad := remoteTo("bad", filepath.Join(t.TempDir(), "missing"))

	outcomes := r.Fetch(context.Background(), []*gitconfig.RemoteConfig{bad, bad}, FetchOptions{})
	require.Len(t, outcomes, 2)
	assert.Error(t, outcomes[0].Err)
	assert.Error(t, outcomes[1].Err)
}

func TestFetchAlreadyUpToDateIsSuccess(t *testing.T) {
	srcDir, srcRepo, _ := newDiskRepo(t)
	commitFile(t, srcRepo, "a.txt", "payload", "first")

	_, _, r := newDiskRepo(t)
	good := remoteTo("good", srcDir)

	outcomes := r.Fetch(context.Background(), []*gitconfig.RemoteConfig{good}, FetchOptions{})
	require.Len(t, outcomes, 1)
	require.True(t, outcomes[0].OK())

	rec := &progress.Recorder{}
	outcomes = r.Fetch(context.Background(), []*gitconfig.RemoteConfig{good}, FetchOptions{Sink: rec})
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].OK(), "no-op fetch is success, not failure")
	assert.Contains(t, rec.Messages(), "good already up to date")
}

func TestFetchAllUnreadableConfigEmitsEvent(t *testing.T) {
	dir, _, r := newDiskRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "config"), []byte("[broken"), 0o644))
	rec := &progress.Recorder{}

	_, err := r.FetchAll(context.Background(), FetchOptions{Sink: rec})
	require.Error(t, err)
	require.NotEmpty(t, rec.Events, "fatal failures must be announced through the sink")
	assert.Contains(t, rec.Events[0].Message, "failed")
}

func TestFetchByNameUnreadableConfigEmitsEvent(t *testing.T) {
	dir, _, r := newDiskRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "config"), []byte("[broken"), 0o644))
	rec := &progress.Recorder{}

	_, err := r.FetchByName(context.Background(), "origin", FetchOptions{Sink: rec})
	require.Error(t, err)
	require.NotEmpty(t, rec.Events, "fatal failures must be announced through the sink")
}

func TestFetchAllUsesConfiguredRemotes(t *testing.T) {
	srcDir, srcRepo, _ := newDiskRepo(t)
	commitFile(t, srcRepo, "a.txt", "payload", "first")

	_, repo, r := newDiskRepo(t)
	_, err := repo.CreateRemote(remoteTo("origin", srcDir))
	require.NoError(t, err)

	outcomes, err := r.FetchAll(context.Background(), FetchOptions{})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, "origin", outcomes[0].Remote)
	assert.True(t, outcomes[0].OK())
}
