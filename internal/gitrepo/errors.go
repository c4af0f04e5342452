package gitrepo

import "errors"

var (
	ErrBranchNotFound  = errors.New("branch not found in repository")
	ErrNoWorktree      = errors.New("repository has no worktree")
	ErrPathOutsideRepo = errors.New("path escapes the worktree root")
)
