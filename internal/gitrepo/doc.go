// Package gitrepo exposes repository-level git operations used by the
// publishing pipeline: worktree status queries through the shell executor,
// remote URL parsing, and read-only worktree inspection via go-git.
package gitrepo
