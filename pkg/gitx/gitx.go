// Package gitx wraps the git operations the update flow needs: dirty
// detection, fetch, revision comparison and fast-forward pull. Git is
// invoked as an external tool; a missing client is reported, never
// fatal.
package gitx

import (
	"github.com/arthur-debert/homelink/pkg/errors"
	"github.com/arthur-debert/homelink/pkg/execrunner"
	"github.com/arthur-debert/homelink/pkg/logging"
	"github.com/rs/zerolog"
)

// GitExecutable is the version-control binary looked up on PATH.
const GitExecutable = "git"

// Repo is a git working copy at a fixed root.
type Repo struct {
	root   string
	runner execrunner.Runner
	logger zerolog.Logger
}

// New creates a Repo for the working copy at root.
func New(root string, runner execrunner.Runner) *Repo {
	return &Repo{
		root:   root,
		runner: runner,
		logger: logging.GetLogger("gitx"),
	}
}

// Available reports whether a git client is on PATH.
func (r *Repo) Available() bool {
	_, err := r.runner.LookPath(GitExecutable)
	return err == nil
}

// IsDirty reports whether the working copy has uncommitted changes.
func (r *Repo) IsDirty() (bool, error) {
	out, err := r.runner.Output(r.root, GitExecutable, "status", "--porcelain")
	if err != nil {
		return false, errors.Wrap(err, errors.ErrGitUpdate, "git status failed")
	}
	return out != "", nil
}

// Stash saves uncommitted changes away so an update can proceed.
func (r *Repo) Stash() error {
	r.logger.Info().Str("root", r.root).Msg("stashing local changes")
	if err := r.runner.Run(r.root, GitExecutable, "stash", "push", "-m", "homelink update"); err != nil {
		return errors.Wrap(err, errors.ErrGitUpdate, "git stash failed")
	}
	return nil
}

// Fetch updates the remote tracking branch.
func (r *Repo) Fetch() error {
	if err := r.runner.Run(r.root, GitExecutable, "fetch"); err != nil {
		return errors.Wrap(err, errors.ErrGitFetch, "git fetch failed")
	}
	return nil
}

// LocalRevision returns the commit hash of HEAD.
func (r *Repo) LocalRevision() (string, error) {
	out, err := r.runner.Output(r.root, GitExecutable, "rev-parse", "HEAD")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrGitUpdate, "cannot resolve HEAD")
	}
	return out, nil
}

// RemoteRevision returns the commit hash of the upstream tracking branch.
func (r *Repo) RemoteRevision() (string, error) {
	out, err := r.runner.Output(r.root, GitExecutable, "rev-parse", "@{u}")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrGitUpdate, "cannot resolve upstream (is a tracking branch set?)")
	}
	return out, nil
}

// Behind reports whether the local HEAD differs from the already-fetched
// upstream revision.
func (r *Repo) Behind() (bool, error) {
	local, err := r.LocalRevision()
	if err != nil {
		return false, err
	}
	remote, err := r.RemoteRevision()
	if err != nil {
		return false, err
	}
	return local != remote, nil
}

// Pull fast-forwards the working copy to the upstream revision.
func (r *Repo) Pull() error {
	r.logger.Info().Str("root", r.root).Msg("pulling updates")
	if err := r.runner.Run(r.root, GitExecutable, "pull", "--ff-only"); err != nil {
		return errors.Wrap(err, errors.ErrGitUpdate, "git pull failed")
	}
	return nil
}
