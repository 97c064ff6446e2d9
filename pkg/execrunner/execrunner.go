// Package execrunner wraps external process invocation behind an
// interface so the installer and git updater can be tested without
// shelling out. Calls block until the process finishes; there is no
// timeout or cancellation, matching the interactive single-run model.
package execrunner

import (
	"os"
	"os/exec"
	"strings"
)

// Runner invokes external commands.
type Runner interface {
	// LookPath reports where an executable lives, or an error if it is
	// not on PATH.
	LookPath(name string) (string, error)

	// Run executes a command in dir (or the current directory when dir
	// is empty), inheriting stdout/stderr.
	Run(dir, name string, args ...string) error

	// Output executes a command in dir and returns its trimmed stdout.
	Output(dir, name string, args ...string) (string, error)
}

// osRunner implements Runner with os/exec
type osRunner struct{}

// NewOS creates a Runner backed by os/exec.
func NewOS() Runner {
	return &osRunner{}
}

func (r *osRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (r *osRunner) Run(dir, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}

func (r *osRunner) Output(dir, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	return strings.TrimSpace(string(out)), err
}
