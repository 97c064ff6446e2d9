package testutil

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/homelink/pkg/execrunner"
)

// Call records one command invocation made through a FakeRunner.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// String renders the call the way tests match on it.
func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// FakeRunner is a scriptable execrunner.Runner for tests.
type FakeRunner struct {
	// MissingTools are names LookPath reports as not found.
	MissingTools map[string]bool

	// RunErrs maps a command string (as rendered by Call.String) to the
	// error Run returns for it.
	RunErrs map[string]error

	// Outputs maps a command string to the stdout Output returns.
	Outputs map[string]string

	// Calls records every Run and Output invocation in order.
	Calls []Call
}

// NewFakeRunner creates an empty FakeRunner where every tool exists and
// every command succeeds with empty output.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		MissingTools: map[string]bool{},
		RunErrs:      map[string]error{},
		Outputs:      map[string]string{},
	}
}

var _ execrunner.Runner = (*FakeRunner)(nil)

func (f *FakeRunner) LookPath(name string) (string, error) {
	if f.MissingTools[name] {
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
	}
	return "/usr/local/bin/" + name, nil
}

func (f *FakeRunner) Run(dir, name string, args ...string) error {
	call := Call{Dir: dir, Name: name, Args: args}
	f.Calls = append(f.Calls, call)
	return f.RunErrs[call.String()]
}

func (f *FakeRunner) Output(dir, name string, args ...string) (string, error) {
	call := Call{Dir: dir, Name: name, Args: args}
	f.Calls = append(f.Calls, call)
	if err := f.RunErrs[call.String()]; err != nil {
		return "", err
	}
	return f.Outputs[call.String()], nil
}

// CommandStrings returns every recorded call rendered as a string.
func (f *FakeRunner) CommandStrings() []string {
	var out []string
	for _, c := range f.Calls {
		out = append(out, c.String())
	}
	return out
}
