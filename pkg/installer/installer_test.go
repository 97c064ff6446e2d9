package installer

import (
	"fmt"
	"testing"

	"github.com/arthur-debert/homelink/pkg/errors"
	"github.com/arthur-debert/homelink/pkg/platform"
	"github.com/arthur-debert/homelink/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifestPath = "/repo/Brewfile"

const manifest = `tap "homebrew/bundle"
brew "ripgrep"
brew "fzf"
cask "wezterm"
mas "Things", id: 904280696
`

func newTestInstaller(t *testing.T) (*Installer, *testutil.MemoryFS, *testutil.FakeRunner) {
	t.Helper()
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.MkdirAll("/repo", 0755))
	require.NoError(t, fs.MkdirAll("/tmp", 0755))
	require.NoError(t, fs.WriteFile(manifestPath, []byte(manifest), 0644))

	runner := testutil.NewFakeRunner()
	inst := New(fs, runner)
	inst.TempDir = "/tmp"
	return inst, fs, runner
}

func TestInstallSkipsWhenBrewMissing(t *testing.T) {
	inst, _, runner := newTestInstaller(t)
	runner.MissingTools["brew"] = true

	result, err := inst.Install(manifestPath, platform.Darwin, platform.Darwin)
	require.NoError(t, err)
	assert.Equal(t, Skipped, result.Kind)
	assert.Equal(t, "tool not found", result.Reason)
	assert.Empty(t, runner.Calls)
}

func TestInstallSkipsWhenManifestMissing(t *testing.T) {
	inst, fs, runner := newTestInstaller(t)
	require.NoError(t, fs.Remove(manifestPath))

	result, err := inst.Install(manifestPath, platform.Darwin, platform.Darwin)
	require.NoError(t, err)
	assert.Equal(t, Skipped, result.Kind)
	assert.Equal(t, "manifest not found", result.Reason)
	assert.Empty(t, runner.Calls)
}

func TestInstallPrimaryOSUsesManifestDirectly(t *testing.T) {
	inst, _, runner := newTestInstaller(t)

	result, err := inst.Install(manifestPath, platform.Darwin, platform.Darwin)
	require.NoError(t, err)
	assert.Equal(t, Completed, result.Kind)
	assert.Equal(t, 5, result.Installed)

	require.Len(t, runner.Calls, 1)
	assert.Equal(t, "brew bundle --file="+manifestPath, runner.Calls[0].String())
}

func TestInstallPrimaryOSFailureIsFatal(t *testing.T) {
	inst, _, runner := newTestInstaller(t)
	runner.RunErrs["brew bundle --file="+manifestPath] = fmt.Errorf("exit status 1")

	_, err := inst.Install(manifestPath, platform.Darwin, platform.Darwin)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrExternalTool))
}

func TestInstallSecondaryOSFiltersManifest(t *testing.T) {
	inst, fs, runner := newTestInstaller(t)

	result, err := inst.Install(manifestPath, platform.Linux, platform.Darwin)
	require.NoError(t, err)
	assert.Equal(t, Completed, result.Kind)
	assert.Equal(t, 3, result.Installed, "N(5) - K(2 darwin-only)")

	require.Len(t, runner.Calls, 1)
	assert.Equal(t, "brew bundle --file=/tmp/Brewfile.linux", runner.Calls[0].String())

	// Temp manifest is cleaned up after the run
	assert.False(t, fs.Exists("/tmp/Brewfile.linux"))
}

func TestInstallSecondaryOSFailureIsTolerated(t *testing.T) {
	inst, fs, runner := newTestInstaller(t)
	runner.RunErrs["brew bundle --file=/tmp/Brewfile.linux"] = fmt.Errorf("exit status 1")

	result, err := inst.Install(manifestPath, platform.Linux, platform.Darwin)
	require.NoError(t, err, "secondary-OS failure must not abort the run")
	assert.Equal(t, CompletedWithErrors, result.Kind)

	// Cleanup happens on the failure path too
	assert.False(t, fs.Exists("/tmp/Brewfile.linux"))
}

func TestInstallSecondaryOSAllEntriesFiltered(t *testing.T) {
	inst, fs, runner := newTestInstaller(t)
	require.NoError(t, fs.WriteFile(manifestPath, []byte("cask \"wezterm\"\nmas \"Things\", id: 1\n"), 0644))

	result, err := inst.Install(manifestPath, platform.Linux, platform.Darwin)
	require.NoError(t, err)
	assert.Equal(t, Skipped, result.Kind)
	assert.Empty(t, runner.Calls)
}

func TestInstallPrimaryOSToleratesUnmodeledDirectives(t *testing.T) {
	inst, fs, runner := newTestInstaller(t)
	require.NoError(t, fs.WriteFile(manifestPath, []byte("brew \"ripgrep\"\nvscode \"golang.go\"\n"), 0644))

	result, err := inst.Install(manifestPath, platform.Darwin, platform.Darwin)
	require.NoError(t, err, "a manifest brew accepts must reach brew")
	assert.Equal(t, Completed, result.Kind)
	assert.Equal(t, 2, result.Installed)

	require.Len(t, runner.Calls, 1)
	assert.Equal(t, "brew bundle --file="+manifestPath, runner.Calls[0].String())
}

func TestInstallSecondaryOSPassesThroughUnmodeledDirectives(t *testing.T) {
	inst, fs, runner := newTestInstaller(t)
	require.NoError(t, fs.WriteFile(manifestPath, []byte("brew \"ripgrep\"\nvscode \"golang.go\"\ncask \"wezterm\"\n"), 0644))

	result, err := inst.Install(manifestPath, platform.Linux, platform.Darwin)
	require.NoError(t, err)
	assert.Equal(t, Completed, result.Kind)
	assert.Equal(t, 2, result.Installed, "vscode passes the filter, cask does not")

	require.Len(t, runner.Calls, 1)
	assert.Equal(t, "brew bundle --file=/tmp/Brewfile.linux", runner.Calls[0].String())
}
