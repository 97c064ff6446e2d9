package rcpatch

import (
	"testing"

	"github.com/arthur-debert/homelink/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	marker = "# homelink shell integration"
	rcPath = "/home/user/.zshrc"
)

var lines = []string{`source "$HOME/dotfiles/zsh/homelink.zsh"`}

func newFS(t *testing.T) *testutil.MemoryFS {
	t.Helper()
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.MkdirAll("/home/user", 0755))
	return fs
}

func TestPatchCreatesMissingFile(t *testing.T) {
	fs := newFS(t)

	result, err := Patch(fs, rcPath, marker, lines)
	require.NoError(t, err)
	assert.Equal(t, Created, result)

	content, err := fs.ReadFile(rcPath)
	require.NoError(t, err)
	assert.Equal(t, "\n"+marker+"\n"+lines[0]+"\n", string(content))
}

func TestPatchAppendsToExistingFile(t *testing.T) {
	fs := newFS(t)
	existing := "export EDITOR=nvim\nalias ll='ls -la'\n"
	require.NoError(t, fs.WriteFile(rcPath, []byte(existing), 0644))

	result, err := Patch(fs, rcPath, marker, lines)
	require.NoError(t, err)
	assert.Equal(t, Created, result)

	content, err := fs.ReadFile(rcPath)
	require.NoError(t, err)
	assert.Equal(t, existing+"\n"+marker+"\n"+lines[0]+"\n", string(content))
}

func TestPatchTerminatesUnfinishedLastLine(t *testing.T) {
	fs := newFS(t)
	require.NoError(t, fs.WriteFile(rcPath, []byte("export EDITOR=nvim"), 0644))

	result, err := Patch(fs, rcPath, marker, lines)
	require.NoError(t, err)
	assert.Equal(t, Created, result)

	content, err := fs.ReadFile(rcPath)
	require.NoError(t, err)
	assert.Equal(t, "export EDITOR=nvim\n\n"+marker+"\n"+lines[0]+"\n", string(content),
		"the marker must sit on its own line after a blank separator")
}

func TestPatchIsNoOpWhenMarkerPresent(t *testing.T) {
	fs := newFS(t)

	_, err := Patch(fs, rcPath, marker, lines)
	require.NoError(t, err)
	before, err := fs.ReadFile(rcPath)
	require.NoError(t, err)

	result, err := Patch(fs, rcPath, marker, lines)
	require.NoError(t, err)
	assert.Equal(t, AlreadyPatched, result)

	after, err := fs.ReadFile(rcPath)
	require.NoError(t, err)
	assert.Equal(t, before, after, "patched file must not change on repeat runs")
}

func TestPatchIgnoresChangedPayload(t *testing.T) {
	fs := newFS(t)

	_, err := Patch(fs, rcPath, marker, lines)
	require.NoError(t, err)
	before, err := fs.ReadFile(rcPath)
	require.NoError(t, err)

	// Marker wins even when the payload lines would differ
	result, err := Patch(fs, rcPath, marker, []string{"source /completely/different"})
	require.NoError(t, err)
	assert.Equal(t, AlreadyPatched, result)

	after, err := fs.ReadFile(rcPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestPatchMultipleLines(t *testing.T) {
	fs := newFS(t)
	payload := []string{
		`export HOMELINK_REPO_ROOT="$HOME/dotfiles"`,
		`source "$HOME/dotfiles/zsh/homelink.zsh"`,
	}

	result, err := Patch(fs, rcPath, marker, payload)
	require.NoError(t, err)
	assert.Equal(t, Created, result)

	content, err := fs.ReadFile(rcPath)
	require.NoError(t, err)
	assert.Equal(t, "\n"+marker+"\n"+payload[0]+"\n"+payload[1]+"\n", string(content))
}
