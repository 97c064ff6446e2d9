package brewfile

import (
	"testing"

	"github.com/arthur-debert/homelink/pkg/errors"
	"github.com/arthur-debert/homelink/pkg/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBrewfile = `# tools
tap "homebrew/bundle"

brew "ripgrep"
brew "neovim", args: ["HEAD"]
brew "fzf"

# macOS apps
cask "wezterm"
cask "hammerspoon"
mas "Things", id: 904280696
`

func TestParse(t *testing.T) {
	entries, err := Parse([]byte(sampleBrewfile))
	require.NoError(t, err)
	require.Len(t, entries, 7)

	assert.Equal(t, Entry{Kind: KindTap, Name: "homebrew/bundle", Raw: `tap "homebrew/bundle"`}, entries[0])
	assert.Equal(t, KindBrew, entries[1].Kind)
	assert.Equal(t, "ripgrep", entries[1].Name)
	assert.Equal(t, "neovim", entries[2].Name, "args suffix must not leak into the name")
	assert.Equal(t, KindCask, entries[4].Kind)
	assert.Equal(t, "wezterm", entries[4].Name)
	assert.Equal(t, KindMas, entries[6].Kind)
	assert.Equal(t, "Things", entries[6].Name)
}

func TestParsePassesThroughUnmodeledDirectives(t *testing.T) {
	entries, err := Parse([]byte("brew \"fzf\"\nvscode \"golang.go\"\ncask_args appdir: \"~/Applications\"\n"))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, KindOther, entries[1].Kind)
	assert.Equal(t, `vscode "golang.go"`, entries[1].Raw)
	assert.Equal(t, KindOther, entries[2].Kind)
	assert.False(t, KindOther.DarwinOnly())
}

func TestFilterKeepsUnmodeledDirectives(t *testing.T) {
	entries, err := Parse([]byte("vscode \"golang.go\"\ncask \"wezterm\"\n"))
	require.NoError(t, err)

	kept := Filter(entries, platform.Linux)
	require.Len(t, kept, 1)
	assert.Equal(t, `vscode "golang.go"`, kept[0].Raw)
}

func TestParseRejectsBareDirective(t *testing.T) {
	_, err := Parse([]byte("brew\n"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestParse))
}

func TestParseEmpty(t *testing.T) {
	entries, err := Parse([]byte("# nothing but comments\n\n"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFilterOnDarwinKeepsEverything(t *testing.T) {
	entries, err := Parse([]byte(sampleBrewfile))
	require.NoError(t, err)

	kept := Filter(entries, platform.Darwin)
	assert.Len(t, kept, 7)
}

func TestFilterOnLinuxDropsDarwinOnlyKinds(t *testing.T) {
	entries, err := Parse([]byte(sampleBrewfile))
	require.NoError(t, err)

	kept := Filter(entries, platform.Linux)
	require.Len(t, kept, 4) // N(7) - K(3 darwin-only)
	for _, e := range kept {
		assert.False(t, e.Kind.DarwinOnly(), "%s leaked through the filter", e.Name)
	}
}

func TestRenderPreservesRawLines(t *testing.T) {
	entries, err := Parse([]byte(sampleBrewfile))
	require.NoError(t, err)

	rendered := Render(Filter(entries, platform.Linux))
	expected := "tap \"homebrew/bundle\"\nbrew \"ripgrep\"\nbrew \"neovim\", args: [\"HEAD\"]\nbrew \"fzf\"\n"
	assert.Equal(t, expected, string(rendered))
}
