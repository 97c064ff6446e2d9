package linker

import (
	"testing"
	"time"

	"github.com/arthur-debert/homelink/pkg/clock"
	"github.com/arthur-debert/homelink/pkg/errors"
	"github.com/arthur-debert/homelink/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func newTestLinker(t *testing.T) (*Linker, *testutil.MemoryFS, *clock.FakeClock) {
	t.Helper()
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.MkdirAll("/repo/.config/nvim", 0755))
	require.NoError(t, fs.MkdirAll("/home/user", 0755))
	clk := clock.NewFakeClock(testTime)
	return New(fs, clk), fs, clk
}

func TestLinkFreshTarget(t *testing.T) {
	l, fs, _ := newTestLinker(t)

	result, backup, err := l.Link("/repo/.config", "/home/user/.config", PolicyFatal)
	require.NoError(t, err)
	assert.Equal(t, Linked, result)
	assert.Empty(t, backup)

	dest, err := fs.Readlink("/home/user/.config")
	require.NoError(t, err)
	assert.Equal(t, "/repo/.config", dest)
}

func TestLinkCreatesMissingParent(t *testing.T) {
	l, fs, _ := newTestLinker(t)
	require.NoError(t, fs.MkdirAll("/repo/CLAUDE.md-dir", 0755))
	require.NoError(t, fs.WriteFile("/repo/CLAUDE.md-dir/CLAUDE.md", []byte("guidance"), 0644))

	result, _, err := l.Link("/repo/CLAUDE.md-dir/CLAUDE.md", "/home/user/.claude/CLAUDE.md", PolicyFatal)
	require.NoError(t, err)
	assert.Equal(t, Linked, result)

	content, err := fs.ReadFile("/home/user/.claude/CLAUDE.md")
	require.NoError(t, err)
	assert.Equal(t, "guidance", string(content))
}

func TestLinkIdempotent(t *testing.T) {
	l, fs, _ := newTestLinker(t)

	_, _, err := l.Link("/repo/.config", "/home/user/.config", PolicyFatal)
	require.NoError(t, err)

	result, backup, err := l.Link("/repo/.config", "/home/user/.config", PolicyFatal)
	require.NoError(t, err)
	assert.Equal(t, AlreadyLinked, result)
	assert.Empty(t, backup)

	// Second run must create no backups
	assert.False(t, fs.Exists("/home/user/.config.backup.20240315103000"))
}

func TestLinkBacksUpRealDirectory(t *testing.T) {
	l, fs, _ := newTestLinker(t)
	require.NoError(t, fs.MkdirAll("/home/user/.config/old-app", 0755))
	require.NoError(t, fs.WriteFile("/home/user/.config/old-app/settings", []byte("old"), 0644))

	result, backup, err := l.Link("/repo/.config", "/home/user/.config", PolicyFatal)
	require.NoError(t, err)
	assert.Equal(t, BackedUpAndLinked, result)
	assert.Equal(t, "/home/user/.config.backup.20240315103000", backup)

	// Backup preserves the original contents
	content, err := fs.ReadFile("/home/user/.config.backup.20240315103000/old-app/settings")
	require.NoError(t, err)
	assert.Equal(t, "old", string(content))

	// Target is now the expected link
	dest, err := fs.Readlink("/home/user/.config")
	require.NoError(t, err)
	assert.Equal(t, "/repo/.config", dest)
}

func TestLinkBacksUpRealFile(t *testing.T) {
	l, fs, _ := newTestLinker(t)
	require.NoError(t, fs.WriteFile("/home/user/.zshenv", []byte("export FOO=1"), 0644))
	require.NoError(t, fs.MkdirAll("/repo/zsh", 0755))
	require.NoError(t, fs.WriteFile("/repo/zsh/zshenv", []byte("new"), 0644))

	result, backup, err := l.Link("/repo/zsh/zshenv", "/home/user/.zshenv", PolicyFatal)
	require.NoError(t, err)
	assert.Equal(t, BackedUpAndLinked, result)

	content, err := fs.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "export FOO=1", string(content))
}

func TestLinkForeignSymlinkFatal(t *testing.T) {
	l, fs, _ := newTestLinker(t)
	require.NoError(t, fs.MkdirAll("/somewhere/else", 0755))
	require.NoError(t, fs.Symlink("/somewhere/else", "/home/user/.config"))

	_, _, err := l.Link("/repo/.config", "/home/user/.config", PolicyFatal)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConflict))

	// Filesystem untouched: the foreign link is still in place
	dest, readErr := fs.Readlink("/home/user/.config")
	require.NoError(t, readErr)
	assert.Equal(t, "/somewhere/else", dest)
}

func TestLinkForeignSymlinkBackup(t *testing.T) {
	l, fs, _ := newTestLinker(t)
	require.NoError(t, fs.MkdirAll("/somewhere/else", 0755))
	require.NoError(t, fs.Symlink("/somewhere/else", "/home/user/.config"))

	result, backup, err := l.Link("/repo/.config", "/home/user/.config", PolicyBackup)
	require.NoError(t, err)
	assert.Equal(t, BackedUpAndLinked, result)

	// The foreign link itself was renamed, not followed
	dest, err := fs.Readlink(backup)
	require.NoError(t, err)
	assert.Equal(t, "/somewhere/else", dest)

	dest, err = fs.Readlink("/home/user/.config")
	require.NoError(t, err)
	assert.Equal(t, "/repo/.config", dest)
}

func TestLinkBrokenSymlinkTreatedAsForeign(t *testing.T) {
	l, fs, _ := newTestLinker(t)
	require.NoError(t, fs.Symlink("/does/not/exist", "/home/user/.config"))

	_, _, err := l.Link("/repo/.config", "/home/user/.config", PolicyFatal)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConflict))
}

func TestBackupCollisionWithinSameSecond(t *testing.T) {
	l, fs, _ := newTestLinker(t)
	require.NoError(t, fs.MkdirAll("/somewhere/a", 0755))
	require.NoError(t, fs.MkdirAll("/somewhere/b", 0755))

	// First backup occupies the plain timestamped name
	require.NoError(t, fs.Symlink("/somewhere/a", "/home/user/.config"))
	_, backup1, err := l.Link("/repo/.config", "/home/user/.config", PolicyBackup)
	require.NoError(t, err)

	// Replace the fresh link with another foreign one; clock has not moved
	require.NoError(t, fs.Remove("/home/user/.config"))
	require.NoError(t, fs.Symlink("/somewhere/b", "/home/user/.config"))
	_, backup2, err := l.Link("/repo/.config", "/home/user/.config", PolicyBackup)
	require.NoError(t, err)

	assert.NotEqual(t, backup1, backup2)
	assert.Equal(t, backup1+".1", backup2)
}

func TestLinkChildren(t *testing.T) {
	l, fs, _ := newTestLinker(t)
	require.NoError(t, fs.MkdirAll("/repo/.config/git", 0755))
	require.NoError(t, fs.MkdirAll("/repo/.config/wezterm", 0755))
	require.NoError(t, fs.MkdirAll("/home/user/.config", 0755))

	results, err := l.LinkChildren("/repo/.config", "/home/user/.config")
	require.NoError(t, err)
	require.Len(t, results, 3) // git, nvim, wezterm

	for _, r := range results {
		assert.Equal(t, Linked, r.Result)
		dest, err := fs.Readlink(r.Target)
		require.NoError(t, err)
		assert.Equal(t, "/repo/.config/"+r.Name, dest)
	}
}

func TestLinkChildrenIdempotent(t *testing.T) {
	l, _, _ := newTestLinker(t)

	_, err := l.LinkChildren("/repo/.config", "/home/user/.config")
	require.NoError(t, err)

	results, err := l.LinkChildren("/repo/.config", "/home/user/.config")
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, AlreadyLinked, r.Result)
		assert.Empty(t, r.BackupPath)
	}
}

func TestLinkChildrenBacksUpConflictingChild(t *testing.T) {
	l, fs, _ := newTestLinker(t)
	require.NoError(t, fs.MkdirAll("/home/user/.config/nvim", 0755))
	require.NoError(t, fs.WriteFile("/home/user/.config/nvim/init.lua", []byte("old config"), 0644))

	results, err := l.LinkChildren("/repo/.config", "/home/user/.config")
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, BackedUpAndLinked, results[0].Result)
	content, err := fs.ReadFile(results[0].BackupPath + "/init.lua")
	require.NoError(t, err)
	assert.Equal(t, "old config", string(content))
}

func TestLinkChildrenMigratesLegacyLayout(t *testing.T) {
	l, fs, _ := newTestLinker(t)
	// Legacy layout: ~/.config is one symlink to the repo config root
	require.NoError(t, fs.Symlink("/repo/.config", "/home/user/.config"))

	results, err := l.LinkChildren("/repo/.config", "/home/user/.config")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, Linked, results[0].Result)

	// ~/.config is now a real directory containing per-entry links
	info, err := fs.Lstat("/home/user/.config")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	dest, err := fs.Readlink("/home/user/.config/nvim")
	require.NoError(t, err)
	assert.Equal(t, "/repo/.config/nvim", dest)

	// Running the migration again is a no-op
	results, err = l.LinkChildren("/repo/.config", "/home/user/.config")
	require.NoError(t, err)
	assert.Equal(t, AlreadyLinked, results[0].Result)
}

func TestLinkChildrenBacksUpForeignDirLink(t *testing.T) {
	l, fs, _ := newTestLinker(t)
	require.NoError(t, fs.MkdirAll("/somewhere/else", 0755))
	require.NoError(t, fs.Symlink("/somewhere/else", "/home/user/.config"))

	results, err := l.LinkChildren("/repo/.config", "/home/user/.config")
	require.NoError(t, err)
	require.Len(t, results, 1)

	// Foreign dir link went to a backup and a real directory replaced it
	backup := "/home/user/.config.backup.20240315103000"
	dest, err := fs.Readlink(backup)
	require.NoError(t, err)
	assert.Equal(t, "/somewhere/else", dest)

	info, err := fs.Lstat("/home/user/.config")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
