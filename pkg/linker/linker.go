// Package linker ensures home-directory paths are symlinks into the
// dotfiles repository. Anything already occupying a target path is moved
// to a timestamped backup before the link is created, so a failed or
// interrupted run never leaves the filesystem worse than it started.
package linker

import (
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/arthur-debert/homelink/pkg/clock"
	"github.com/arthur-debert/homelink/pkg/errors"
	"github.com/arthur-debert/homelink/pkg/filesystem"
	"github.com/arthur-debert/homelink/pkg/logging"
	"github.com/rs/zerolog"
)

// Result describes what Link did to a target path.
type Result string

const (
	// AlreadyLinked means the target was already the expected symlink; nothing changed.
	AlreadyLinked Result = "already-linked"

	// Linked means the target did not exist and a fresh symlink was created.
	Linked Result = "linked"

	// BackedUpAndLinked means a pre-existing file, directory or foreign
	// symlink was moved to a backup path before the link was created.
	BackedUpAndLinked Result = "backed-up-and-linked"
)

// Policy controls how a foreign symlink at the target path is handled.
type Policy int

const (
	// PolicyFatal treats a foreign symlink as a conflict requiring manual
	// resolution. Used for single monolithic links.
	PolicyFatal Policy = iota

	// PolicyBackup renames a foreign symlink to a backup path and links
	// over it. Used for per-child linking.
	PolicyBackup
)

// BackupTimeFormat is the seconds-granularity timestamp appended to
// backup paths.
const BackupTimeFormat = "20060102150405"

// ChildResult reports the outcome for one child of a per-child link run.
type ChildResult struct {
	Name       string
	Target     string
	Result     Result
	BackupPath string
}

// Linker creates and repairs symlinks.
type Linker struct {
	fs     filesystem.FS
	clock  clock.Clock
	logger zerolog.Logger
}

// New creates a Linker operating on the given filesystem.
func New(filesys filesystem.FS, clk clock.Clock) *Linker {
	return &Linker{
		fs:     filesys,
		clock:  clk,
		logger: logging.GetLogger("linker"),
	}
}

// Link ensures target is a symlink resolving to source.
//
// An existing symlink resolving elsewhere (including a broken one) is a
// conflict: fatal under PolicyFatal, renamed to a backup under
// PolicyBackup. An existing real file or directory is always moved to a
// backup path first.
func (l *Linker) Link(source, target string, policy Policy) (Result, string, error) {
	info, err := l.fs.Lstat(target)
	if err != nil && !os.IsNotExist(err) {
		return "", "", errors.Wrapf(err, errors.ErrFileAccess, "cannot examine %s", target)
	}

	backupPath := ""
	if err == nil {
		switch {
		case info.Mode()&fs.ModeSymlink != 0:
			dest, err := l.fs.Readlink(target)
			if err != nil {
				return "", "", errors.Wrapf(err, errors.ErrFileAccess, "cannot read symlink %s", target)
			}
			if l.resolvesTo(target, dest, source) {
				l.logger.Info().Str("target", target).Msg("already linked")
				return AlreadyLinked, "", nil
			}
			if policy == PolicyFatal {
				return "", "", errors.Newf(errors.ErrConflict,
					"%s is a symlink to %s, not %s; resolve manually", target, dest, source).
					WithDetail("target", target).
					WithDetail("resolved", dest)
			}
			backupPath, err = l.backup(target)
			if err != nil {
				return "", "", err
			}
		default:
			backupPath, err = l.backup(target)
			if err != nil {
				return "", "", err
			}
		}
	}

	if err := l.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", "", errors.Wrapf(err, errors.ErrDirCreate, "cannot create parent of %s", target)
	}
	if err := l.fs.Symlink(source, target); err != nil {
		return "", "", errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot link %s -> %s", target, source)
	}

	if backupPath != "" {
		l.logger.Warn().Str("target", target).Str("backup", backupPath).Msg("existing path backed up before linking")
		return BackedUpAndLinked, backupPath, nil
	}
	l.logger.Info().Str("target", target).Str("source", source).Msg("linked")
	return Linked, "", nil
}

// LinkChildren links every entry of sourceDir to the same name under
// targetDir, backing up anything in the way. It also migrates the legacy
// layout where targetDir itself was one symlink to sourceDir: that link
// is removed and replaced by a real directory before children are linked.
func (l *Linker) LinkChildren(sourceDir, targetDir string) ([]ChildResult, error) {
	if err := l.migrateLegacyDirLink(sourceDir, targetDir); err != nil {
		return nil, err
	}
	if err := l.fs.MkdirAll(targetDir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", targetDir)
	}

	entries, err := l.fs.ReadDir(sourceDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", sourceDir)
	}

	var results []ChildResult
	for _, entry := range entries {
		source := filepath.Join(sourceDir, entry.Name())
		target := filepath.Join(targetDir, entry.Name())

		result, backupPath, err := l.Link(source, target, PolicyBackup)
		if err != nil {
			return results, err
		}
		results = append(results, ChildResult{
			Name:       entry.Name(),
			Target:     target,
			Result:     result,
			BackupPath: backupPath,
		})
	}
	return results, nil
}

// Preview reports what Link would do without touching the filesystem.
// Under PolicyFatal a foreign symlink still surfaces as a conflict
// error so dry runs and status checks show the same failure setup would.
func (l *Linker) Preview(source, target string, policy Policy) (Result, error) {
	info, err := l.fs.Lstat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return Linked, nil
		}
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot examine %s", target)
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		dest, err := l.fs.Readlink(target)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot read symlink %s", target)
		}
		if l.resolvesTo(target, dest, source) {
			return AlreadyLinked, nil
		}
		if policy == PolicyFatal {
			return "", errors.Newf(errors.ErrConflict,
				"%s is a symlink to %s, not %s; resolve manually", target, dest, source)
		}
	}
	return BackedUpAndLinked, nil
}

// PreviewChildren reports what LinkChildren would do per child.
func (l *Linker) PreviewChildren(sourceDir, targetDir string) ([]ChildResult, error) {
	entries, err := l.fs.ReadDir(sourceDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", sourceDir)
	}

	var results []ChildResult
	for _, entry := range entries {
		source := filepath.Join(sourceDir, entry.Name())
		target := filepath.Join(targetDir, entry.Name())

		result, err := l.Preview(source, target, PolicyBackup)
		if err != nil {
			return results, err
		}
		results = append(results, ChildResult{Name: entry.Name(), Target: target, Result: result})
	}
	return results, nil
}

// migrateLegacyDirLink handles the one-time migration from the old
// whole-directory layout. When targetDir is itself a symlink resolving to
// sourceDir, the link is removed so a real directory can take its place.
// Running it again after migration is a no-op.
func (l *Linker) migrateLegacyDirLink(sourceDir, targetDir string) error {
	info, err := l.fs.Lstat(targetDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot examine %s", targetDir)
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		return nil
	}

	dest, err := l.fs.Readlink(targetDir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read symlink %s", targetDir)
	}
	if l.resolvesTo(targetDir, dest, sourceDir) {
		l.logger.Warn().Str("target", targetDir).Msg("migrating legacy whole-directory link to per-entry links")
		if err := l.fs.Remove(targetDir); err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot remove legacy link %s", targetDir)
		}
		return nil
	}

	// A symlink somewhere else entirely: back it up like any other
	// foreign link so a real directory can be created.
	backupPath, err := l.backup(targetDir)
	if err != nil {
		return err
	}
	l.logger.Warn().Str("target", targetDir).Str("backup", backupPath).Msg("foreign directory link backed up")
	return nil
}

// backup moves whatever is at path out of the way and returns where it
// went. Timestamps have second granularity; a numeric suffix
// disambiguates collisions within the same second.
func (l *Linker) backup(path string) (string, error) {
	base := path + ".backup." + l.clock.Now().Format(BackupTimeFormat)

	candidate := base
	for i := 1; ; i++ {
		if _, err := l.fs.Lstat(candidate); os.IsNotExist(err) {
			break
		}
		candidate = base + "." + strconv.Itoa(i)
	}

	if err := l.fs.Rename(path, candidate); err != nil {
		return "", errors.Wrapf(err, errors.ErrBackupMove, "cannot move %s to %s", path, candidate)
	}
	return candidate, nil
}

// resolvesTo reports whether a symlink at linkPath with the given
// destination points at want. Relative destinations are resolved against
// the link's own directory.
func (l *Linker) resolvesTo(linkPath, dest, want string) bool {
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(filepath.Dir(linkPath), dest)
	}
	return filepath.Clean(dest) == filepath.Clean(want)
}
