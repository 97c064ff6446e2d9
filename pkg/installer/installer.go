// Package installer drives `brew bundle` against the repository's
// Brewfile. The manifest is authored for macOS; on other systems a
// filtered copy is installed best-effort and partial failure is
// tolerated. On macOS a failed bundle run is fatal.
package installer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/homelink/pkg/brewfile"
	"github.com/arthur-debert/homelink/pkg/errors"
	"github.com/arthur-debert/homelink/pkg/execrunner"
	"github.com/arthur-debert/homelink/pkg/filesystem"
	"github.com/arthur-debert/homelink/pkg/logging"
	"github.com/arthur-debert/homelink/pkg/platform"
	"github.com/rs/zerolog"
)

// BrewExecutable is the package manager binary looked up on PATH.
const BrewExecutable = "brew"

// Kind classifies an install run's outcome.
type Kind string

const (
	// Skipped means no installation was attempted; Result.Reason says why.
	Skipped Kind = "skipped"

	// Completed means brew bundle ran and exited zero.
	Completed Kind = "completed"

	// CompletedWithErrors means the best-effort secondary-OS run exited
	// non-zero; the overall setup continues.
	CompletedWithErrors Kind = "completed-with-errors"
)

// Result is the outcome of Install.
type Result struct {
	Kind   Kind
	Reason string
	// Installed is how many manifest entries were passed to brew.
	Installed int
}

// Installer runs the package manager against a manifest.
type Installer struct {
	fs     filesystem.FS
	runner execrunner.Runner
	logger zerolog.Logger

	// TempDir is where the filtered secondary-OS manifest is written.
	// Defaults to os.TempDir().
	TempDir string
}

// New creates an Installer.
func New(fs filesystem.FS, runner execrunner.Runner) *Installer {
	return &Installer{
		fs:      fs,
		runner:  runner,
		logger:  logging.GetLogger("installer"),
		TempDir: os.TempDir(),
	}
}

// Install runs brew bundle against the manifest at manifestPath.
//
// A missing brew executable or a missing manifest is a skip, not a
// failure. On the primary OS the manifest is used as-is and a non-zero
// exit propagates as fatal. On any other OS the darwin-only entries are
// filtered into a temporary manifest which is removed on every exit
// path, and a non-zero exit only degrades the result.
func (i *Installer) Install(manifestPath string, osKind, primary platform.OS) (Result, error) {
	if _, err := i.runner.LookPath(BrewExecutable); err != nil {
		i.logger.Info().Str("tool", BrewExecutable).Msg("package manager not found, skipping installation")
		return Result{Kind: Skipped, Reason: "tool not found"}, nil
	}

	if _, err := i.fs.Stat(manifestPath); err != nil {
		if os.IsNotExist(err) {
			i.logger.Info().Str("manifest", manifestPath).Msg("manifest not found, skipping installation")
			return Result{Kind: Skipped, Reason: "manifest not found"}, nil
		}
		return Result{}, errors.Wrapf(err, errors.ErrFileAccess, "cannot examine %s", manifestPath)
	}

	if osKind.IsPrimary(primary) {
		// brew owns the manifest dialect here; the parse is only for the
		// entry count and must never block the run.
		installed := 0
		if entries, err := brewfile.Load(i.fs, manifestPath); err == nil {
			installed = len(entries)
		}
		if err := i.bundle(manifestPath); err != nil {
			return Result{}, errors.Wrapf(err, errors.ErrExternalTool,
				"brew bundle failed for %s", manifestPath)
		}
		return Result{Kind: Completed, Installed: installed}, nil
	}

	entries, err := brewfile.Load(i.fs, manifestPath)
	if err != nil {
		return Result{}, err
	}
	return i.installFiltered(entries, osKind)
}

// installFiltered writes the OS-filtered manifest to a temp file, runs
// brew bundle against it, and removes the temp file regardless of how
// the run went.
func (i *Installer) installFiltered(entries []brewfile.Entry, osKind platform.OS) (Result, error) {
	kept := brewfile.Filter(entries, osKind)
	if len(kept) == 0 {
		i.logger.Info().Str("os", osKind.String()).Msg("no installable entries after filtering, skipping")
		return Result{Kind: Skipped, Reason: "no entries for this OS"}, nil
	}

	if err := i.fs.MkdirAll(i.TempDir, 0755); err != nil {
		return Result{}, errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", i.TempDir)
	}
	tmpPath := filepath.Join(i.TempDir, fmt.Sprintf("Brewfile.%s", osKind))
	if err := i.fs.WriteFile(tmpPath, brewfile.Render(kept), 0644); err != nil {
		return Result{}, errors.Wrapf(err, errors.ErrFileWrite, "cannot write filtered manifest %s", tmpPath)
	}
	defer func() {
		if err := i.fs.Remove(tmpPath); err != nil {
			i.logger.Warn().Err(err).Str("path", tmpPath).Msg("could not remove filtered manifest")
		}
	}()

	i.logger.Info().Int("kept", len(kept)).Int("total", len(entries)).
		Str("os", osKind.String()).Msg("installing filtered manifest")

	if err := i.bundle(tmpPath); err != nil {
		i.logger.Warn().Err(err).Msg("best-effort brew bundle failed, continuing")
		return Result{Kind: CompletedWithErrors, Reason: err.Error(), Installed: len(kept)}, nil
	}
	return Result{Kind: Completed, Installed: len(kept)}, nil
}

func (i *Installer) bundle(manifestPath string) error {
	return i.runner.Run("", BrewExecutable, "bundle", "--file="+manifestPath)
}
