// Package setup orchestrates the full provisioning pipeline: managed
// links, the shell rc patch, and the Brewfile install, in that order.
// Stages are independent; ordering only matters for log readability.
package setup

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/homelink/pkg/brewfile"
	"github.com/arthur-debert/homelink/pkg/clock"
	"github.com/arthur-debert/homelink/pkg/config"
	"github.com/arthur-debert/homelink/pkg/execrunner"
	"github.com/arthur-debert/homelink/pkg/filesystem"
	"github.com/arthur-debert/homelink/pkg/installer"
	"github.com/arthur-debert/homelink/pkg/linker"
	"github.com/arthur-debert/homelink/pkg/logging"
	"github.com/arthur-debert/homelink/pkg/output"
	"github.com/arthur-debert/homelink/pkg/paths"
	"github.com/arthur-debert/homelink/pkg/platform"
	"github.com/arthur-debert/homelink/pkg/rcpatch"
	"github.com/rs/zerolog"
)

// Options control a setup run.
type Options struct {
	// DryRun reports what each stage would do without mutating anything.
	DryRun bool

	// NoInstall skips the Brewfile stage.
	NoInstall bool
}

// StageReport is the user-facing outcome of one pipeline stage.
type StageReport struct {
	Name   string             `json:"name" yaml:"name"`
	Status output.StageStatus `json:"status" yaml:"status"`
	Detail string             `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Setup runs the provisioning pipeline.
type Setup struct {
	fs     filesystem.FS
	runner execrunner.Runner
	clock  clock.Clock
	paths  paths.Paths
	cfg    *config.Config
	osKind platform.OS
	logger zerolog.Logger
}

// New creates a Setup for the given environment.
func New(fs filesystem.FS, runner execrunner.Runner, clk clock.Clock, p paths.Paths, cfg *config.Config, osKind platform.OS) *Setup {
	return &Setup{
		fs:     fs,
		runner: runner,
		clock:  clk,
		paths:  p,
		cfg:    cfg,
		osKind: osKind,
		logger: logging.GetLogger("setup"),
	}
}

// Run executes (or previews) every stage. The returned reports cover
// the stages that ran; a fatal error stops the pipeline and is returned
// alongside the reports accumulated so far.
func (s *Setup) Run(opts Options) ([]StageReport, error) {
	var reports []StageReport

	linkReports, err := s.runLinks(opts.DryRun)
	reports = append(reports, linkReports...)
	if err != nil {
		return reports, err
	}

	report, err := s.runRcPatch(opts.DryRun)
	reports = append(reports, report)
	if err != nil {
		return reports, err
	}

	if opts.NoInstall {
		reports = append(reports, StageReport{Name: "brew bundle", Status: output.StageSkipped, Detail: "disabled"})
		return reports, nil
	}
	report, err = s.runInstall(opts.DryRun)
	reports = append(reports, report)
	if err != nil {
		return reports, err
	}

	return reports, nil
}

func (s *Setup) runLinks(dryRun bool) ([]StageReport, error) {
	lnk := linker.New(s.fs, s.clock)
	var reports []StageReport

	for _, entry := range s.cfg.Links {
		name := fmt.Sprintf("link %s", entry.Target)

		if entry.OS != "" && entry.OS != s.osKind.String() {
			reports = append(reports, StageReport{
				Name:   name,
				Status: output.StageSkipped,
				Detail: entry.OS + " only",
			})
			continue
		}

		source := filepath.Join(s.paths.RepoRoot(), entry.Source)
		target := s.paths.ExpandHome(entry.Target)

		if _, err := s.fs.Lstat(source); os.IsNotExist(err) {
			s.logger.Debug().Str("source", source).Msg("link source missing, skipping")
			reports = append(reports, StageReport{
				Name:   name,
				Status: output.StageSkipped,
				Detail: "source missing",
			})
			continue
		}

		report, err := s.linkOne(lnk, entry, name, source, target, dryRun)
		reports = append(reports, report)
		if err != nil {
			return reports, err
		}
	}
	return reports, nil
}

func (s *Setup) linkOne(lnk *linker.Linker, entry config.LinkEntry, name, source, target string, dryRun bool) (StageReport, error) {
	if entry.EffectiveMode() == config.ModeChildren {
		var results []linker.ChildResult
		var err error
		if dryRun {
			results, err = lnk.PreviewChildren(source, target)
		} else {
			results, err = lnk.LinkChildren(source, target)
		}
		if err != nil {
			return StageReport{Name: name, Status: output.StageFailed, Detail: err.Error()}, err
		}
		return StageReport{Name: name, Status: output.StageOK, Detail: summarizeChildren(results)}, nil
	}

	var result linker.Result
	var err error
	if dryRun {
		result, err = lnk.Preview(source, target, linker.PolicyFatal)
	} else {
		result, _, err = lnk.Link(source, target, linker.PolicyFatal)
	}
	if err != nil {
		return StageReport{Name: name, Status: output.StageFailed, Detail: err.Error()}, err
	}
	return StageReport{Name: name, Status: output.StageOK, Detail: string(result)}, nil
}

func (s *Setup) runRcPatch(dryRun bool) (StageReport, error) {
	shell := s.cfg.Shell
	name := fmt.Sprintf("patch %s", shell.RcFile)
	if shell.RcFile == "" {
		return StageReport{Name: "patch rc", Status: output.StageSkipped, Detail: "not configured"}, nil
	}

	rcPath := s.paths.ExpandHome(shell.RcFile)

	if dryRun {
		patched, err := rcpatch.IsPatched(s.fs, rcPath, shell.Marker)
		if err != nil {
			return StageReport{Name: name, Status: output.StageFailed, Detail: err.Error()}, err
		}
		detail := string(rcpatch.Created)
		if patched {
			detail = string(rcpatch.AlreadyPatched)
		}
		return StageReport{Name: name, Status: output.StageOK, Detail: detail}, nil
	}

	result, err := rcpatch.Patch(s.fs, rcPath, shell.Marker, shell.Lines)
	if err != nil {
		return StageReport{Name: name, Status: output.StageFailed, Detail: err.Error()}, err
	}
	return StageReport{Name: name, Status: output.StageOK, Detail: string(result)}, nil
}

func (s *Setup) runInstall(dryRun bool) (StageReport, error) {
	const name = "brew bundle"
	manifest := filepath.Join(s.paths.RepoRoot(), s.cfg.Brew.Manifest)
	primary := platform.OS(s.cfg.Brew.PrimaryOS)

	if dryRun {
		return s.previewInstall(name, manifest, primary)
	}

	inst := installer.New(s.fs, s.runner)
	// The filtered manifest goes to our cache dir rather than the OS
	// temp dir so every filesystem implementation can host it.
	inst.TempDir = s.paths.CacheDir()
	result, err := inst.Install(manifest, s.osKind, primary)
	if err != nil {
		return StageReport{Name: name, Status: output.StageFailed, Detail: err.Error()}, err
	}

	switch result.Kind {
	case installer.Skipped:
		return StageReport{Name: name, Status: output.StageSkipped, Detail: result.Reason}, nil
	case installer.CompletedWithErrors:
		return StageReport{Name: name, Status: output.StageWarn, Detail: "some packages failed"}, nil
	default:
		return StageReport{Name: name, Status: output.StageOK, Detail: fmt.Sprintf("%d entries", result.Installed)}, nil
	}
}

// previewInstall mirrors the installer's skip checks and filtered entry
// count without invoking brew or writing a temp manifest.
func (s *Setup) previewInstall(name, manifest string, primary platform.OS) (StageReport, error) {
	if _, err := s.runner.LookPath(installer.BrewExecutable); err != nil {
		return StageReport{Name: name, Status: output.StageSkipped, Detail: "tool not found"}, nil
	}
	if _, err := s.fs.Stat(manifest); err != nil {
		return StageReport{Name: name, Status: output.StageSkipped, Detail: "manifest not found"}, nil
	}

	entries, err := brewfile.Load(s.fs, manifest)
	if err != nil {
		return StageReport{Name: name, Status: output.StageFailed, Detail: err.Error()}, err
	}
	kept := entries
	if !s.osKind.IsPrimary(primary) {
		kept = brewfile.Filter(entries, s.osKind)
	}
	if len(kept) == 0 {
		return StageReport{Name: name, Status: output.StageSkipped, Detail: "no entries for this OS"}, nil
	}
	return StageReport{Name: name, Status: output.StageOK, Detail: fmt.Sprintf("%d entries to install", len(kept))}, nil
}

func summarizeChildren(results []linker.ChildResult) string {
	counts := map[linker.Result]int{}
	for _, r := range results {
		counts[r.Result]++
	}
	return fmt.Sprintf("%d linked, %d already linked, %d backed up",
		counts[linker.Linked], counts[linker.AlreadyLinked], counts[linker.BackedUpAndLinked])
}
