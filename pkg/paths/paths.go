// Package paths provides centralized path handling for homelink.
// It resolves the dotfiles repository root, the home-directory link
// targets, and the XDG cache/state locations used for the update-check
// throttle file and the log file.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/homelink/pkg/errors"
)

// Environment variable names
const (
	// EnvRepoRoot is the primary environment variable for the dotfiles repo location
	EnvRepoRoot = "HOMELINK_REPO_ROOT"

	// EnvCacheDir overrides the XDG cache directory for homelink
	EnvCacheDir = "HOMELINK_CACHE_DIR"
)

// Well-known names inside the repository and the home directory.
const (
	// AppDirName is the directory name for homelink-specific files
	AppDirName = "homelink"

	// ConfigSourceDir is the directory inside the repo that holds ~/.config entries
	ConfigSourceDir = ".config"

	// RepoConfigFile is the name of the repo configuration file
	RepoConfigFile = ".homelink.toml"

	// LastCheckFile is the update-check throttle timestamp file
	LastCheckFile = "last-update-check"

	// LogFileName is the name of the log file
	LogFileName = "homelink.log"
)

// Paths provides centralized path management for homelink
type Paths interface {
	HomeDir() string
	RepoRoot() string
	UsedFallback() bool
	RepoConfigPath() string
	ConfigSource() string
	ConfigTarget() string
	CacheDir() string
	StateDir() string
	LastCheckPath() string
	LogFilePath() string
	ExpandHome(path string) string
}

type paths struct {
	homeDir  string
	repoRoot string
	xdgCache string
	xdgState string

	// usedFallback indicates the repo root fell back to cwd (warning-worthy)
	usedFallback bool
}

// New creates a Paths instance rooted at the given dotfiles repository.
// If repoRoot is empty it is taken from HOMELINK_REPO_ROOT, falling back
// to the current working directory.
func New(repoRoot string) (Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot determine home directory")
	}

	p := &paths{homeDir: home}

	if repoRoot == "" {
		repoRoot = os.Getenv(EnvRepoRoot)
	}
	if repoRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot determine working directory")
		}
		repoRoot = cwd
		p.usedFallback = true
	}

	repoRoot = p.ExpandHome(repoRoot)
	absRoot, err := filepath.Abs(repoRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for repo root %s", repoRoot)
	}
	p.repoRoot = absRoot

	if cache := os.Getenv(EnvCacheDir); cache != "" {
		p.xdgCache = p.ExpandHome(cache)
	} else {
		p.xdgCache = filepath.Join(xdg.CacheHome, AppDirName)
	}
	p.xdgState = filepath.Join(xdg.StateHome, AppDirName)

	return p, nil
}

func (p *paths) HomeDir() string {
	return p.homeDir
}

func (p *paths) RepoRoot() string {
	return p.repoRoot
}

func (p *paths) UsedFallback() bool {
	return p.usedFallback
}

func (p *paths) RepoConfigPath() string {
	return filepath.Join(p.repoRoot, RepoConfigFile)
}

// ConfigSource is the repo-side directory whose children get linked
// under ~/.config.
func (p *paths) ConfigSource() string {
	return filepath.Join(p.repoRoot, ConfigSourceDir)
}

func (p *paths) ConfigTarget() string {
	return filepath.Join(p.homeDir, ".config")
}

func (p *paths) CacheDir() string {
	return p.xdgCache
}

func (p *paths) StateDir() string {
	return p.xdgState
}

func (p *paths) LastCheckPath() string {
	return filepath.Join(p.xdgCache, LastCheckFile)
}

func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// ExpandHome replaces a leading ~ or ~/ with the user's home directory.
func (p *paths) ExpandHome(path string) string {
	if path == "~" {
		return p.homeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(p.homeDir, path[2:])
	}
	return path
}
