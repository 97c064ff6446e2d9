// Package cli assembles the runtime environment commands operate on:
// filesystem, process runner, clock, resolved paths and configuration.
package cli

import (
	"github.com/arthur-debert/homelink/pkg/clock"
	"github.com/arthur-debert/homelink/pkg/config"
	"github.com/arthur-debert/homelink/pkg/execrunner"
	"github.com/arthur-debert/homelink/pkg/filesystem"
	"github.com/arthur-debert/homelink/pkg/paths"
	"github.com/arthur-debert/homelink/pkg/platform"
)

// Env carries the dependencies every command needs.
type Env struct {
	FS     filesystem.FS
	Runner execrunner.Runner
	Clock  clock.Clock
	Paths  paths.Paths
	Config *config.Config
	OS     platform.OS
}

// NewEnv resolves paths and loads configuration. repoRoot and
// configPath may be empty; they then fall back to the environment and
// the repo's .homelink.toml.
func NewEnv(repoRoot, configPath string) (*Env, error) {
	p, err := paths.New(repoRoot)
	if err != nil {
		return nil, err
	}

	if configPath == "" {
		configPath = p.RepoConfigPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	return &Env{
		FS:     filesystem.NewOS(),
		Runner: execrunner.NewOS(),
		Clock:  &clock.RealClock{},
		Paths:  p,
		Config: cfg,
		OS:     platform.Detect(),
	}, nil
}
