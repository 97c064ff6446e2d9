// Package config loads the repository's .homelink.toml. Embedded
// defaults describe the canonical dotfiles layout; the repo file and
// HOMELINK_* environment variables override them in that order.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/homelink/pkg/errors"
)

// LinkMode selects between a single monolithic link and per-child links.
type LinkMode string

const (
	// ModeSingle links the target path itself. A foreign symlink at the
	// target is a fatal conflict.
	ModeSingle LinkMode = "single"

	// ModeChildren links each entry of the source directory separately.
	// Conflicts are backed up, never fatal.
	ModeChildren LinkMode = "children"
)

// LinkEntry declares one managed link.
type LinkEntry struct {
	// Source is relative to the repo root.
	Source string `koanf:"source" toml:"source"`
	// Target may start with ~/ and is expanded against the home dir.
	Target string   `koanf:"target" toml:"target"`
	Mode   LinkMode `koanf:"mode" toml:"mode"`
	// OS restricts the entry to one platform ("darwin", "linux"); empty
	// means every platform.
	OS string `koanf:"os" toml:"os"`
}

// ShellConfig declares the rc-file patch.
type ShellConfig struct {
	RcFile string   `koanf:"rc_file" toml:"rc_file"`
	Marker string   `koanf:"marker" toml:"marker"`
	Lines  []string `koanf:"lines" toml:"lines"`
}

// BrewConfig declares the package manifest.
type BrewConfig struct {
	// Manifest is relative to the repo root.
	Manifest  string `koanf:"manifest" toml:"manifest"`
	PrimaryOS string `koanf:"primary_os" toml:"primary_os"`
}

// UpdateConfig tunes the background update check.
type UpdateConfig struct {
	CheckInterval time.Duration `koanf:"check_interval" toml:"check_interval"`
}

// Config is the full homelink configuration.
type Config struct {
	Links  []LinkEntry  `koanf:"links" toml:"links"`
	Shell  ShellConfig  `koanf:"shell" toml:"shell"`
	Brew   BrewConfig   `koanf:"brew" toml:"brew"`
	Update UpdateConfig `koanf:"update" toml:"update"`
}

// EnvPrefix is the prefix for environment overrides, e.g.
// HOMELINK_BREW_MANIFEST=Brewfile.work.
const EnvPrefix = "HOMELINK_"

// Load reads configuration: embedded defaults, then the file at
// configPath when it exists, then environment overrides.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default config")
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", configPath)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envToKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envToKey maps HOMELINK_BREW_MANIFEST to brew.manifest. The repo-root
// and cache-dir variables belong to pkg/paths and are excluded here.
func envToKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	switch s {
	case "REPO_ROOT", "CACHE_DIR":
		return ""
	}
	return strings.Replace(strings.ToLower(s), "_", ".", 1)
}

func validate(cfg *Config) error {
	for i, link := range cfg.Links {
		if link.Source == "" || link.Target == "" {
			return errors.Newf(errors.ErrConfigValid, "links[%d]: source and target are required", i)
		}
		switch link.Mode {
		case ModeSingle, ModeChildren, "":
		default:
			return errors.Newf(errors.ErrConfigValid, "links[%d]: unknown mode %q", i, link.Mode)
		}
	}
	if cfg.Shell.RcFile != "" && cfg.Shell.Marker == "" {
		return errors.New(errors.ErrConfigValid, "shell.marker is required when shell.rc_file is set")
	}
	return nil
}

// EffectiveMode resolves the default link mode.
func (l LinkEntry) EffectiveMode() LinkMode {
	if l.Mode == "" {
		return ModeSingle
	}
	return l.Mode
}
