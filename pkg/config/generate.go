package config

import (
	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/homelink/pkg/errors"
)

// DefaultTOML returns the embedded default configuration, suitable for
// seeding a new .homelink.toml.
func DefaultTOML() []byte {
	out := make([]byte, len(defaultConfig))
	copy(out, defaultConfig)
	return out
}

// MarshalTOML renders the effective configuration (after file and
// environment merging) back to TOML.
func MarshalTOML(cfg *Config) ([]byte, error) {
	out, err := gotoml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to marshal configuration")
	}
	return out, nil
}
