package config

import (
	_ "embed"
	stderrors "errors"
)

//go:embed defaults.toml
var defaultConfig []byte

// rawBytesProvider feeds embedded bytes to koanf
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}
