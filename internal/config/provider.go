// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions selects where the nancy config.cue is read from. The zero
// value loads from the platform config directory, falling back to the
// built-in marker defaults when no file exists.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific config.cue when set
	// (the --config flag); the file must exist.
	ConfigFilePath string
	// ConfigDirPath overrides the platform config directory lookup when
	// set. Used by tests to point at a fixture directory.
	ConfigDirPath string
}

// Provider loads the marker and UI configuration from explicit options.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

type fileProvider struct{}

// NewProvider creates a Provider backed by the config.cue file, schema
// validation included.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
