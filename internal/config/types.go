// SPDX-License-Identifier: MPL-2.0

package config

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// Config holds the nancy configuration.
	Config struct {
		// TemplateMarker is the name infix selecting macro expansion
		// (stripped from the output name).
		TemplateMarker string `mapstructure:"template_marker"`
		// FragmentMarker is the name infix excluding a file from output.
		FragmentMarker string `mapstructure:"fragment_marker"`
		// UI holds presentation settings.
		UI UIConfig `mapstructure:"ui"`
	}

	// UIConfig holds presentation settings.
	UIConfig struct {
		// ColorScheme selects the terminal color scheme.
		ColorScheme ColorScheme `mapstructure:"color_scheme"`
		// Verbose enables debug-level expansion tracing.
		Verbose bool `mapstructure:"verbose"`
	}
)

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		TemplateMarker: ".nancy",
		FragmentMarker: ".in",
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
