// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"nancy-cli/internal/config"
	"nancy-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug-level expansion tracing
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// buildPath restricts the build to a subtree of the input tree
	buildPath string

	// loadedCfg is the configuration loaded during initialization; nil
	// means defaults.
	loadedCfg *config.Config

	// rootCmd represents the base command; running it runs a build.
	rootCmd = &cobra.Command{
		Use:   "nancy INPUT-PATH OUTPUT",
		Short: "A simple templating system",
		Long: TitleStyle.Render("nancy") + SubtitleStyle.Render(" - a simple templating system") + `

nancy builds an output tree from one or more input trees. Plain files are
copied verbatim, fragment files (` + "`.in`" + ` infix) are skipped, and template
files (` + "`.nancy`" + ` infix) are expanded through a small macro language:

  $include{file,args...}   insert a file, recursively expanded
  $paste{file,args...}     insert a file literally
  $path                    directory of the file being expanded
  $root                    the primary input root

Files named in macros are found by searching the directory of the template
and then each of its ancestors, so fragments shared by a whole subtree live
once, at its top. Executable fragments are run and their output inserted.

` + SubtitleStyle.Render("Arguments:") + `
  INPUT-PATH   list of input directories (separated like $PATH), or a
               single file; the inputs are merged in left-to-right order
  OUTPUT       output directory, or file ('-' for stdout)

` + SubtitleStyle.Render("Examples:") + `
  nancy src site                Build the whole tree into site/
  nancy overlay:src site        Merge overlay/ over src/ and build
  nancy --path people src out   Build only the people/ subtree
  nancy page.nancy.html -       Expand a single file to stdout`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args[0], args[1])
		},
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/nancy/config.cue)")
	rootCmd.Flags().StringVar(&buildPath, "path", "", "path to build relative to the input tree (default: the whole tree)")

	// Add subcommands
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// initRootConfig reads the config file, applies UI settings, and installs
// the default slog handler.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	cfg, err := config.Load()
	if err != nil {
		// Always surface config loading errors to the user
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}
	loadedCfg = cfg

	// Apply verbose from config if not set via flag
	if cfg != nil && !verbose {
		verbose = cfg.UI.Verbose
	}

	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: false,
	})
	slog.SetDefault(slog.New(handler))
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
