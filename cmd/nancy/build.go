// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"nancy-cli/internal/builder"
	"nancy-cli/internal/issue"
	"nancy-cli/internal/macro"

	"github.com/spf13/cobra"
)

// runBuild validates the positional arguments and runs a build. It owns the
// CLI-level rewrites (single-file input, config-supplied markers) and the
// mapping from build errors to issue catalog entries.
func runBuild(cmd *cobra.Command, inputPath, output string) error {
	if inputPath == "" {
		return failBuild(cmd, errors.New("input path must not be empty"), issue.ConfigurationErrorId)
	}
	inputs := strings.Split(inputPath, string(os.PathListSeparator))

	// Special case: a single file as INPUT-PATH with no --path expands just
	// that file, resolved against the current directory.
	path := buildPath
	if !cmd.Flags().Changed("path") && len(inputs) == 1 {
		if info, err := os.Stat(inputs[0]); err == nil && info.Mode().IsRegular() {
			cwd, wdErr := os.Getwd()
			if wdErr != nil {
				return failBuild(cmd, fmt.Errorf("cannot determine current directory: %w", wdErr), issue.ConfigurationErrorId)
			}
			path = inputs[0]
			inputs[0] = cwd
			slog.Debug("single-file input", "path", path, "root", cwd)
		}
	}

	if output != builder.Stdout {
		if err := checkOutputOutsideInputs(inputs, output); err != nil {
			return failBuild(cmd, err, issue.ConfigurationErrorId)
		}
	}

	opts := builder.Options{
		Inputs:    inputs,
		Output:    output,
		BuildPath: path,
	}
	if loadedCfg != nil {
		opts.TemplateMarker = loadedCfg.TemplateMarker
		opts.FragmentMarker = loadedCfg.FragmentMarker
	}

	if err := builder.Build(cmd.Context(), opts); err != nil {
		return failBuild(cmd, err, classifyBuildError(err))
	}
	return nil
}

// failBuild renders err with its issue catalog entry and converts it into a
// silent non-zero exit, so Cobra does not print the message a second time.
func failBuild(cmd *cobra.Command, err error, id issue.Id) error {
	styled := ErrorStyle.Render("Error: ") + formatErrorForDisplay(err, verbose) + "\n"
	renderServiceError(cmd.ErrOrStderr(), newServiceError(err, id, styled))
	cmd.SilenceErrors = true
	return &ExitError{Code: 1, Err: err}
}

// classifyBuildError maps expansion errors onto the issue catalog. Errors
// with no catalog entry (I/O failures during the build) render bare.
func classifyBuildError(err error) issue.Id {
	var (
		parseErr    *macro.ParseError
		notFoundErr *macro.NotFoundError
		noMacroErr  *macro.NoSuchMacroError
		evalErr     *macro.EvalError
	)
	switch {
	case errors.As(err, &parseErr):
		return issue.ParseErrorId
	case errors.As(err, &notFoundErr):
		return issue.ResolutionErrorId
	case errors.As(err, &noMacroErr), errors.As(err, &evalErr):
		return issue.EvaluationErrorId
	}
	return 0
}

// checkOutputOutsideInputs rejects an output directory nested inside any
// input root: the build would then read its own output as input.
func checkOutputOutsideInputs(inputs []string, output string) error {
	absOutput, err := filepath.Abs(output)
	if err != nil {
		return fmt.Errorf("cannot resolve output path '%s': %w", output, err)
	}
	for _, input := range inputs {
		absInput, err := filepath.Abs(input)
		if err != nil {
			return fmt.Errorf("cannot resolve input path '%s': %w", input, err)
		}
		if absOutput == absInput || strings.HasPrefix(absOutput, absInput+string(os.PathSeparator)) {
			return fmt.Errorf("output directory '%s' cannot be nested inside input '%s'", output, input)
		}
	}
	return nil
}
