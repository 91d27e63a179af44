// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI surface for nancy.
//
// This package implements the Cobra command hierarchy: the root command,
// which runs a build, and the config subcommands. It owns everything
// user-facing (flags, styles, error rendering); the build itself lives in
// internal/builder.
package cmd
