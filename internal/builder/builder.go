// SPDX-License-Identifier: MPL-2.0

// Package builder drives a build: it walks the merged virtual tree from the
// requested build path, classifies every file by its name markers, and
// writes the output tree. Template files are macro-expanded, fragment files
// are skipped, everything else is copied byte for byte.
package builder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"nancy-cli/internal/macro"
	"nancy-cli/internal/tree"
	"nancy-cli/pkg/fspath"
)

const (
	// DefaultTemplateMarker selects files for macro expansion.
	DefaultTemplateMarker = ".nancy"
	// DefaultFragmentMarker excludes files from the output entirely.
	DefaultFragmentMarker = ".in"
	// Stdout as the output path writes a single built file to stdout.
	Stdout = "-"
)

type (
	// Options configures one build. Inputs and Output are required.
	Options struct {
		// Inputs is the ordered list of input roots; index 0 has the
		// highest precedence.
		Inputs []string
		// Output is the output directory (or file, or "-" for stdout
		// when the build path names a single file).
		Output string
		// BuildPath restricts the build to a subtree; empty builds the
		// whole tree. Must be relative.
		BuildPath string
		// TemplateMarker overrides DefaultTemplateMarker when non-empty.
		TemplateMarker string
		// FragmentMarker overrides DefaultFragmentMarker when non-empty.
		FragmentMarker string
		// StdoutWriter receives output when Output is "-". Defaults to
		// os.Stdout.
		StdoutWriter io.Writer
	}

	// Builder holds the resolved state of one build. Builds are
	// single-threaded and depth-first; the output directory is the only
	// resource written, strictly by the calling goroutine.
	Builder struct {
		resolver  *tree.Resolver
		output    string
		buildPath string
		template  fspath.Marker
		fragment  fspath.Marker
		stdout    io.Writer
	}
)

// Build runs a whole build: validate the configuration, resolve the build
// path, and produce the output tree. Any error aborts the build; partial
// output must not be trusted.
func Build(ctx context.Context, opts Options) error {
	b, err := newBuilder(opts)
	if err != nil {
		return err
	}

	logical := fspath.Clean(opts.BuildPath)
	obj, err := b.resolver.Resolve(logical)
	if err != nil {
		return err
	}
	if obj == nil {
		return fmt.Errorf("'%s' matches no path in the inputs", opts.BuildPath)
	}

	if _, isDir := obj.(*tree.Dir); isDir {
		if b.output == Stdout {
			return errors.New("cannot output multiple files to stdout ('-')")
		}
		// All-or-nothing output: recreate the output directory from
		// scratch so stale files from earlier builds cannot survive.
		if err := os.RemoveAll(b.output); err != nil {
			return fmt.Errorf("clearing output directory '%s': %w", b.output, err)
		}
	}
	return b.buildObject(ctx, logical)
}

func newBuilder(opts Options) (*Builder, error) {
	if filepath.IsAbs(opts.BuildPath) {
		return nil, errors.New("build path must be relative")
	}
	resolver, err := tree.NewResolver(opts.Inputs)
	if err != nil {
		return nil, err
	}

	templateMarker := opts.TemplateMarker
	if templateMarker == "" {
		templateMarker = DefaultTemplateMarker
	}
	fragmentMarker := opts.FragmentMarker
	if fragmentMarker == "" {
		fragmentMarker = DefaultFragmentMarker
	}
	stdout := opts.StdoutWriter
	if stdout == nil {
		stdout = os.Stdout
	}

	return &Builder{
		resolver:  resolver,
		output:    opts.Output,
		buildPath: fspath.Clean(opts.BuildPath),
		template:  fspath.NewMarker(templateMarker),
		fragment:  fspath.NewMarker(fragmentMarker),
		stdout:    stdout,
	}, nil
}

// buildObject resolves one logical path and processes it as a directory or
// a file. Directories are re-resolved on recursion so children stay merged
// across every input root.
func (b *Builder) buildObject(ctx context.Context, logical string) error {
	obj, err := b.resolver.Resolve(logical)
	if err != nil {
		return err
	}
	if obj == nil {
		return fmt.Errorf("'%s' matches no path in the inputs", logical)
	}
	switch o := obj.(type) {
	case *tree.Dir:
		return b.buildDir(ctx, logical, o)
	case *tree.File:
		return b.processFile(ctx, logical, o.RealPath)
	}
	return nil
}

// buildDir recreates the corresponding output directory and walks every
// non-dot-prefixed child. Children are processed in lexicographic name
// order, files and directories interleaved, so builds are reproducible.
func (b *Builder) buildDir(ctx context.Context, logical string, dir *tree.Dir) error {
	outDir := b.outputFor(logical)
	slog.Debug("entering directory", "path", logical, "out", outDir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory '%s': %w", outDir, err)
	}
	for _, entry := range dir.Entries {
		if fspath.IsDotfile(entry.Name) {
			continue
		}
		child := fspath.Join(logical, entry.Name)
		if entry.IsDir {
			if err := b.buildObject(ctx, child); err != nil {
				return err
			}
		} else if err := b.processFile(ctx, child, entry.RealPath); err != nil {
			return err
		}
	}
	return nil
}

// processFile classifies one file by name. Template files are expanded and
// written with the marker stripped from their name; fragment files are
// never emitted; everything else is copied verbatim, preserving the source
// permission bits.
func (b *Builder) processFile(ctx context.Context, logical, realPath string) error {
	out := b.outputFor(logical)
	name := fspath.Base(logical)
	switch {
	case b.template.Matches(name):
		slog.Debug("expanding", "from", logical, "to", out)
		text, err := macro.ExpandFile(ctx, b.resolver, logical, realPath)
		if err != nil {
			return err
		}
		text = macro.StripFinalNewline(text)
		if out == Stdout {
			_, err := io.WriteString(b.stdout, text)
			return err
		}
		if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
			return fmt.Errorf("writing '%s': %w", out, err)
		}
	case b.fragment.Matches(name):
		// Fragments exist only to be found by ancestor search.
		slog.Debug("skipping fragment", "path", logical)
	default:
		slog.Debug("copying", "from", logical, "to", out)
		return b.copyFile(realPath, out)
	}
	return nil
}

// outputFor maps a logical path under the build path to its output path,
// with the template marker stripped from the name.
func (b *Builder) outputFor(logical string) string {
	var rel string
	switch {
	case logical == b.buildPath:
		rel = ""
	case b.buildPath == fspath.Root:
		rel = logical
	default:
		rel = strings.TrimPrefix(logical, b.buildPath+"/")
	}
	rel = b.template.Strip(rel)
	if rel == "" {
		return b.output
	}
	return filepath.Join(b.output, filepath.FromSlash(rel))
}

// copyFile copies src to dst byte for byte, carrying over the source's
// permission bits (so executable fragments stay executable in output
// trees that copy them).
func (b *Builder) copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if dst == Stdout {
		_, err := io.Copy(b.stdout, in)
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("writing '%s': %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("writing '%s': %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	// The mode passed to OpenFile is ignored when dst already exists.
	return os.Chmod(dst, info.Mode().Perm())
}
